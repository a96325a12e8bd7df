package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todoService/internal/logger"
	"todoService/internal/models/user"
	rep "todoService/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	repo     UserRepository
	validate *validator.Validate
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo:     repo,
		validate: newValidator(),
	}
}

type CreateUserInput struct {
	Email string
	Name  *string
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*user.User, error) {
	newUser := &user.User{
		ID:    uuid.New(),
		Email: strings.TrimSpace(in.Email),
		Name:  in.Name,
	}
	if err := s.validate.Struct(newUser); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.CreateUser(ctx, newUser); err != nil {
		if errors.Is(err, rep.ErrConflict) {
			logger.Info("Service: Email уже занят", zap.String("email", newUser.Email))
			return nil, NewConflict(ResourceUser,
				fmt.Sprintf("email %s уже используется", newUser.Email),
				ToDetail("email", newUser.Email))
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}
	logger.Info("Service: Пользователь создан", zap.String("user_id", newUser.ID.String()))
	return newUser, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	found, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(ResourceUser, id.String())
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return found, nil
}

// DeleteUser удаляет пользователя вместе с задачами
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(ResourceUser, id.String())
		}
		return fmt.Errorf("удаление пользователя: %w", err)
	}
	logger.Info("Service: Пользователь удалён", zap.String("user_id", id.String()))
	return nil
}
