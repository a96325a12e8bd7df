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

// IdentityHints - то, чем клиент представился в запросе
type IdentityHints struct {
	UserID string
	Email  string
}

type IdentityResolver struct {
	repo     UserRepository
	validate *validator.Validate
}

func NewIdentityResolver(repo UserRepository) *IdentityResolver {
	return &IdentityResolver{
		repo:     repo,
		validate: newValidator(),
	}
}

// Resolve находит пользователя по id или, если id не передан, по email.
// Отсутствующий пользователь создаётся, найденный возвращается без изменений
func (r *IdentityResolver) Resolve(ctx context.Context, hints IdentityHints) (*user.User, error) {
	rawID := strings.TrimSpace(hints.UserID)
	email := strings.TrimSpace(hints.Email)

	switch {
	case rawID != "":
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, NewValidationError("user_id", "ожидается UUID")
		}
		if email == "" {
			email = user.PlaceholderEmail(id)
		} else if err := r.checkEmail(email); err != nil {
			return nil, err
		}
		resolved, created, err := r.repo.GetOrCreateUserByID(ctx, id, email)
		return r.result(resolved, created, err, email)

	case email != "":
		if err := r.checkEmail(email); err != nil {
			return nil, err
		}
		resolved, created, err := r.repo.GetOrCreateUserByEmail(ctx, email)
		return r.result(resolved, created, err, email)
	}

	return nil, NewUnauthorized("Не передан идентификатор пользователя")
}

func (r *IdentityResolver) checkEmail(email string) error {
	if err := r.validate.Var(email, "email,max=320"); err != nil {
		return NewValidationError("email", "некорректный email")
	}
	return nil
}

func (r *IdentityResolver) result(resolved *user.User, created bool, err error, email string) (*user.User, error) {
	if err != nil {
		if errors.Is(err, rep.ErrConflict) {
			logger.Warn("Service: Email принадлежит другому пользователю", zap.String("email", email))
			return nil, NewConflict(ResourceUser,
				fmt.Sprintf("email %s принадлежит другому пользователю", email),
				ToDetail("email", email))
		}
		return nil, fmt.Errorf("определение пользователя: %w", err)
	}
	if created {
		logger.Info("Service: Пользователь создан при определении личности",
			zap.String("user_id", resolved.ID.String()))
	}
	return resolved, nil
}
