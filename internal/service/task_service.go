package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoService/internal/logger"
	"todoService/internal/models/task"
	rep "todoService/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики.
// actor == nil - запрос без области владения (user_id передаётся явно),
// иначе задачи чужого пользователя считаются несуществующими

type TaskService struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

func NewTaskService(repo Repository) *TaskService {
	return &TaskService{
		repo:     repo,
		validate: newValidator(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateTaskInput struct {
	// используется, только если actor не задан
	UserID      string
	Title       string
	Description *string
	Priority    *int
	DueAt       *time.Time
}

type UpdateTaskInput struct {
	Options []task.TaskOption
	// nil - статус не меняется
	Status *string
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *TaskService) CreateTask(ctx context.Context, actor *uuid.UUID, in CreateTaskInput) (*task.Task, error) {
	ownerID, err := s.resolveOwner(actor, in.UserID)
	if err != nil {
		return nil, err
	}

	newTask := &task.Task{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		Status:      task.StatusPending,
		Priority:    in.Priority,
		DueAt:       in.DueAt,
	}
	if err := s.validate.Struct(newTask); err != nil {
		return nil, validationError(err)
	}

	if actor == nil {
		if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
			if errors.Is(err, rep.ErrNotFound) {
				logger.Info("Service: Владелец задачи не найден", zap.String("user_id", ownerID.String()))
				return nil, NewNotFound(ResourceUser, ownerID.String())
			}
			return nil, fmt.Errorf("получение пользователя: %w", err)
		}
	}

	if err := s.repo.CreateTask(ctx, newTask); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(ResourceUser, ownerID.String())
		}
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.String("task_id", newTask.ID.String()),
		zap.String("user_id", ownerID.String()))
	return newTask, nil
}

func (s *TaskService) resolveOwner(actor *uuid.UUID, rawUserID string) (uuid.UUID, error) {
	if actor != nil {
		return *actor, nil
	}
	rawUserID = strings.TrimSpace(rawUserID)
	if rawUserID == "" {
		return uuid.Nil, NewValidationError("user_id", "обязательное поле")
	}
	ownerID, err := uuid.Parse(rawUserID)
	if err != nil {
		return uuid.Nil, NewValidationError("user_id", "ожидается UUID")
	}
	return ownerID, nil
}

func (s *TaskService) GetTask(ctx context.Context, actor *uuid.UUID, id uuid.UUID) (*task.Task, error) {
	return s.loadTask(ctx, actor, id)
}

// loadTask не различает отсутствие задачи и чужую задачу
func (s *TaskService) loadTask(ctx context.Context, actor *uuid.UUID, id uuid.UUID) (*task.Task, error) {
	found, err := s.repo.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(ResourceTask, id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	if actor != nil && !found.OwnedBy(*actor) {
		logger.Info("Service: Задача принадлежит другому пользователю",
			zap.String("target_id", id.String()),
			zap.String("actor_id", actor.String()))
		return nil, NewNotFound(ResourceTask, id.String())
	}
	return found, nil
}

// UpdateTask применяет только переданные поля. Статус, если он передан,
// меняется через SetStatus, как и в UpdateStatus
func (s *TaskService) UpdateTask(ctx context.Context, actor *uuid.UUID, id uuid.UUID, in UpdateTaskInput) (*task.Task, error) {
	var status task.Status
	if in.Status != nil {
		parsed, err := task.ParseStatus(*in.Status)
		if err != nil {
			return nil, NewValidationError("status", "допустимые значения: PENDING, IN_PROGRESS, DONE, CANCELLED")
		}
		status = parsed
	}

	found, err := s.loadTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	for _, opt := range in.Options {
		opt(found)
	}
	if in.Status != nil {
		found.SetStatus(status, s.now())
	}
	if err := s.validate.Struct(found); err != nil {
		return nil, validationError(err)
	}

	if err := s.save(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, actor *uuid.UUID, id uuid.UUID, rawStatus string) (*task.Task, error) {
	status, err := task.ParseStatus(rawStatus)
	if err != nil {
		return nil, NewValidationError("status", "допустимые значения: PENDING, IN_PROGRESS, DONE, CANCELLED")
	}

	found, err := s.loadTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	previous := found.Status
	found.SetStatus(status, s.now())

	if err := s.save(ctx, found); err != nil {
		return nil, err
	}
	logger.Info("Service: Статус задачи изменён",
		zap.String("task_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))
	return found, nil
}

func (s *TaskService) save(ctx context.Context, t *task.Task) error {
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(ResourceTask, t.ID.String())
		}
		return fmt.Errorf("обновление задачи: %w", err)
	}
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error {
	if _, err := s.loadTask(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(ResourceTask, id.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}
	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	return nil
}

// ListTasks при заданном actor игнорирует user_id из запроса
func (s *TaskService) ListTasks(ctx context.Context, actor *uuid.UUID, in ListTasksInput) ([]*task.Task, error) {
	if actor != nil {
		in.UserID = ""
	}
	q, err := BuildQuery(in)
	if err != nil {
		return nil, err
	}
	if actor != nil {
		ownerID := *actor
		q.OwnerID = &ownerID
	}

	tasks, err := s.repo.ListTasks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("получение списка задач: %w", err)
	}
	return tasks, nil
}
