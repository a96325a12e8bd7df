package service

import (
	"context"

	"todoService/internal/models/task"
	"todoService/internal/models/user"

	"github.com/google/uuid"
)

type TaskRepository interface {
	CreateTask(context.Context, *task.Task) error
	GetTaskByID(context.Context, uuid.UUID) (*task.Task, error)
	UpdateTask(context.Context, *task.Task) error
	DeleteTask(context.Context, uuid.UUID) error
	ListTasks(context.Context, task.Query) ([]*task.Task, error)
}

type UserRepository interface {
	CreateUser(context.Context, *user.User) error
	GetUserByID(context.Context, uuid.UUID) (*user.User, error)
	GetUserByEmail(context.Context, string) (*user.User, error)
	DeleteUser(context.Context, uuid.UUID) error
	// bool - был ли пользователь создан этим вызовом
	GetOrCreateUserByID(ctx context.Context, id uuid.UUID, email string) (*user.User, bool, error)
	GetOrCreateUserByEmail(ctx context.Context, email string) (*user.User, bool, error)
}

// Repository реализуют postgres и inmemory хранилища
type Repository interface {
	TaskRepository
	UserRepository
	HealthCheck(context.Context) error
	Close()
}
