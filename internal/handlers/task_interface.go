package handlers

import (
	"context"

	"todoService/internal/models/task"
	"todoService/internal/models/user"
	"todoService/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(context.Context) error
	CreateTask(ctx context.Context, actor *uuid.UUID, in service.CreateTaskInput) (*task.Task, error)
	GetTask(ctx context.Context, actor *uuid.UUID, id uuid.UUID) (*task.Task, error)
	UpdateTask(ctx context.Context, actor *uuid.UUID, id uuid.UUID, in service.UpdateTaskInput) (*task.Task, error)
	UpdateStatus(ctx context.Context, actor *uuid.UUID, id uuid.UUID, status string) (*task.Task, error)
	DeleteTask(ctx context.Context, actor *uuid.UUID, id uuid.UUID) error
	ListTasks(ctx context.Context, actor *uuid.UUID, in service.ListTasksInput) ([]*task.Task, error)
}

type UserService interface {
	CreateUser(context.Context, service.CreateUserInput) (*user.User, error)
	GetUser(context.Context, uuid.UUID) (*user.User, error)
	DeleteUser(context.Context, uuid.UUID) error
}

type IdentityResolver interface {
	Resolve(context.Context, service.IdentityHints) (*user.User, error)
}

var (
	_ TaskService      = (*service.TaskService)(nil)
	_ UserService      = (*service.UserService)(nil)
	_ IdentityResolver = (*service.IdentityResolver)(nil)
)
