package dto

import (
	"time"

	"todoService/internal/models/task"
	"todoService/internal/models/user"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	// обязателен, если личность не определяется по заголовкам
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    *int       `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
}

// UpdateTaskRequest - частичное обновление: отсутствующее поле не меняется,
// null очищает поле
type UpdateTaskRequest struct {
	Title       Nullable[string]    `json:"title"`
	Description Nullable[string]    `json:"description"`
	Priority    Nullable[int]       `json:"priority"`
	DueAt       Nullable[time.Time] `json:"due_at"`
	Status      Nullable[string]    `json:"status"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CreateUserRequest struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    *int       `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    t.Priority,
		DueAt:       t.DueAt,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
