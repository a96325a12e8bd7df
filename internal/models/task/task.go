package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title" validate:"required,max=500"`
	Description *string    `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	Priority    *int       `json:"priority" db:"priority" validate:"omitnil,min=0,max=10"`
	DueAt       *time.Time `json:"due_at" db:"due_at"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type Status string

const StatusPending Status = "PENDING"
const StatusInProgress Status = "IN_PROGRESS"
const StatusDone Status = "DONE"
const StatusCancelled Status = "CANCELLED"

var ErrUnknownStatus = errors.New("неизвестный статус")

// ParseStatus приводит значение к верхнему регистру и проверяет его по списку статусов
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case StatusPending, StatusInProgress, StatusDone, StatusCancelled:
		return status, nil
	}
	return "", ErrUnknownStatus
}

func (s Status) IsClosed() bool {
	return s == StatusDone || s == StatusCancelled
}

// SetStatus - единственное место, где меняется статус задачи.
// completed_at заполняется при переходе в DONE/CANCELLED и очищается в остальных случаях
func (t *Task) SetStatus(status Status, now time.Time) {
	t.Status = status
	if status.IsClosed() {
		completed := now
		t.CompletedAt = &completed
		return
	}
	t.CompletedAt = nil
}

func (t *Task) OwnedBy(userID uuid.UUID) bool {
	return t.UserID == userID
}

func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.Priority != nil {
		p := *t.Priority
		c.Priority = &p
	}
	if t.DueAt != nil {
		d := *t.DueAt
		c.DueAt = &d
	}
	if t.CompletedAt != nil {
		d := *t.CompletedAt
		c.CompletedAt = &d
	}
	return &c
}
