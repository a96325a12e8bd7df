package task

import (
	"time"
)

// TaskOption применяет одно изменение к задаче при частичном обновлении.
// Статус через опции не меняется, для этого есть SetStatus
type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

// nil очищает описание
func WithDescription(description *string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithPriority(priority *int) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithDueAt(dueAt *time.Time) TaskOption {
	return func(task *Task) {
		task.DueAt = dueAt
	}
}
