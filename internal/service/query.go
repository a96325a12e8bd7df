package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"todoService/internal/models/task"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// ListTasksInput - параметры списка задач в том виде, в каком они пришли из запроса.
// Пустая строка означает, что параметр не передан
type ListTasksInput struct {
	UserID    string
	Status    string
	DueBefore string
	DueAfter  string
	Priority  string
	Sort      string
	Limit     string
	Offset    string
}

// BuildQuery разбирает и проверяет все параметры до обращения к хранилищу.
// Любая ошибка отклоняет запрос целиком
func BuildQuery(in ListTasksInput) (task.Query, error) {
	q := task.Query{Limit: task.DefaultLimit}

	if in.UserID != "" {
		ownerID, err := uuid.Parse(strings.TrimSpace(in.UserID))
		if err != nil {
			return task.Query{}, NewValidationError("user_id", "ожидается UUID")
		}
		q.OwnerID = &ownerID
	}

	if in.Status != "" {
		status, err := task.ParseStatus(in.Status)
		if err != nil {
			return task.Query{}, NewValidationError("status", "допустимые значения: PENDING, IN_PROGRESS, DONE, CANCELLED")
		}
		q.Status = &status
	}

	var err error
	if q.DueBefore, err = parseBound("due_before", in.DueBefore); err != nil {
		return task.Query{}, err
	}
	if q.DueAfter, err = parseBound("due_after", in.DueAfter); err != nil {
		return task.Query{}, err
	}

	if in.Priority != "" {
		priority, err := parseIntInRange("priority", in.Priority, 0, 10)
		if err != nil {
			return task.Query{}, err
		}
		q.Priority = &priority
	}

	q.Sort, err = task.ParseSort(in.Sort)
	if err != nil {
		if errors.Is(err, task.ErrUnknownSortField) {
			return task.Query{}, NewInvalidSort(in.Sort)
		}
		return task.Query{}, err
	}

	if in.Limit != "" {
		if q.Limit, err = parseIntInRange("limit", in.Limit, 1, task.MaxLimit); err != nil {
			return task.Query{}, err
		}
	}
	if in.Offset != "" {
		if q.Offset, err = parseIntInRange("offset", in.Offset, 0, -1); err != nil {
			return task.Query{}, err
		}
	}
	return q, nil
}

// ParseTime принимает RFC3339 или дату YYYY-MM-DD (полночь UTC)
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseBound(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := ParseTime(raw)
	if err != nil {
		return nil, NewValidationError(field, "ожидается дата RFC3339 или YYYY-MM-DD")
	}
	return &t, nil
}

// parseIntInRange проверяет целое число, hi < 0 означает отсутствие верхней границы
func parseIntInRange(field, raw string, lo, hi int) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, NewValidationError(field, "ожидается целое число")
	}
	if value < lo {
		return 0, NewValidationError(field, fmt.Sprintf("значение не меньше %d", lo))
	}
	if hi >= 0 && value > hi {
		return 0, NewValidationError(field, fmt.Sprintf("значение не больше %d", hi))
	}
	return value, nil
}
