package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoService/internal/logger"
	"todoService/internal/models/task"
	repo "todoService/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const taskColumns = `id, user_id, title, description, status, priority, due_at, completed_at, created_at, updated_at`

func scanTask(row pgx.CollectableRow) (*task.Task, error) {
	return pgx.RowToAddrOfStructByName[task.Task](row)
}

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer warnIfSlow("create_task", start)

	query := `INSERT INTO tasks
				(id, user_id, title, description, status, priority, due_at, completed_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, query,
		taskToCreate.ID,
		taskToCreate.UserID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Status,
		taskToCreate.Priority,
		taskToCreate.DueAt,
		taskToCreate.CompletedAt,
	).Scan(&taskToCreate.CreatedAt, &taskToCreate.UpdatedAt)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repo.ErrNotFound) {
			logger.Warn("Repository: Владелец задачи не найден", zap.String("user_id", taskToCreate.UserID.String()))
			return err
		}
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("get_task", start)

	rows, _ := s.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	found, err := pgx.CollectExactlyOneRow(rows, scanTask)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return found, nil
}

func (s *Storage) UpdateTask(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()
	defer warnIfSlow("update_task", start)

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				status = $3,
				priority = $4,
				due_at = $5,
				completed_at = $6,
				updated_at = NOW()
			WHERE id = $7
			RETURNING updated_at`
	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Status,
		taskToUpdate.Priority,
		taskToUpdate.DueAt,
		taskToUpdate.CompletedAt,
		taskToUpdate.ID,
	).Scan(&taskToUpdate.UpdatedAt)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repo.ErrNotFound) {
			return err
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer warnIfSlow("delete_task", start)

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) ListTasks(ctx context.Context, q task.Query) ([]*task.Task, error) {
	start := time.Now()
	query, args := buildListQuery(q)

	rows, _ := s.pool.Query(ctx, query, args...)
	tasks, err := pgx.CollectRows(rows, scanTask)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	if time.Since(start) > time.Millisecond*50+time.Millisecond*time.Duration(q.Limit) {
		logger.Warn("Repository: Медленный запрос",
			zap.Duration("ms", time.Since(start)),
			zap.String("sort", q.Sort.String()),
			zap.Int("limit", q.Limit))
	}
	return tasks, nil
}

func sortColumn(field task.SortField) string {
	switch field {
	case task.SortUpdatedAt:
		return "updated_at"
	case task.SortDueAt:
		return "due_at"
	case task.SortPriority:
		return "priority"
	case task.SortStatus:
		return "status"
	case task.SortTitle:
		return "title"
	default:
		return "created_at"
	}
}

// buildListQuery собирает SELECT с фильтрами. Значения передаются только через плейсхолдеры,
// в текст запроса попадают лишь имена колонок из фиксированного списка
func buildListQuery(q task.Query) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if q.OwnerID != nil {
		add("user_id = $%d", *q.OwnerID)
	}
	if q.Status != nil {
		add("status = $%d", string(*q.Status))
	}
	if q.DueBefore != nil || q.DueAfter != nil {
		where = append(where, "due_at IS NOT NULL")
	}
	if q.DueBefore != nil {
		add("due_at <= $%d", *q.DueBefore)
	}
	if q.DueAfter != nil {
		add("due_at >= $%d", *q.DueAfter)
	}
	if q.Priority != nil {
		add("priority = $%d", *q.Priority)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks`)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	direction := "ASC"
	if q.Sort.Desc {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s NULLS LAST, id ASC", sortColumn(q.Sort.Field), direction)

	args = append(args, q.Limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	args = append(args, q.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	return sb.String(), args
}
