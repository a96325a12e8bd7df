package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoService/internal/logger"
	"todoService/internal/models/user"
	repo "todoService/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const userColumns = `id, email, name, created_at, updated_at`

func scanUser(row pgx.CollectableRow) (*user.User, error) {
	return pgx.RowToAddrOfStructByName[user.User](row)
}

func (s *Storage) CreateUser(ctx context.Context, userToCreate *user.User) error {
	start := time.Now()
	defer warnIfSlow("create_user", start)

	query := `INSERT INTO users (id, email, name)
				VALUES ($1, $2, $3)
				RETURNING created_at, updated_at`
	err := s.pool.QueryRow(ctx, query, userToCreate.ID, userToCreate.Email, userToCreate.Name).
		Scan(&userToCreate.CreatedAt, &userToCreate.UpdatedAt)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repo.ErrConflict) {
			return err
		}
		logger.Error("Repository: Не удалось добавить пользователя", err)
		return fmt.Errorf("добавление пользователя: %w", err)
	}
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	start := time.Now()
	defer warnIfSlow("get_user", start)

	rows, _ := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	found, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return found, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	start := time.Now()
	defer warnIfSlow("get_user_by_email", start)

	rows, _ := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	found, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		logger.Error("Repository: Не удалось получить пользователя по email", err)
		return nil, fmt.Errorf("получение пользователя по email: %w", err)
	}
	return found, nil
}

// DeleteUser удаляет пользователя, задачи удаляются каскадом через внешний ключ
func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	defer warnIfSlow("delete_user", start)

	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить пользователя", err)
		return fmt.Errorf("удаление пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// GetOrCreateUserByID атомарно находит пользователя по id или создаёт его.
// Если email уже занят другим пользователем, возвращается ErrConflict
func (s *Storage) GetOrCreateUserByID(ctx context.Context, id uuid.UUID, email string) (*user.User, bool, error) {
	start := time.Now()
	defer warnIfSlow("get_or_create_user_by_id", start)

	insert := `INSERT INTO users (id, email) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
				RETURNING ` + userColumns
	selectByID := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.getOrCreate(ctx, id, email, insert, selectByID, id)
}

// GetOrCreateUserByEmail атомарно находит пользователя по email или создаёт его без имени
func (s *Storage) GetOrCreateUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	start := time.Now()
	defer warnIfSlow("get_or_create_user_by_email", start)

	insert := `INSERT INTO users (id, email) VALUES ($1, $2)
				ON CONFLICT (email) DO NOTHING
				RETURNING ` + userColumns
	selectByEmail := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.getOrCreate(ctx, uuid.New(), email, insert, selectByEmail, email)
}

func (s *Storage) getOrCreate(ctx context.Context, id uuid.UUID, email, insert, lookup string, key any) (*user.User, bool, error) {
	var (
		result  *user.User
		created bool
	)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		rows, _ := tx.Query(ctx, insert, id, email)
		inserted, err := pgx.CollectRows(rows, scanUser)
		if err != nil {
			return err
		}
		if len(inserted) == 1 {
			result, created = inserted[0], true
			return nil
		}
		rows, _ = tx.Query(ctx, lookup, key)
		result, err = pgx.CollectExactlyOneRow(rows, scanUser)
		if errors.Is(err, pgx.ErrNoRows) {
			// конфликт был не по ключу поиска, а по email другого пользователя
			return repo.ErrConflict
		}
		return err
	})
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repo.ErrConflict) {
			return nil, false, err
		}
		logger.Error("Repository: Не удалось найти или создать пользователя", err, zap.String("email", email))
		return nil, false, fmt.Errorf("поиск или создание пользователя: %w", err)
	}
	return result, created, nil
}
