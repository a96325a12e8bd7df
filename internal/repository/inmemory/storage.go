package inmemory

import (
	"context"
	"slices"
	"sync"
	"time"

	"todoService/internal/logger"
	"todoService/internal/models/task"
	"todoService/internal/models/user"
	repo "todoService/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storage хранит пользователей и задачи в памяти. Наружу всегда отдаются копии,
// чтобы изменения в сервисе не попадали в хранилище без Update
type Storage struct {
	mtx     *sync.RWMutex
	users   map[uuid.UUID]*user.User
	emails  map[string]uuid.UUID
	tasks   map[uuid.UUID]*task.Task
	taskIDs []uuid.UUID
	now     func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		mtx:     &sync.RWMutex{},
		users:   make(map[uuid.UUID]*user.User),
		emails:  make(map[string]uuid.UUID),
		tasks:   make(map[uuid.UUID]*task.Task),
		taskIDs: []uuid.UUID{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *Storage) Close() {
	logger.Info("Repository: Хранилище в памяти закрыто")
}

func (s *Storage) CreateUser(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.insertUser(userToCreate)
}

// insertUser вызывается под блокировкой на запись
func (s *Storage) insertUser(userToCreate *user.User) error {
	if _, ok := s.users[userToCreate.ID]; ok {
		return repo.ErrConflict
	}
	if _, ok := s.emails[userToCreate.Email]; ok {
		return repo.ErrConflict
	}
	now := s.now()
	userToCreate.CreatedAt = now
	userToCreate.UpdatedAt = now
	s.users[userToCreate.ID] = userToCreate.Clone()
	s.emails[userToCreate.Email] = userToCreate.ID
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	found, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return found.Clone(), nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return s.users[id].Clone(), nil
}

// DeleteUser удаляет пользователя вместе со всеми его задачами
func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	found, ok := s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	delete(s.users, id)
	delete(s.emails, found.Email)

	removed := 0
	s.taskIDs = slices.DeleteFunc(s.taskIDs, func(taskID uuid.UUID) bool {
		if s.tasks[taskID].UserID != id {
			return false
		}
		delete(s.tasks, taskID)
		removed++
		return true
	})
	logger.Info("Repository: Пользователь удалён", zap.String("user_id", id.String()), zap.Int("tasks_removed", removed))
	return nil
}

func (s *Storage) GetOrCreateUserByID(ctx context.Context, id uuid.UUID, email string) (*user.User, bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if found, ok := s.users[id]; ok {
		return found.Clone(), false, nil
	}
	created := &user.User{ID: id, Email: email}
	if err := s.insertUser(created); err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *Storage) GetOrCreateUserByEmail(ctx context.Context, email string) (*user.User, bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if id, ok := s.emails[email]; ok {
		return s.users[id].Clone(), false, nil
	}
	created := &user.User{ID: uuid.New(), Email: email}
	if err := s.insertUser(created); err != nil {
		return nil, false, err
	}
	return created, true, nil
}
