package inmemory

import (
	"context"
	"slices"

	"todoService/internal/models/task"
	repo "todoService/internal/repository"

	"github.com/google/uuid"
)

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.users[taskToCreate.UserID]; !ok {
		return repo.ErrNotFound
	}
	if _, ok := s.tasks[taskToCreate.ID]; ok {
		return repo.ErrConflict
	}
	now := s.now()
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now
	s.tasks[taskToCreate.ID] = taskToCreate.Clone()
	s.taskIDs = append(s.taskIDs, taskToCreate.ID)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	found, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return found.Clone(), nil
}

func (s *Storage) UpdateTask(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.tasks[taskToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}
	// владелец и время создания не меняются
	taskToUpdate.UserID = existing.UserID
	taskToUpdate.CreatedAt = existing.CreatedAt
	taskToUpdate.UpdatedAt = s.now()
	s.tasks[taskToUpdate.ID] = taskToUpdate.Clone()
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.tasks, id)
	s.taskIDs = slices.DeleteFunc(s.taskIDs, func(taskID uuid.UUID) bool { return taskID == id })
	return nil
}

func (s *Storage) ListTasks(ctx context.Context, q task.Query) ([]*task.Task, error) {
	s.mtx.RLock()
	matched := []*task.Task{}
	for _, id := range s.taskIDs {
		if t := s.tasks[id]; q.Match(t) {
			matched = append(matched, t.Clone())
		}
	}
	s.mtx.RUnlock()

	slices.SortFunc(matched, q.Sort.Compare)

	if q.Offset >= len(matched) {
		return []*task.Task{}, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	return matched[q.Offset:end], nil
}
