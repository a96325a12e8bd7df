package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"todoService/internal/models/task"
	"todoService/internal/models/user"
	"todoService/internal/repository"
	"todoService/internal/repository/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, storage *inmemory.Storage, email string) *user.User {
	t.Helper()
	u := &user.User{ID: uuid.New(), Email: email}
	require.NoError(t, storage.CreateUser(context.Background(), u))
	return u
}

func newTask(t *testing.T, storage *inmemory.Storage, owner uuid.UUID, title string) *task.Task {
	t.Helper()
	created := &task.Task{ID: uuid.New(), UserID: owner, Title: title, Status: task.StatusPending}
	require.NoError(t, storage.CreateTask(context.Background(), created))
	return created
}

// TestStorage_HealthCheck тестирует проверку здоровья
func TestStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestStorage_CreateUser тестирует создание пользователя и уникальность email
func TestStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()

	u := newUser(t, storage, "alice@example.com")
	assert.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)

	got, err := storage.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	err = storage.CreateUser(ctx, &user.User{ID: uuid.New(), Email: "alice@example.com"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = storage.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	byEmail, err := storage.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	_, err = storage.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestStorage_CreateTask тестирует создание задачи
func TestStorage_CreateTask(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()
	owner := newUser(t, storage, "bob@example.com")

	created := newTask(t, storage, owner.ID, "Buy milk")
	assert.False(t, created.CreatedAt.IsZero())

	got, err := storage.GetTaskByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)

	// задача без существующего владельца не сохраняется
	orphan := &task.Task{ID: uuid.New(), UserID: uuid.New(), Title: "Orphan", Status: task.StatusPending}
	assert.ErrorIs(t, storage.CreateTask(ctx, orphan), repository.ErrNotFound)
	_, err = storage.GetTaskByID(ctx, orphan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestStorage_ReturnsCopies проверяет, что изменения без Update не попадают в хранилище
func TestStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()
	owner := newUser(t, storage, "copy@example.com")
	created := newTask(t, storage, owner.ID, "Original")

	got, err := storage.GetTaskByID(ctx, created.ID)
	require.NoError(t, err)
	got.Title = "Changed"

	again, err := storage.GetTaskByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Title)
}

// TestStorage_UpdateTask тестирует обновление задачи
func TestStorage_UpdateTask(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()
	owner := newUser(t, storage, "carol@example.com")
	created := newTask(t, storage, owner.ID, "Original")

	got, err := storage.GetTaskByID(ctx, created.ID)
	require.NoError(t, err)
	got.Title = "Updated"
	got.SetStatus(task.StatusDone, time.Now())
	time.Sleep(time.Millisecond)
	require.NoError(t, storage.UpdateTask(ctx, got))

	updated, err := storage.GetTaskByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, task.StatusDone, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	missing := &task.Task{ID: uuid.New(), Title: "Missing"}
	assert.ErrorIs(t, storage.UpdateTask(ctx, missing), repository.ErrNotFound)
}

// TestStorage_DeleteTask тестирует удаление задачи
func TestStorage_DeleteTask(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()
	owner := newUser(t, storage, "dave@example.com")
	created := newTask(t, storage, owner.ID, "Delete me")

	require.NoError(t, storage.DeleteTask(ctx, created.ID))
	_, err := storage.GetTaskByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// повторное удаление - не найдено
	assert.ErrorIs(t, storage.DeleteTask(ctx, created.ID), repository.ErrNotFound)
}

// TestStorage_DeleteUserCascades тестирует каскадное удаление задач
func TestStorage_DeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()
	owner := newUser(t, storage, "erin@example.com")
	other := newUser(t, storage, "other@example.com")

	first := newTask(t, storage, owner.ID, "First")
	second := newTask(t, storage, owner.ID, "Second")
	kept := newTask(t, storage, other.ID, "Kept")

	require.NoError(t, storage.DeleteUser(ctx, owner.ID))

	for _, id := range []uuid.UUID{first.ID, second.ID} {
		_, err := storage.GetTaskByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}
	_, err := storage.GetTaskByID(ctx, kept.ID)
	assert.NoError(t, err)

	// email освобождается
	newUser(t, storage, "erin@example.com")
	assert.ErrorIs(t, storage.DeleteUser(ctx, owner.ID), repository.ErrNotFound)
}

// TestStorage_GetOrCreateUser тестирует поиск или создание пользователя
func TestStorage_GetOrCreateUser(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()

	id := uuid.New()
	created, isNew, err := storage.GetOrCreateUserByID(ctx, id, user.PlaceholderEmail(id))
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, id, created.ID)

	again, isNew, err := storage.GetOrCreateUserByID(ctx, id, "ignored@example.com")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, user.PlaceholderEmail(id), again.Email)

	_, _, err = storage.GetOrCreateUserByID(ctx, uuid.New(), user.PlaceholderEmail(id))
	assert.ErrorIs(t, err, repository.ErrConflict)

	byEmail, isNew, err := storage.GetOrCreateUserByEmail(ctx, "frank@example.com")
	require.NoError(t, err)
	assert.True(t, isNew)
	sameEmail, isNew, err := storage.GetOrCreateUserByEmail(ctx, "frank@example.com")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, byEmail.ID, sameEmail.ID)
}

// TestStorage_GetOrCreateConcurrent проверяет, что при гонке создаётся ровно один пользователь
func TestStorage_GetOrCreateConcurrent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[uuid.UUID]struct{}{}
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, isNew, err := storage.GetOrCreateUserByEmail(ctx, "race@example.com")
			require.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			ids[u.ID] = struct{}{}
			if isNew {
				created++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)
}

// TestStorage_ListTasks тестирует фильтрацию, сортировку и пагинацию
func TestStorage_ListTasks(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()
	owner := newUser(t, storage, "list@example.com")
	other := newUser(t, storage, "list-other@example.com")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var created []*task.Task
	for i := 0; i < 5; i++ {
		priority := i * 2
		due := base.Add(time.Duration(i) * 24 * time.Hour)
		tk := &task.Task{
			ID:       uuid.New(),
			UserID:   owner.ID,
			Title:    fmt.Sprintf("Task %d", i),
			Status:   task.StatusPending,
			Priority: &priority,
			DueAt:    &due,
		}
		require.NoError(t, storage.CreateTask(ctx, tk))
		created = append(created, tk)
		time.Sleep(time.Millisecond)
	}
	newTask(t, storage, owner.ID, "No due")
	newTask(t, storage, other.ID, "Foreign")

	t.Run("owner scope with default sort - newest first", func(t *testing.T) {
		tasks, err := storage.ListTasks(ctx, task.Query{
			Filter: task.Filter{OwnerID: &owner.ID},
			Sort:   task.DefaultSort,
			Limit:  50,
		})
		require.NoError(t, err)
		require.Len(t, tasks, 6)
		assert.Equal(t, "No due", tasks[0].Title)
		for i := 1; i < len(tasks); i++ {
			assert.False(t, tasks[i].CreatedAt.After(tasks[i-1].CreatedAt))
		}
	})

	t.Run("due range excludes null due", func(t *testing.T) {
		after := base.Add(24 * time.Hour)
		before := base.Add(3 * 24 * time.Hour)
		tasks, err := storage.ListTasks(ctx, task.Query{
			Filter: task.Filter{DueAfter: &after, DueBefore: &before},
			Sort:   task.Sort{Field: task.SortDueAt},
			Limit:  50,
		})
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, created[1].ID, tasks[0].ID)
		assert.Equal(t, created[3].ID, tasks[2].ID)
	})

	t.Run("priority exact match", func(t *testing.T) {
		priority := 4
		tasks, err := storage.ListTasks(ctx, task.Query{
			Filter: task.Filter{Priority: &priority},
			Sort:   task.DefaultSort,
			Limit:  50,
		})
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, created[2].ID, tasks[0].ID)
	})

	t.Run("priority desc puts nulls last", func(t *testing.T) {
		tasks, err := storage.ListTasks(ctx, task.Query{
			Filter: task.Filter{OwnerID: &owner.ID},
			Sort:   task.Sort{Field: task.SortPriority, Desc: true},
			Limit:  50,
		})
		require.NoError(t, err)
		require.Len(t, tasks, 6)
		assert.Equal(t, created[4].ID, tasks[0].ID)
		assert.Nil(t, tasks[5].Priority)
	})

	t.Run("pagination", func(t *testing.T) {
		query := task.Query{Filter: task.Filter{OwnerID: &owner.ID}, Sort: task.DefaultSort, Limit: 2}
		page, err := storage.ListTasks(ctx, query)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		query.Offset = 4
		page, err = storage.ListTasks(ctx, query)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		query.Offset = 100
		page, err = storage.ListTasks(ctx, query)
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}
