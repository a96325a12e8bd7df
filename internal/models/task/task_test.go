package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected Status
		wantErr  bool
	}{
		{raw: "PENDING", expected: StatusPending},
		{raw: "done", expected: StatusDone},
		{raw: " in_progress ", expected: StatusInProgress},
		{raw: "Cancelled", expected: StatusCancelled},
		{raw: "archived", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			status, err := ParseStatus(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

// TestTask_SetStatus проверяет связь статуса и completed_at
func TestTask_SetStatus(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tk := &Task{Status: StatusPending}

	tk.SetStatus(StatusDone, now)
	assert.Equal(t, StatusDone, tk.Status)
	require.NotNil(t, tk.CompletedAt)
	assert.Equal(t, now, *tk.CompletedAt)

	tk.SetStatus(StatusInProgress, now.Add(time.Hour))
	assert.Equal(t, StatusInProgress, tk.Status)
	assert.Nil(t, tk.CompletedAt)

	tk.SetStatus(StatusCancelled, now.Add(2*time.Hour))
	require.NotNil(t, tk.CompletedAt)
	assert.Equal(t, now.Add(2*time.Hour), *tk.CompletedAt)
}

func TestTask_Clone(t *testing.T) {
	description := "milk"
	priority := 3
	original := &Task{ID: uuid.New(), Title: "Buy", Description: &description, Priority: &priority}

	clone := original.Clone()
	*clone.Description = "bread"
	*clone.Priority = 9

	assert.Equal(t, "milk", *original.Description)
	assert.Equal(t, 3, *original.Priority)
}

func TestTaskOptions(t *testing.T) {
	description := "details"
	priority := 5
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	tk := &Task{Title: "old"}

	for _, opt := range []TaskOption{
		WithTitle("new"),
		WithDescription(&description),
		WithPriority(&priority),
		WithDueAt(&due),
	} {
		opt(tk)
	}
	assert.Equal(t, "new", tk.Title)
	assert.Equal(t, &description, tk.Description)
	assert.Equal(t, &priority, tk.Priority)
	assert.Equal(t, &due, tk.DueAt)

	// nil очищает поле
	WithPriority(nil)(tk)
	assert.Nil(t, tk.Priority)
}
