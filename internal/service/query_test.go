package service_test

import (
	"testing"
	"time"

	"todoService/internal/models/task"
	"todoService/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildQuery_Valid проверяет разбор корректных параметров
func TestBuildQuery_Valid(t *testing.T) {
	owner := uuid.New()

	q, err := service.BuildQuery(service.ListTasksInput{})
	require.NoError(t, err)
	assert.Equal(t, task.DefaultLimit, q.Limit)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, task.DefaultSort, q.Sort)
	assert.Nil(t, q.OwnerID)
	assert.Nil(t, q.Status)

	q, err = service.BuildQuery(service.ListTasksInput{
		UserID:    owner.String(),
		Status:    "in_progress",
		DueBefore: "2026-05-01",
		DueAfter:  "2026-04-01T08:30:00+02:00",
		Priority:  "10",
		Sort:      "-due_at",
		Limit:     "200",
		Offset:    "1000",
	})
	require.NoError(t, err)
	require.NotNil(t, q.OwnerID)
	assert.Equal(t, owner, *q.OwnerID)
	require.NotNil(t, q.Status)
	assert.Equal(t, task.StatusInProgress, *q.Status)
	require.NotNil(t, q.DueBefore)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), *q.DueBefore)
	require.NotNil(t, q.DueAfter)
	assert.True(t, time.Date(2026, 4, 1, 6, 30, 0, 0, time.UTC).Equal(*q.DueAfter))
	require.NotNil(t, q.Priority)
	assert.Equal(t, 10, *q.Priority)
	assert.Equal(t, task.Sort{Field: task.SortDueAt, Desc: true}, q.Sort)
	assert.Equal(t, 200, q.Limit)
	assert.Equal(t, 1000, q.Offset)
}

// TestBuildQuery_Errors проверяет, что неверный параметр отклоняет весь запрос
func TestBuildQuery_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input service.ListTasksInput
		code  string
		field string
	}{
		{name: "unknown sort", input: service.ListTasksInput{Sort: "bogus_field"}, code: service.CodeInvalidSort},
		{name: "limit zero", input: service.ListTasksInput{Limit: "0"}, code: service.CodeValidation, field: "limit"},
		{name: "limit above cap", input: service.ListTasksInput{Limit: "201"}, code: service.CodeValidation, field: "limit"},
		{name: "limit not a number", input: service.ListTasksInput{Limit: "ten"}, code: service.CodeValidation, field: "limit"},
		{name: "negative offset", input: service.ListTasksInput{Offset: "-1"}, code: service.CodeValidation, field: "offset"},
		{name: "priority below range", input: service.ListTasksInput{Priority: "-1"}, code: service.CodeValidation, field: "priority"},
		{name: "priority above range", input: service.ListTasksInput{Priority: "11"}, code: service.CodeValidation, field: "priority"},
		{name: "unknown status", input: service.ListTasksInput{Status: "ARCHIVED"}, code: service.CodeValidation, field: "status"},
		{name: "bad due_before", input: service.ListTasksInput{DueBefore: "tomorrow"}, code: service.CodeValidation, field: "due_before"},
		{name: "bad due_after", input: service.ListTasksInput{DueAfter: "2026-13-01"}, code: service.CodeValidation, field: "due_after"},
		{name: "bad user_id", input: service.ListTasksInput{UserID: "123"}, code: service.CodeValidation, field: "user_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.BuildQuery(tt.input)
			busErr, ok := service.AsBusinessError(err)
			require.True(t, ok, "Expected BusinessError, got %v", err)
			assert.Equal(t, tt.code, busErr.Code)
			if tt.field != "" {
				assert.Equal(t, tt.field, busErr.Details["field"])
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	got, err := service.ParseTime("2026-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), got)

	got, err = service.ParseTime("2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), got)

	_, err = service.ParseTime("02.01.2026")
	assert.Error(t, err)
}
