package dto_test

import (
	"encoding/json"
	"testing"

	"todoService/internal/handlers/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTaskRequest_Nullable(t *testing.T) {
	var req dto.UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New","description":null,"priority":4}`), &req))

	assert.True(t, req.Title.Set)
	require.NotNil(t, req.Title.Value)
	assert.Equal(t, "New", *req.Title.Value)

	assert.True(t, req.Description.IsNull())

	assert.True(t, req.Priority.Set)
	require.NotNil(t, req.Priority.Value)
	assert.Equal(t, 4, *req.Priority.Value)

	// отсутствующие поля
	assert.False(t, req.DueAt.Set)
	assert.False(t, req.Status.Set)
	assert.False(t, req.DueAt.IsNull())
}

func TestNullable_TypeMismatch(t *testing.T) {
	var req dto.UpdateTaskRequest
	err := json.Unmarshal([]byte(`{"priority":"high"}`), &req)
	assert.Error(t, err)
}
