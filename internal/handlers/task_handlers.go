package handlers

import (
	"net/http"
	"time"

	"todoService/internal/handlers/dto"
	"todoService/internal/logger"
	"todoService/internal/models/task"
	"todoService/internal/service"

	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithJSON(w, http.StatusServiceUnavailable, toPayload("status", "unavailable"))
		return
	}
	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), ActorFromContext(r.Context()), service.CreateTaskInput{
		UserID:      request.UserID,
		Title:       request.Title,
		Description: request.Description,
		Priority:    request.Priority,
		DueAt:       request.DueAt,
	})
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	respondJSON(w, http.StatusCreated, dto.FromTask(created))
}

func (s *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query := r.URL.Query()
	tasks, err := s.TaskService.ListTasks(r.Context(), ActorFromContext(r.Context()), service.ListTasksInput{
		UserID:    query.Get("user_id"),
		Status:    query.Get("status"),
		DueBefore: query.Get("due_before"),
		DueAfter:  query.Get("due_after"),
		Priority:  query.Get("priority"),
		Sort:      query.Get("sort"),
		Limit:     query.Get("limit"),
		Offset:    query.Get("offset"),
	})
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	respondJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	found, err := s.TaskService.GetTask(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}
	respondJSON(w, http.StatusOK, dto.FromTask(found))
}

func (s *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	input, err := updateInput(request)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), ActorFromContext(r.Context()), id, input)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	respondJSON(w, http.StatusOK, dto.FromTask(updated))
}

// updateInput переводит запрос в опции. title и status нельзя обнулить
func updateInput(request dto.UpdateTaskRequest) (service.UpdateTaskInput, error) {
	var input service.UpdateTaskInput

	if request.Title.Set {
		if request.Title.Value == nil {
			return input, service.NewValidationError("title", "не может быть null")
		}
		input.Options = append(input.Options, task.WithTitle(*request.Title.Value))
	}
	if request.Description.Set {
		input.Options = append(input.Options, task.WithDescription(request.Description.Value))
	}
	if request.Priority.Set {
		input.Options = append(input.Options, task.WithPriority(request.Priority.Value))
	}
	if request.DueAt.Set {
		input.Options = append(input.Options, task.WithDueAt(request.DueAt.Value))
	}
	if request.Status.Set {
		if request.Status.Value == nil {
			return input, service.NewValidationError("status", "не может быть null")
		}
		input.Status = request.Status.Value
	}
	return input, nil
}

func (s *TaskHandler) PatchTaskStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateStatusRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	updated, err := s.TaskService.UpdateStatus(r.Context(), ActorFromContext(r.Context()), id, request.Status)
	if err != nil {
		handleServiceError(w, r, err, "update_status")
		return
	}

	logger.Info("HTTP_OUT: Статус задачи обновлён",
		zap.String("task_id", id.String()),
		zap.String("status", string(updated.Status)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	respondJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (s *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), ActorFromContext(r.Context()), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id.String()),
		zap.Int("http_status", http.StatusNoContent))
	w.WriteHeader(http.StatusNoContent)
}
