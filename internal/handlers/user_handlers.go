package handlers

import (
	"net/http"

	"todoService/internal/handlers/dto"
	"todoService/internal/logger"
	"todoService/internal/service"

	"go.uber.org/zap"
)

type UserHandler struct {
	UserService UserService
}

func NewUserHandler(userService UserService) UserHandler {
	return UserHandler{
		UserService: userService,
	}
}

func (h *UserHandler) PostUser(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateUserRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := h.UserService.CreateUser(r.Context(), service.CreateUserInput{
		Email: request.Email,
		Name:  request.Name,
	})
	if err != nil {
		handleServiceError(w, r, err, "create_user")
		return
	}

	logger.Info("HTTP_OUT: Пользователь создан",
		zap.String("user_id", created.ID.String()),
		zap.Int("http_status", http.StatusCreated))
	respondJSON(w, http.StatusCreated, dto.FromUser(created))
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	found, err := h.UserService.GetUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_user")
		return
	}
	respondJSON(w, http.StatusOK, dto.FromUser(found))
}

// DeleteUser удаляет пользователя и все его задачи
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
