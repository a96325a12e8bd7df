package handlers

import (
	"net/http"

	"todoService/internal/logger"
	"todoService/internal/service"

	"go.uber.org/zap"
)

const (
	errorBadRequest      = "BAD_REQUEST"
	errorUnsupportedType = "UNSUPPORTED_MEDIA_TYPE"
	errorInternal        = "INTERNAL"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	businessErr, ok := service.AsBusinessError(err)
	if !ok {
		return false
	}
	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

// handleServiceError отвечает бизнес-ошибкой или 500 без подробностей
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}
	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))
	responseWithJSON(w, http.StatusInternalServerError, toPayload("error", errorInternal))
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusUnprocessableEntity
	case service.CodeInvalidSort:
		return http.StatusBadRequest
	case service.CodeUnauthorized:
		return http.StatusUnauthorized
	case service.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
