package service

import (
	"errors"
	"fmt"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidSort  = "INVALID_SORT"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
)

type Resource string

const (
	ResourceTask Resource = "задача"
	ResourceUser Resource = "пользователь"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

// AsBusinessError достаёт BusinessError из цепочки ошибок
func AsBusinessError(err error) (*BusinessError, bool) {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr, true
	}
	return nil, false
}

func HasCode(err error, code string) bool {
	busErr, ok := AsBusinessError(err)
	return ok && busErr.Code == code
}

func NewNotFound(resource Resource, id string) *BusinessError {
	return NewBusinessError(CodeNotFound,
		fmt.Sprintf("%s %s не найден(а)", resource, id),
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation,
		fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

func NewInvalidSort(raw string) *BusinessError {
	return NewBusinessError(CodeInvalidSort,
		fmt.Sprintf("Недопустимое поле сортировки '%s'", raw),
		ToDetail("sort", raw),
	)
}

func NewUnauthorized(message string) *BusinessError {
	return NewBusinessError(CodeUnauthorized, message)
}

func NewConflict(resource Resource, message string, details ...Detail) *BusinessError {
	busErr := NewBusinessError(CodeConflict, message, details...)
	busErr.Details["resource"] = resource
	return busErr
}
