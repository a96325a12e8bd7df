package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator называет поля по json-тегам, чтобы в ответе были имена из API
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError превращает первую ошибку валидатора в VALIDATION_ERROR
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("валидация: %w", err)
	}
	fe := fieldErrs[0]
	return NewValidationError(fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("длина не меньше %s", fe.Param())
		}
		return fmt.Sprintf("значение не меньше %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("длина не больше %s", fe.Param())
		}
		return fmt.Sprintf("значение не больше %s", fe.Param())
	}
	return fmt.Sprintf("не прошло проверку %s", fe.Tag())
}
