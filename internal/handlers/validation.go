package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts validator errors to user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var fields []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			fields = append(fields, ValidationError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return fields
}

// validationMessage flattens the per-field messages into the single
// message slot of the error envelope.
func validationMessage(err error) string {
	fields := ParseValidationErrors(err)
	if len(fields) == 0 {
		return "Invalid request body"
	}
	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, field.Message)
	}
	return strings.Join(messages, "; ")
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must not exceed " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "url":
		return "Invalid URL format"
	case "startswith":
		return fe.Field() + " must start with " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
