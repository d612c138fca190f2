package dto

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func validateRequired(field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return []ValidationError{{Field: field, Message: "cannot be empty"}}
	}
	return nil
}

func validateRange(field string, value, min, max int) []ValidationError {
	if value < min || value > max {
		return []ValidationError{{Field: field, Message: fmt.Sprintf("must be between %d and %d", min, max)}}
	}
	return nil
}

func validateNonNegative(field string, value int64) []ValidationError {
	if value < 0 {
		return []ValidationError{{Field: field, Message: "must not be negative"}}
	}
	return nil
}
