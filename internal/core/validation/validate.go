// Package validation provides stateless input checks used by domain services
// before persistence. Every function returns nil when the input is valid and
// an *apperror.AppError (CodeValidation, HTTP 400) otherwise; no function has
// side effects.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"inventa/internal/core/apperror"
)

// MinPasswordLength is the minimum accepted password/token secret length.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Required checks that every named field is present and non-empty in data.
// All missing fields are reported at once, not just the first.
func Required(data map[string]any, fields ...string) error {
	var missing []string
	for _, f := range fields {
		if isEmpty(data[f]) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return apperror.NewValidation("missing required fields: " + strings.Join(missing, ", ")).
			WithDetail("fields", missing)
	}
	return nil
}

// Length checks string length bounds. Pass min or max as -1 to skip a bound.
func Length(field, value string, min, max int) error {
	n := len(value)
	if min >= 0 && n < min {
		return apperror.NewValidation(fmt.Sprintf("%s must be at least %d characters", field, min)).
			WithDetail("field", field)
	}
	if max >= 0 && n > max {
		return apperror.NewValidation(fmt.Sprintf("%s must be at most %d characters", field, max)).
			WithDetail("field", field)
	}
	return nil
}

// Range checks numeric bounds. Pass nil to skip a bound.
func Range(field string, value float64, min, max *float64) error {
	if min != nil && value < *min {
		return apperror.NewValidation(fmt.Sprintf("%s must be >= %v", field, *min)).
			WithDetail("field", field).
			WithDetail("value", value)
	}
	if max != nil && value > *max {
		return apperror.NewValidation(fmt.Sprintf("%s must be <= %v", field, *max)).
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return nil
}

// Enum checks that value is one of the allowed literals.
func Enum(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return apperror.NewValidation(fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))).
		WithDetail("field", field).
		WithDetail("value", value)
}

// Array checks slice length bounds. Pass min or max as -1 to skip a bound.
func Array[T any](field string, value []T, minLen, maxLen int) error {
	n := len(value)
	if minLen >= 0 && n < minLen {
		return apperror.NewValidation(fmt.Sprintf("%s must contain at least %d items", field, minLen)).
			WithDetail("field", field)
	}
	if maxLen >= 0 && n > maxLen {
		return apperror.NewValidation(fmt.Sprintf("%s must contain at most %d items", field, maxLen)).
			WithDetail("field", field)
	}
	return nil
}

// Email checks basic email shape.
func Email(value string) error {
	if !emailPattern.MatchString(value) {
		return apperror.NewValidation("invalid email address").
			WithDetail("value", value)
	}
	return nil
}

// Password checks the minimum secret length.
func Password(value string) error {
	if len(value) < MinPasswordLength {
		return apperror.NewValidation(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
