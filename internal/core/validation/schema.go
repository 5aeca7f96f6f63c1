package validation

import (
	"encoding/json"
	"fmt"
	"sort"

	"inventa/internal/core/apperror"
)

// Rules is the declarative rule set for one field.
// Zero values mean "not checked"; pointer bounds distinguish "no bound"
// from a bound of zero.
type Rules struct {
	Required  bool
	MinLength int // 0 = unchecked
	MaxLength int // 0 = unchecked
	Min       *float64
	Max       *float64
	Enum      []string
	Email     bool
}

// Schema is a field -> rules map for declarative request validation.
type Schema map[string]Rules

// ValidateSchema runs every rule for every field and accumulates ALL
// violations into a single error, so a caller can show the user every invalid
// field in one round trip. The returned AppError carries a
// Details["fields"] map of field -> violation messages.
func ValidateSchema(data map[string]any, schema Schema) error {
	fieldErrors := make(map[string][]string)

	fields := make([]string, 0, len(schema))
	for f := range schema {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		rules := schema[field]
		value, present := data[field]

		if rules.Required && isEmpty(value) {
			fieldErrors[field] = append(fieldErrors[field], "is required")
			continue
		}
		if !present || value == nil {
			continue
		}

		if s, ok := value.(string); ok {
			if rules.MinLength > 0 && len(s) < rules.MinLength {
				fieldErrors[field] = append(fieldErrors[field],
					fmt.Sprintf("must be at least %d characters", rules.MinLength))
			}
			if rules.MaxLength > 0 && len(s) > rules.MaxLength {
				fieldErrors[field] = append(fieldErrors[field],
					fmt.Sprintf("must be at most %d characters", rules.MaxLength))
			}
			if len(rules.Enum) > 0 && !contains(rules.Enum, s) {
				fieldErrors[field] = append(fieldErrors[field],
					fmt.Sprintf("must be one of: %v", rules.Enum))
			}
			if rules.Email && !emailPattern.MatchString(s) {
				fieldErrors[field] = append(fieldErrors[field], "must be a valid email address")
			}
		}

		if num, ok := toFloat(value); ok {
			if rules.Min != nil && num < *rules.Min {
				fieldErrors[field] = append(fieldErrors[field],
					fmt.Sprintf("must be >= %v", *rules.Min))
			}
			if rules.Max != nil && num > *rules.Max {
				fieldErrors[field] = append(fieldErrors[field],
					fmt.Sprintf("must be <= %v", *rules.Max))
			}
		}
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidation("validation failed").
			WithDetail("fields", fieldErrors)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
