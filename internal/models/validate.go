package models

import "fmt"

// Violation describes a single validation failure on an entity field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

func required(violations []Violation, field, value string) []Violation {
	if value == "" {
		return append(violations, Violation{Field: field, Message: "is required"})
	}
	return violations
}

func oneOf(violations []Violation, field, value string, allowed ...string) []Violation {
	if value == "" {
		return violations
	}
	for _, a := range allowed {
		if value == a {
			return violations
		}
	}
	return append(violations, Violation{Field: field, Message: fmt.Sprintf("must be one of %v", allowed)})
}

func nonNegative(violations []Violation, field string, value float64) []Violation {
	if value < 0 {
		return append(violations, Violation{Field: field, Message: "must not be negative"})
	}
	return violations
}
