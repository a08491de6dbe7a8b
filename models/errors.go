package models

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateName is returned on a uniqueness violation within the
	// entity's scope (global for dictionaries, per-parent for the hierarchy).
	ErrDuplicateName = errors.New("name already exists")
	// ErrInUse is returned when a delete is blocked by existing references.
	ErrInUse = errors.New("record is referenced by existing rows")
)

// FieldError is a single validation violation scoped to one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every violation found for a candidate record.
// The whole collection is reported at once; a write never applies partially.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// Fields groups messages by field name for the API error body.
func (v ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(v))
	for _, fe := range v {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}
