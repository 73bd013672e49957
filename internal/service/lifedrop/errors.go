package lifedrop

import (
	"errors"
	"strings"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrUnknownAction = errors.New("unknown action")
)

// ValidationError carries the message shown next to the form plus the
// offending fields. Nothing is mutated when one is returned.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

type field struct {
	name  string
	value string
}

// requireFields returns the names of blank fields, in order.
func requireFields(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
