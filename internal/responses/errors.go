package responses

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/imrishuroy/valentine-rsvp/internal/kvstore"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrCorruptRecord is returned when a stored value cannot be decoded as a Record.
	ErrCorruptRecord = errors.New("corrupt response record")
	// ErrNotFound is returned by Get when no response is stored under the key.
	ErrNotFound = kvstore.ErrNotFound
)

// ValidationError lists the input fields that failed validation, keyed by json name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name, rule := range e.Fields {
		names = append(names, fmt.Sprintf("%s (%s)", name, rule))
	}
	sort.Strings(names)
	return "invalid response: " + strings.Join(names, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
