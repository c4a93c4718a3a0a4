package kvstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get when the key does not exist.
	ErrNotFound = errors.New("kvstore: key not found")
	// ErrStorageUnavailable matches every failure to reach or operate the backing medium.
	ErrStorageUnavailable = errors.New("kvstore: storage unavailable")
	// ErrInvalidValue is returned by Set when the value is not valid JSON.
	ErrInvalidValue = errors.New("kvstore: value is not valid JSON")
)

// StorageError records a failed operation against the backing medium.
type StorageError struct {
	Backend string
	Op      string
	Key     string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s %q: storage unavailable: %v", e.Backend, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s: storage unavailable: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports ErrStorageUnavailable as a match so callers need not know the concrete type.
func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

// Unavailable wraps a driver error for op on key.
func Unavailable(backend, op, key string, err error) error {
	return &StorageError{Backend: backend, Op: op, Key: key, Err: err}
}
