package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced chore or snapshot does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput means the request payload failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict means the operation raced a conflicting state change.
	ErrConflict = errors.New("conflict")
	// ErrStorage wraps failures from the persistence layer.
	ErrStorage = errors.New("storage error")
)

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
