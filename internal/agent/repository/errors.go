package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update targets a row that does not exist.
var ErrNotFound = errors.New("record not found")

// StorageError wraps a datastore failure. The store never retries; callers
// decide what a failed run means.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// InferenceError marks the inference service as unusable at startup. It is
// fatal: the agent cannot run without a reachable model.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference service: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
