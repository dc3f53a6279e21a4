package app

import (
	"errors"
	"fmt"
)

var (
	// ErrTestsFailed is returned by Test when any selected test did not pass.
	ErrTestsFailed = errors.New("one or more tests failed")
	// ErrRunFailed is returned by Run when any selected node did not succeed.
	ErrRunFailed = errors.New("one or more nodes failed")
)

// LoadError reports a failure to load the project, its graph, or its
// selectors.
type LoadError struct {
	What string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.What, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// UsageError reports an invalid combination of request options.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}
