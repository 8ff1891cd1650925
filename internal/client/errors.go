package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when a write has nothing to send or the backend
	// answered without the resource it was expected to return.
	ErrNoData = errors.New("no data")

	// ErrClosed is returned by Watch.Next once the watch or its stream is closed.
	ErrClosed = errors.New("watch closed")
)

// PartialWriteError reports a multi-step write that failed after earlier
// steps were already applied. Nothing is rolled back.
type PartialWriteError struct {
	// Step names the step that failed.
	Step string
	// Completed lists the steps that succeeded before it.
	Completed []string
	Err       error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write: step %q failed after %v: %v", e.Step, e.Completed, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// IsPartialWrite reports whether err is or wraps a PartialWriteError.
func IsPartialWrite(err error) bool {
	var pw *PartialWriteError
	return errors.As(err, &pw)
}
