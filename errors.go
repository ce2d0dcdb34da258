package mapcanvas

import (
	"errors"
	"fmt"
)

// ErrPriorityOutOfRange is returned by BucketQueue.Push for a priority
// outside the queue's bucket range. Passing one to a Canvas is a programmer error and
// panics.
var ErrPriorityOutOfRange = errors.New("mapcanvas: priority out of range")

// LoadError reports a texture that could not be read or decoded.
type LoadError struct {
	// Path is the resolved path that was attempted.
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("mapcanvas: load texture %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
