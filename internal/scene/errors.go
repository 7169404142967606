package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleLoad is returned for a completion superseded by a newer load request.
	// Callers drop it silently.
	ErrStaleLoad = errors.New("stale load completion")

	// ErrModelLoadFailed matches every *ModelLoadFailedError
	ErrModelLoadFailed = errors.New("model load failed")

	// ErrResetDisabled is returned by ResetToDefault unless resets are enabled
	ErrResetDisabled = errors.New("reset to default mesh is disabled")
)

// ModelLoadFailedError reports a decode failure for a requested mesh.
// The active mesh and annotations are left untouched.
type ModelLoadFailedError struct {
	Source string
	Err    error
}

func (e *ModelLoadFailedError) Error() string {
	return fmt.Sprintf("failed to load model %s: %v", e.Source, e.Err)
}

func (e *ModelLoadFailedError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrModelLoadFailed
func (e *ModelLoadFailedError) Is(target error) bool {
	return target == ErrModelLoadFailed
}
