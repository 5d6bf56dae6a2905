package trace

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is reported by a rendering collaborator when a frame
// does not fit the declared slots or variables.
var ErrShapeMismatch = errors.New("frame shape mismatch")

// ErrUnknownColor is reported when a palette tag cannot be resolved.
var ErrUnknownColor = errors.New("unknown color")

// ErrUnsupportedLanguage is reported when a listing language has no renderer.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrInvalidColor is returned by ParseColor for malformed tags.
var ErrInvalidColor = errors.New("invalid color tag")

// InvalidFrameError reports a frame whose shape the collaborator rejected.
type InvalidFrameError struct {
	Stage int
	Err   error
}

func (e *InvalidFrameError) Error() string {
	return fmt.Sprintf("stage %d: invalid frame: %v", e.Stage, e.Err)
}

func (e *InvalidFrameError) Unwrap() error {
	return e.Err
}

// CollaboratorError wraps any other failure of the rendering collaborator.
type CollaboratorError struct {
	Stage int
	Op    string
	Err   error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("stage %d: %s: %v", e.Stage, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func stageError(stage int, op string, err error) error {
	if errors.Is(err, ErrShapeMismatch) {
		return &InvalidFrameError{Stage: stage, Err: err}
	}
	return &CollaboratorError{Stage: stage, Op: op, Err: err}
}
