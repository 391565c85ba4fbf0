package caliper3d

import (
	"errors"
	"fmt"
)

var (
	// ErrInputShape: grids missing, unreadable, ragged or of mismatched shape.
	ErrInputShape = errors.New("input shape error")
	// ErrDegenerateGrid: fewer than 2 sensors (no distinct angles).
	ErrDegenerateGrid = errors.New("degenerate grid")
	ErrRender         = errors.New("render failure")
	ErrAssembly       = errors.New("assembly failure")
	ErrInvalidConfig  = errors.New("invalid config")
)

// RenderError reports which frame of a rotation sequence failed.
type RenderError struct {
	Index   int
	Azimuth float64
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("frame %d (azimuth %.2f): %v", e.Index, e.Azimuth, e.Err)
}

func (e *RenderError) Unwrap() []error { return []error{ErrRender, e.Err} }

// StageError names the pipeline stage a run aborted in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
