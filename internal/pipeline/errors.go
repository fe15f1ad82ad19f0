// Package pipeline holds the failure taxonomy shared by the capture
// pipelines. Callers invoking a pipeline operation directly receive a
// StageError so they can tell a device failure from a model failure from
// a failed commit.
package pipeline

import "fmt"

// Stage identifies which part of a pipeline operation failed.
type Stage string

const (
	StageCapture     Stage = "capture"
	StageInference   Stage = "inference"
	StagePersistence Stage = "persistence"
)

// StageError wraps a backend or store error with the stage it came from.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Fail wraps err in a StageError for the given stage.
func Fail(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
