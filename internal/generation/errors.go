package generation

import (
	"errors"
	"fmt"
)

var (
	ErrSubjectRequired  = errors.New("generation: subject is required")
	ErrCountOutOfRange  = errors.New("generation: count out of range")
	ErrProviderRequired = errors.New("generation: structured content provider not configured")
)

// Stage names the step an iteration failed in.
type Stage string

const (
	StageGenerate Stage = "generate"
	StageCreate   Stage = "create"
	StageImage    Stage = "image"
)

// IterationError records why one iteration of a batch did not produce an
// item, or why its image could not be attached.
type IterationError struct {
	Index int   `json:"index"`
	Stage Stage `json:"stage"`
	Err   error `json:"-"`
}

func (e IterationError) Error() string {
	return fmt.Sprintf("iteration %d %s: %v", e.Index, e.Stage, e.Err)
}

func (e IterationError) Unwrap() error { return e.Err }
