package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for solver construction and headless runs.
var (
	// ErrInvalidState indicates a particle coordinate became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrForeignParticle indicates a handle that does not index the solver's arena.
	ErrForeignParticle = errors.New("dynamo: handle does not reference a particle of this solver")

	// ErrSelfConstraint indicates a link whose two ends are the same particle.
	ErrSelfConstraint = errors.New("dynamo: constraint joins a particle to itself")

	// ErrSizeMismatch indicates a reset or restore with the wrong particle count.
	ErrSizeMismatch = errors.New("dynamo: particle count mismatch")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// TopologyError reports which entry of a topology failed to build.
type TopologyError struct {
	Kind    string // "particle" or "constraint"
	Index   int
	Wrapped error
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Kind, e.Index, e.Wrapped)
}

func (e *TopologyError) Unwrap() error {
	return e.Wrapped
}

// SimError records a failure observed during a headless run.
type SimError struct {
	Frame   uint64
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("frame %d: %s", e.Frame, e.Message)
}

func (e SimError) Unwrap() error {
	return ErrInvalidState
}
