package dynamo

import (
	"fmt"
	"math"
)

// Handle addresses a particle in a solver's arena. Handles are assigned in
// insertion order and stay valid for the solver's lifetime.
type Handle int

// Point is a read-only position handed to renderers.
type Point struct {
	X, Y float64
}

// Segment is the pair of endpoint positions of one constraint.
type Segment struct {
	A, B Point
}

// Params holds the world and solver settings fixed at construction.
type Params struct {
	Width       float64 // right wall; the left wall is at x=0
	Height      float64 // floor
	Gravity     float64 // added to vertical velocity every step
	Damping     float64 // fraction of inferred velocity kept each step, (0,1]
	Restitution float64 // fraction of velocity kept after a bounce, [0,1]
	Iterations  int     // relaxation passes per step
}

func DefaultParams() Params {
	return Params{
		Width:       800,
		Height:      600,
		Gravity:     0.5,
		Damping:     0.999,
		Restitution: 0.7,
		Iterations:  5,
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.Width > 0) || math.IsInf(p.Width, 0):
		return fmt.Errorf("%w: width must be positive, got %g", ErrParameterBounds, p.Width)
	case !(p.Height > 0) || math.IsInf(p.Height, 0):
		return fmt.Errorf("%w: height must be positive, got %g", ErrParameterBounds, p.Height)
	case math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0):
		return fmt.Errorf("%w: gravity must be finite, got %g", ErrParameterBounds, p.Gravity)
	case !(p.Damping > 0 && p.Damping <= 1):
		return fmt.Errorf("%w: damping must be in (0, 1], got %g", ErrParameterBounds, p.Damping)
	case !(p.Restitution >= 0 && p.Restitution <= 1):
		return fmt.Errorf("%w: restitution must be in [0, 1], got %g", ErrParameterBounds, p.Restitution)
	case p.Iterations < 1:
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrParameterBounds, p.Iterations)
	}
	return nil
}

// ParticleSpec describes one particle of a Topology.
type ParticleSpec struct {
	X, Y   float64
	Pinned bool
}

// ConstraintSpec describes one link of a Topology. A zero Length means the rest
// length is taken from the initial particle positions.
type ConstraintSpec struct {
	A, B   int
	Length float64
}

// Topology is a value description of a body.
type Topology struct {
	Particles   []ParticleSpec
	Constraints []ConstraintSpec
}

type Metric interface {
	Name() string
	Observe(s *Solver)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *Solver)
}

type RunConfig struct {
	Frames        int
	Every         int     // record every n-th frame; 0 or 1 records all
	Dt            float64 // seconds per frame, used only for Result.Times
	ValidateState bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Frames:        600,
		Every:         1,
		Dt:            1.0 / 60,
		ValidateState: true,
	}
}

type Result struct {
	Frames     [][]Point
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}
