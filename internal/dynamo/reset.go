package dynamo

import (
	"fmt"
	"math"
)

// Snapshot is a full copy of a solver's particle state.
type Snapshot struct {
	Frame     uint64
	Particles []Particle
}

// Reset places particle h at (x, y) with zero velocity. Resets bypass pinning,
// integration and relaxation entirely.
func (s *Solver) Reset(h Handle, x, y float64) error {
	if !s.owns(h) {
		return fmt.Errorf("reset %d: %w", h, ErrForeignParticle)
	}
	p := &s.particles[h]
	p.X, p.Y = x, y
	p.OldX, p.OldY = x, y
	return nil
}

// ResetAll places every particle at the matching point with zero velocity.
func (s *Solver) ResetAll(points []Point) error {
	if len(points) != len(s.particles) {
		return fmt.Errorf("%w: got %d points for %d particles", ErrSizeMismatch, len(points), len(s.particles))
	}
	for i, pt := range points {
		p := &s.particles[i]
		p.X, p.Y = pt.X, pt.Y
		p.OldX, p.OldY = pt.X, pt.Y
	}
	return nil
}

// ResetToRest returns every particle to its spawn position with zero velocity.
func (s *Solver) ResetToRest() {
	// lengths always match: rest grows with AddParticle
	_ = s.ResetAll(s.rest)
}

// RestPositions returns the spawn position of every particle.
func (s *Solver) RestPositions() []Point {
	out := make([]Point, len(s.rest))
	copy(out, s.rest)
	return out
}

func (s *Solver) Snapshot() Snapshot {
	return Snapshot{Frame: s.frame, Particles: s.Particles()}
}

// Restore replaces the particle state with a snapshot taken from this solver.
func (s *Solver) Restore(snap Snapshot) error {
	if len(snap.Particles) != len(s.particles) {
		return fmt.Errorf("%w: snapshot has %d particles, solver has %d", ErrSizeMismatch, len(snap.Particles), len(s.particles))
	}
	copy(s.particles, snap.Particles)
	s.frame = snap.Frame
	return nil
}

// MoveTo drags particle h to (x, y) without touching its previous position, so
// the next step infers a velocity from the drag.
func (s *Solver) MoveTo(h Handle, x, y float64) error {
	if !s.owns(h) {
		return fmt.Errorf("move %d: %w", h, ErrForeignParticle)
	}
	s.particles[h].X, s.particles[h].Y = x, y
	return nil
}

// Nearest returns the particle closest to (x, y) that lies strictly within radius.
func (s *Solver) Nearest(x, y, radius float64) (Handle, bool) {
	best := Handle(-1)
	bestDist := radius
	for i := range s.particles {
		dx := x - s.particles[i].X
		dy := y - s.particles[i].Y
		d := math.Sqrt(dx*dx + dy*dy)
		if d < bestDist {
			bestDist = d
			best = Handle(i)
		}
	}
	return best, best >= 0
}
