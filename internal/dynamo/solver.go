package dynamo

import (
	"fmt"
	"math"
)

// Solver owns a fixed set of particles and the links between them.
type Solver struct {
	params      Params
	particles   []Particle
	constraints []Constraint
	rest        []Point // spawn position of every particle, used by ResetToRest
	frame       uint64
}

func New(params Params) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Solver{
		params:      params,
		particles:   make([]Particle, 0),
		constraints: make([]Constraint, 0),
		rest:        make([]Point, 0),
	}, nil
}

// NewFromTopology builds a solver from a body description. Any malformed entry
// rejects the whole topology.
func NewFromTopology(params Params, topo Topology) (*Solver, error) {
	s, err := New(params)
	if err != nil {
		return nil, err
	}

	for i, ps := range topo.Particles {
		if math.IsNaN(ps.X) || math.IsNaN(ps.Y) || math.IsInf(ps.X, 0) || math.IsInf(ps.Y, 0) {
			return nil, &TopologyError{Kind: "particle", Index: i, Wrapped: ErrInvalidState}
		}
		h := s.AddParticle(ps.X, ps.Y)
		s.particles[h].Pinned = ps.Pinned
	}

	for i, cs := range topo.Constraints {
		var err error
		if cs.Length == 0 {
			_, err = s.AddConstraint(Handle(cs.A), Handle(cs.B))
		} else {
			_, err = s.AddConstraintLength(Handle(cs.A), Handle(cs.B), cs.Length)
		}
		if err != nil {
			return nil, &TopologyError{Kind: "constraint", Index: i, Wrapped: err}
		}
	}

	return s, nil
}

// AddParticle appends a particle at rest and returns its handle.
func (s *Solver) AddParticle(x, y float64) Handle {
	p := NewParticle(x, y)
	s.particles = append(s.particles, p)
	s.rest = append(s.rest, p.Position())
	return Handle(len(s.particles) - 1)
}

func (s *Solver) Pin(h Handle) error {
	if !s.owns(h) {
		return fmt.Errorf("pin %d: %w", h, ErrForeignParticle)
	}
	s.particles[h].Pinned = true
	return nil
}

func (s *Solver) Unpin(h Handle) error {
	if !s.owns(h) {
		return fmt.Errorf("unpin %d: %w", h, ErrForeignParticle)
	}
	s.particles[h].Pinned = false
	return nil
}

// AddConstraint links a and b at their current distance.
func (s *Solver) AddConstraint(a, b Handle) (int, error) {
	if err := s.checkPair(a, b); err != nil {
		return 0, err
	}
	return s.AddConstraintLength(a, b, distance(&s.particles[a], &s.particles[b]))
}

// AddConstraintLength links a and b with an explicit rest length.
func (s *Solver) AddConstraintLength(a, b Handle, length float64) (int, error) {
	if err := s.checkPair(a, b); err != nil {
		return 0, err
	}
	if !(length >= 0) || math.IsInf(length, 0) {
		return 0, fmt.Errorf("%w: rest length %g", ErrParameterBounds, length)
	}
	s.constraints = append(s.constraints, Constraint{A: a, B: b, Length: length})
	return len(s.constraints) - 1, nil
}

func (s *Solver) checkPair(a, b Handle) error {
	if !s.owns(a) {
		return fmt.Errorf("link %d-%d: %w", a, b, ErrForeignParticle)
	}
	if !s.owns(b) {
		return fmt.Errorf("link %d-%d: %w", a, b, ErrForeignParticle)
	}
	if a == b {
		return fmt.Errorf("link %d-%d: %w", a, b, ErrSelfConstraint)
	}
	return nil
}

func (s *Solver) owns(h Handle) bool {
	return h >= 0 && int(h) < len(s.particles)
}

// Step advances the body by one frame: integrate every particle, then relax
// every constraint Iterations times in insertion order.
func (s *Solver) Step() {
	for i := range s.particles {
		s.particles[i].integrate(&s.params)
	}

	for it := 0; it < s.params.Iterations; it++ {
		for _, c := range s.constraints {
			c.relax(s.particles)
		}
	}

	s.frame++
}

// Integrate runs the integration phase for a single particle.
func (s *Solver) Integrate(h Handle) error {
	if !s.owns(h) {
		return fmt.Errorf("integrate %d: %w", h, ErrForeignParticle)
	}
	s.particles[h].integrate(&s.params)
	return nil
}

// Relax runs one projection of constraint i.
func (s *Solver) Relax(i int) error {
	if i < 0 || i >= len(s.constraints) {
		return fmt.Errorf("%w: constraint %d of %d", ErrParameterBounds, i, len(s.constraints))
	}
	s.constraints[i].relax(s.particles)
	return nil
}

func (s *Solver) Params() Params      { return s.params }
func (s *Solver) Len() int            { return len(s.particles) }
func (s *Solver) NumConstraints() int { return len(s.constraints) }
func (s *Solver) Frame() uint64       { return s.frame }

// Particle returns a copy of the particle behind h.
func (s *Solver) Particle(h Handle) Particle {
	return s.particles[h]
}

func (s *Solver) Constraint(i int) Constraint {
	return s.constraints[i]
}

// Particles returns a copy of the arena.
func (s *Solver) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

func (s *Solver) Positions() []Point {
	out := make([]Point, len(s.particles))
	for i := range s.particles {
		out[i] = s.particles[i].Position()
	}
	return out
}

func (s *Solver) Segments() []Segment {
	out := make([]Segment, len(s.constraints))
	for i, c := range s.constraints {
		out[i] = Segment{A: s.particles[c.A].Position(), B: s.particles[c.B].Position()}
	}
	return out
}

// Stretch returns the signed length error of constraint i.
func (s *Solver) Stretch(i int) float64 {
	return s.constraints[i].Stretch(s.particles)
}

// Valid reports whether every coordinate is finite.
func (s *Solver) Valid() bool {
	for i := range s.particles {
		if !s.particles[i].finite() {
			return false
		}
	}
	return true
}
