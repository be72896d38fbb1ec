package metrics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// DefaultMargin is how far past a wall or the floor a particle may sit before
// the frame counts as unstable. Relaxation runs after collision, so bodies
// resting on the floor routinely sink a few pixels into it.
const DefaultMargin = 50.0

// Stability is the fraction of frames in which every particle is finite and
// within margin of the world.
type Stability struct {
	name       string
	margin     float64
	violations int
	samples    int
}

func NewStability(margin float64) *Stability {
	return &Stability{
		name:   "stability",
		margin: margin,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(solver *dynamo.Solver) {
	s.samples++
	params := solver.Params()
	for _, p := range solver.Positions() {
		if !inside(p, params, s.margin) {
			s.violations++
			break
		}
	}
}

func inside(p dynamo.Point, params dynamo.Params, margin float64) bool {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return false
	}
	return p.X >= -margin && p.X <= params.Width+margin && p.Y <= params.Height+margin
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
