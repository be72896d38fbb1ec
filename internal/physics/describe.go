package physics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// Stats summarises a topology.
type Stats struct {
	Particles   int
	Constraints int
	Pinned      int
	RestLength  float64 // sum of all rest lengths
}

func Describe(topo dynamo.Topology) Stats {
	st := Stats{
		Particles:   len(topo.Particles),
		Constraints: len(topo.Constraints),
	}
	for _, p := range topo.Particles {
		if p.Pinned {
			st.Pinned++
		}
	}
	for _, c := range topo.Constraints {
		if c.Length > 0 {
			st.RestLength += c.Length
			continue
		}
		if c.A < 0 || c.A >= len(topo.Particles) || c.B < 0 || c.B >= len(topo.Particles) {
			continue
		}
		a, b := topo.Particles[c.A], topo.Particles[c.B]
		st.RestLength += math.Hypot(a.X-b.X, a.Y-b.Y)
	}
	return st
}

// Translate shifts every particle by (dx, dy).
func Translate(topo dynamo.Topology, dx, dy float64) dynamo.Topology {
	out := dynamo.Topology{
		Particles:   make([]dynamo.ParticleSpec, len(topo.Particles)),
		Constraints: make([]dynamo.ConstraintSpec, len(topo.Constraints)),
	}
	copy(out.Constraints, topo.Constraints)
	for i, p := range topo.Particles {
		p.X += dx
		p.Y += dy
		out.Particles[i] = p
	}
	return out
}
