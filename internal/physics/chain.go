package physics

import "github.com/san-kum/softbody/internal/dynamo"

// Chain builds a horizontal rope of n links starting at (x, y). With pinHead
// the first particle is fixed, so the rope swings down from it and carries
// waves along its length.
func Chain(x, y float64, n int, spacing float64, pinHead bool) dynamo.Topology {
	if n < 1 {
		n = 1
	}

	topo := dynamo.Topology{Particles: make([]dynamo.ParticleSpec, 0, n+1)}
	for i := 0; i <= n; i++ {
		topo.Particles = append(topo.Particles, dynamo.ParticleSpec{X: x + float64(i)*spacing, Y: y})
	}
	topo.Particles[0].Pinned = pinHead

	for i := 0; i < n; i++ {
		link(&topo, i, i+1)
	}
	return topo
}
