package physics

import (
	"math"

	"github.com/san-kum/softbody/internal/dynamo"
)

// Polygon builds a regular polygon of the given radius. The first vertex sits
// straight above the centre; vertices run clockwise on screen. When braced,
// every second vertex is chained into an inner ring, which triangulates the
// body for an even number of sides.
func Polygon(cx, cy, radius float64, sides int, braced bool) dynamo.Topology {
	if sides < 3 {
		sides = 3
	}

	topo := dynamo.Topology{Particles: make([]dynamo.ParticleSpec, 0, sides)}
	for i := 0; i < sides; i++ {
		angle := 2 * math.Pi * float64(i) / float64(sides)
		topo.Particles = append(topo.Particles, dynamo.ParticleSpec{
			X: cx + radius*math.Sin(angle),
			Y: cy - radius*math.Cos(angle),
		})
	}
	loop(&topo, 0, sides)

	if braced {
		brace(&topo, sides)
	}
	return topo
}

// brace chains vertices 1, 3, 5, ... and closes the chain back to vertex 1.
func brace(topo *dynamo.Topology, sides int) {
	inner := make([]int, 0, sides/2)
	for i := 1; i < sides; i += 2 {
		inner = append(inner, i)
	}
	if len(inner) < 2 {
		return
	}
	for i := 0; i+1 < len(inner); i++ {
		link(topo, inner[i], inner[i+1])
	}
	if len(inner) > 2 {
		link(topo, inner[0], inner[len(inner)-1])
	}
}

// Hexagon is the six-point demo body: an irregular hexagon with a braced
// inner triangle.
func Hexagon() dynamo.Topology {
	topo := dynamo.Topology{
		Particles: []dynamo.ParticleSpec{
			{X: 299, Y: 100},
			{X: 386, Y: 150},
			{X: 386, Y: 250},
			{X: 301, Y: 300},
			{X: 214, Y: 250},
			{X: 214, Y: 150},
		},
	}
	loop(&topo, 0, 6)
	link(&topo, 1, 3)
	link(&topo, 1, 5)
	link(&topo, 3, 5)
	return topo
}
