package physics

import "github.com/san-kum/softbody/internal/dynamo"

// Cloth builds a cols×rows grid with its top-left particle at (x, y).
// Particles are listed row by row. Each particle links to its right and lower
// neighbour. With pinTop the two top corners are fixed.
func Cloth(x, y float64, cols, rows int, spacing float64, pinTop bool) dynamo.Topology {
	if cols < 2 {
		cols = 2
	}
	if rows < 2 {
		rows = 2
	}

	idx := func(c, r int) int { return r*cols + c }

	topo := dynamo.Topology{Particles: make([]dynamo.ParticleSpec, 0, cols*rows)}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			topo.Particles = append(topo.Particles, dynamo.ParticleSpec{
				X: x + float64(c)*spacing,
				Y: y + float64(r)*spacing,
			})
		}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols {
				link(&topo, idx(c, r), idx(c+1, r))
			}
			if r+1 < rows {
				link(&topo, idx(c, r), idx(c, r+1))
			}
		}
	}

	if pinTop {
		topo.Particles[idx(0, 0)].Pinned = true
		topo.Particles[idx(cols-1, 0)].Pinned = true
	}
	return topo
}
