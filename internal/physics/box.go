package physics

import (
	"fmt"

	"github.com/san-kum/softbody/internal/dynamo"
)

// Brace selects which diagonals of a box are linked.
type Brace int

const (
	BraceNone Brace = iota
	BraceSingle
	BraceCross
)

func (b Brace) String() string {
	switch b {
	case BraceNone:
		return "none"
	case BraceSingle:
		return "single"
	case BraceCross:
		return "cross"
	}
	return fmt.Sprintf("brace(%d)", int(b))
}

func ParseBrace(s string) (Brace, error) {
	switch s {
	case "none", "floppy":
		return BraceNone, nil
	case "", "single":
		return BraceSingle, nil
	case "cross", "rigid":
		return BraceCross, nil
	}
	return BraceNone, fmt.Errorf("unknown brace: %s", s)
}

// Box builds a w×h box with its top-left corner at (x, y). Corners are listed
// clockwise from top-left, edges follow the same order, braces come last.
func Box(x, y, w, h float64, brace Brace) dynamo.Topology {
	topo := dynamo.Topology{
		Particles: []dynamo.ParticleSpec{
			{X: x, Y: y},
			{X: x + w, Y: y},
			{X: x + w, Y: y + h},
			{X: x, Y: y + h},
		},
	}
	loop(&topo, 0, 4)

	switch brace {
	case BraceSingle:
		link(&topo, 0, 2)
	case BraceCross:
		link(&topo, 0, 2)
		link(&topo, 1, 3)
	}
	return topo
}

func link(topo *dynamo.Topology, a, b int) {
	topo.Constraints = append(topo.Constraints, dynamo.ConstraintSpec{A: a, B: b})
}

// loop links particles first..first+n-1 into a closed ring.
func loop(topo *dynamo.Topology, first, n int) {
	for i := 0; i < n; i++ {
		link(topo, first+i, first+(i+1)%n)
	}
}
