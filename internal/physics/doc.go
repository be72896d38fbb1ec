// Package physics provides body builders for the soft-body solver.
//
// Each builder returns a [dynamo.Topology], a plain description of particles
// and links that [dynamo.NewFromTopology] turns into a running solver:
//
//   - [Box]: four-corner box with optional diagonal braces
//   - [Polygon]: regular polygon, optionally triangulated
//   - [Hexagon]: the six-point demo body with its three inner braces
//   - [Chain]: rope hanging from a pinned head
//   - [Cloth]: rectangular grid of links
//
// # Stiffness
//
// Links only resist stretching along their own axis. A box made of four edges
// folds flat; one diagonal keeps it square most of the time, two make it rigid:
//
//	topo := physics.Box(300, 100, 100, 100, physics.BraceCross)
//	s, err := dynamo.NewFromTopology(dynamo.DefaultParams(), topo)
package physics
