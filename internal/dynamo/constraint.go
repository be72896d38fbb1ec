package dynamo

import "math"

// Constraint keeps two particles at a fixed distance. It stores arena handles,
// never pointers, so it cannot outlive or escape its solver.
type Constraint struct {
	A, B   Handle
	Length float64
}

// Stretch returns current distance minus rest length (positive when stretched).
func (c Constraint) Stretch(ps []Particle) float64 {
	return distance(&ps[c.A], &ps[c.B]) - c.Length
}

// relax moves both ends toward the rest length. Each movable end takes half of
// the correction; a pinned end takes none. Coincident ends have no direction
// and are left alone.
func (c Constraint) relax(ps []Particle) {
	a, b := &ps[c.A], &ps[c.B]

	dx := a.X - b.X
	dy := a.Y - b.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return
	}

	diff := c.Length - dist
	percent := diff / dist / 2

	ox, oy := dx*percent, dy*percent

	if a.Movable() {
		a.X += ox
		a.Y += oy
	}
	if b.Movable() {
		b.X -= ox
		b.Y -= oy
	}
}

func distance(a, b *Particle) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
