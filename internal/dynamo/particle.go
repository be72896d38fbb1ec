package dynamo

import "math"

// Particle is a point mass. Its velocity is implied by (X-OldX, Y-OldY).
type Particle struct {
	X, Y       float64
	OldX, OldY float64
	Pinned     bool
}

// NewParticle returns a particle at rest at (x, y).
func NewParticle(x, y float64) Particle {
	return Particle{X: x, Y: y, OldX: x, OldY: y}
}

// Movable reports whether integration and relaxation may move the particle.
func (p Particle) Movable() bool {
	return !p.Pinned
}

// Velocity returns the damped velocity implied by the position history.
func (p Particle) Velocity(damping float64) (vx, vy float64) {
	return (p.X - p.OldX) * damping, (p.Y - p.OldY) * damping
}

func (p Particle) Position() Point {
	return Point{X: p.X, Y: p.Y}
}

func (p *Particle) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// integrate advances the particle by one Verlet step and applies the world bounds.
func (p *Particle) integrate(params *Params) {
	if !p.Movable() {
		return
	}

	vx, vy := p.Velocity(params.Damping)

	p.OldX, p.OldY = p.X, p.Y

	p.X += vx
	p.Y += vy + params.Gravity

	params.collide(p, vx, vy)
}

// collide clamps p to the world and rewrites the previous position so the next
// inferred velocity is the reflected one, scaled by restitution.
func (params *Params) collide(p *Particle, vx, vy float64) {
	if p.Y > params.Height {
		p.Y = params.Height
		p.OldY = p.Y + vy*params.Restitution
	}

	if p.X > params.Width {
		p.X = params.Width
		p.OldX = p.X + vx*params.Restitution
	} else if p.X < 0 {
		p.X = 0
		p.OldX = p.X + vx*params.Restitution
	}
}
