package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/metrics"
	"github.com/san-kum/softbody/internal/physics"
)

// BodyBuilder turns a body section into a topology.
type BodyBuilder func(config.BodyConfig) (dynamo.Topology, error)

type Registry struct {
	bodies map[string]BodyBuilder
}

func NewRegistry() *Registry {
	r := &Registry{
		bodies: make(map[string]BodyBuilder),
	}

	r.bodies["box"] = func(b config.BodyConfig) (dynamo.Topology, error) {
		brace, err := physics.ParseBrace(b.Brace)
		if err != nil {
			return dynamo.Topology{}, err
		}
		return physics.Box(b.X, b.Y, b.Width, b.Height, brace), nil
	}
	r.bodies["hexagon"] = func(b config.BodyConfig) (dynamo.Topology, error) {
		// the demo hexagon is laid out for the default spawn point
		def := config.DefaultConfig().Body
		return physics.Translate(physics.Hexagon(), b.X-def.X, b.Y-def.Y), nil
	}
	r.bodies["polygon"] = func(b config.BodyConfig) (dynamo.Topology, error) {
		return physics.Polygon(b.X, b.Y, b.Radius, b.Sides, true), nil
	}
	r.bodies["chain"] = func(b config.BodyConfig) (dynamo.Topology, error) {
		return physics.Chain(b.X, b.Y, b.Links, b.Spacing, b.Pinned), nil
	}
	r.bodies["cloth"] = func(b config.BodyConfig) (dynamo.Topology, error) {
		return physics.Cloth(b.X, b.Y, b.Cols, b.Rows, b.Spacing, b.Pinned), nil
	}
	r.bodies["custom"] = func(b config.BodyConfig) (dynamo.Topology, error) {
		if len(b.Points) == 0 {
			return dynamo.Topology{}, fmt.Errorf("custom body has no points")
		}
		return b.Topology(), nil
	}

	return r
}

// Register adds or replaces a body builder.
func (r *Registry) Register(name string, fn BodyBuilder) {
	r.bodies[name] = fn
}

func (r *Registry) GetBody(name string, body config.BodyConfig) (dynamo.Topology, error) {
	fn, ok := r.bodies[name]
	if !ok {
		return dynamo.Topology{}, fmt.Errorf("unknown body: %s", name)
	}
	return fn(body)
}

func (r *Registry) ListBodies() []string {
	names := make([]string, 0, len(r.bodies))
	for name := range r.bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewStrain(),
		metrics.NewStability(metrics.DefaultMargin),
		metrics.NewFloorContacts(),
	}
}
