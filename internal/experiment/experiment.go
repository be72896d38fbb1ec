package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
)

type Experiment struct {
	cfg       *config.Config
	solver    *dynamo.Solver
	simulator *dynamo.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the configuration and builds the body and simulator.
func (e *Experiment) Setup(r *Registry, metrics []dynamo.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	topo, err := r.GetBody(e.cfg.Body.Shape, e.cfg.Body)
	if err != nil {
		return err
	}

	solver, err := dynamo.NewFromTopology(e.cfg.Params(), topo)
	if err != nil {
		return fmt.Errorf("build %s: %w", e.cfg.Body.Shape, err)
	}

	e.solver = solver
	e.simulator = dynamo.NewSimulator(solver)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.RunConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Solver() *dynamo.Solver { return e.solver }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *dynamo.Simulator {
	return e.simulator
}
