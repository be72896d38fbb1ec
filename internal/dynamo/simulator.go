package dynamo

import (
	"context"
	"fmt"
)

// Simulator drives a solver headlessly, recording frames and feeding metrics.
type Simulator struct {
	solver    *Solver
	metrics   []Metric
	observers []Observer
}

func NewSimulator(s *Solver) *Simulator {
	return &Simulator{
		solver:    s,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (sim *Simulator) AddMetric(m Metric)     { sim.metrics = append(sim.metrics, m) }
func (sim *Simulator) AddObserver(o Observer) { sim.observers = append(sim.observers, o) }
func (sim *Simulator) Solver() *Solver        { return sim.solver }

// Run steps the solver cfg.Frames times. On cancellation it returns the frames
// recorded so far together with the context error.
func (sim *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.Every
	if every < 1 {
		every = 1
	}

	capacity := cfg.Frames/every + 1
	result := &Result{
		Frames:  make([][]Point, 0, capacity),
		Times:   make([]float64, 0, capacity),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range sim.metrics {
		m.Reset()
	}

	s := sim.solver
	start := s.Frame()
	record := func() {
		result.Frames = append(result.Frames, s.Positions())
		result.Times = append(result.Times, float64(s.Frame()-start)*cfg.Dt)
	}
	record()

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			sim.collect(result)
			return result, fmt.Errorf("%w: %w", ErrContextCanceled, ctx.Err())
		default:
		}

		s.Step()
		result.StepsTaken++

		if cfg.ValidateState && !s.Valid() {
			result.Errors = append(result.Errors, SimError{Frame: s.Frame(), Message: "invalid state (NaN/Inf)"})
			break
		}

		for _, m := range sim.metrics {
			m.Observe(s)
		}
		for _, obs := range sim.observers {
			obs.OnStep(s)
		}

		if (i+1)%every == 0 {
			record()
		}
	}

	sim.collect(result)
	return result, nil
}

func (sim *Simulator) collect(result *Result) {
	for _, m := range sim.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateRunConfig(cfg RunConfig) error {
	if cfg.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrParameterBounds, cfg.Frames)
	}
	if cfg.Dt < 0 {
		return fmt.Errorf("%w: dt must not be negative, got %f", ErrParameterBounds, cfg.Dt)
	}
	return nil
}
