package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/experiment"
	"github.com/san-kum/softbody/internal/metrics"
)

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one body. Preset is "shape/name"; when empty, Shape picks
// a body with default dimensions. Params override world settings by name.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Shape  string             `yaml:"shape"`
	Frames int                `yaml:"frames"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *dynamo.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Resolve builds the configuration of a step.
func (step ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		shape, name, ok := strings.Cut(step.Preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want shape/name", step.Preset)
		}
		cfg = config.GetPreset(shape, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	} else if step.Shape != "" {
		cfg.Body.Shape = step.Shape
	}

	if step.Frames > 0 {
		cfg.Run.Frames = step.Frames
	}
	if err := ApplyParams(cfg, step.Params); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyParams sets world parameters by name.
func ApplyParams(cfg *config.Config, params map[string]float64) error {
	for k, v := range params {
		if err := SetParam(cfg, k, v); err != nil {
			return err
		}
	}
	return nil
}

func SetParam(cfg *config.Config, name string, value float64) error {
	switch name {
	case "gravity":
		cfg.World.Gravity = value
	case "damping":
		cfg.World.Damping = value
	case "restitution":
		cfg.World.Restitution = value
	case "iterations":
		cfg.World.Iterations = int(value)
	case "width":
		cfg.World.Width = value
	case "height":
		cfg.World.Height = value
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}

// RunScenario executes every step in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry, registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}

// ParameterSweep runs the base configuration once per value of a world parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	Values    []float64
}

// IterationSweep sweeps the relaxation pass count.
func IterationSweep(base *config.Config, iterations ...int) *ParameterSweep {
	values := make([]float64, len(iterations))
	for i, n := range iterations {
		values[i] = float64(n)
	}
	return &ParameterSweep{Base: base, ParamName: "iterations", Values: values}
}

// Linspace returns n evenly spaced values from min to max inclusive.
func Linspace(min, max float64, n int) []float64 {
	if n < 2 {
		return []float64{min}
	}
	step := (max - min) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}

type SweepResult struct {
	ParamValue float64
	Strain     float64
	Energy     float64
	Stability  float64
	Final      []dynamo.Point
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	results := make([]SweepResult, 0, len(sweep.Values))

	for _, v := range sweep.Values {
		cfg := sweep.Base.Clone()
		if err := SetParam(cfg, sweep.ParamName, v); err != nil {
			return nil, err
		}

		strain := metrics.NewStrain()
		energy := metrics.NewEnergy()
		stability := metrics.NewStability(metrics.DefaultMargin)

		exp := experiment.New(cfg)
		if err := exp.Setup(registry, []dynamo.Metric{strain, energy, stability}); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: v,
			Strain:     strain.Value(),
			Energy:     energy.Value(),
			Stability:  stability.Value(),
			Final:      result.Frames[len(result.Frames)-1],
		})
	}

	return results, nil
}

// MonteCarloConfig perturbs the spawn positions of a body at random.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID int
	Stable  bool // no invalid state and every frame inside the world
	Strain  float64
}

// RunMonteCarlo runs the trials in parallel. Offsets are drawn up front, so a
// fixed seed gives the same results however the trials are scheduled.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 0 {
		return nil, fmt.Errorf("%w: trials must not be negative, got %d", dynamo.ErrParameterBounds, cfg.NumTrials)
	}
	if cfg.Perturbation < 0 || math.IsNaN(cfg.Perturbation) || math.IsInf(cfg.Perturbation, 0) {
		return nil, fmt.Errorf("%w: perturbation must be finite and not negative, got %g", dynamo.ErrParameterBounds, cfg.Perturbation)
	}

	topo, err := registry.GetBody(cfg.Base.Body.Shape, cfg.Base.Body)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	offsets := make([][]dynamo.Point, cfg.NumTrials)
	for trial := range offsets {
		offsets[trial] = make([]dynamo.Point, len(topo.Particles))
		for i := range offsets[trial] {
			offsets[trial][i] = dynamo.Point{
				X: (rng.Float64() - 0.5) * 2 * cfg.Perturbation,
				Y: (rng.Float64() - 0.5) * 2 * cfg.Perturbation,
			}
		}
	}

	strains := make([]*metrics.Strain, cfg.NumTrials)
	stabilities := make([]*metrics.Stability, cfg.NumTrials)

	ensemble := dynamo.NewEnsemble(cfg.NumTrials, func(trial int) (*dynamo.Simulator, error) {
		solver, err := dynamo.NewFromTopology(cfg.Base.Params(), topo)
		if err != nil {
			return nil, err
		}

		for i, d := range offsets[trial] {
			p := solver.Particle(dynamo.Handle(i))
			if !p.Movable() {
				continue
			}
			if err := solver.Reset(dynamo.Handle(i), p.X+d.X, p.Y+d.Y); err != nil {
				return nil, err
			}
		}

		strains[trial] = metrics.NewStrain()
		stabilities[trial] = metrics.NewStability(metrics.DefaultMargin)
		sim := dynamo.NewSimulator(solver)
		sim.AddMetric(strains[trial])
		sim.AddMetric(stabilities[trial])
		return sim, nil
	})

	runs, err := ensemble.Run(ctx, cfg.Base.RunConfig())
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial, result := range runs {
		results = append(results, MonteCarloResult{
			TrialID: trial,
			Stable:  len(result.Errors) == 0 && stabilities[trial].Value() == 1,
			Strain:  strains[trial].Value(),
		})
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
