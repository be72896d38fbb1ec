package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/experiment"
)

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drop.yaml")
	data := []byte(`
name: drop
description: drop a box, then a hexagon on the moon
steps:
  - preset: box/braced
    frames: 30
  - shape: hexagon
    frames: 20
    params:
      gravity: 0.1
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "drop", sc.Name)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, 0.1, sc.Steps[1].Params["gravity"])

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 30, results[0].Result.StepsTaken)
	assert.Equal(t, 20, results[1].Result.StepsTaken)
	assert.Equal(t, 0.1, results[1].Config.World.Gravity)
	assert.Len(t, results[1].Result.Frames[0], 6)
}

func TestLoadScenarioEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: nothing\n"), 0644))

	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		step ScenarioStep
	}{
		{"malformed preset", ScenarioStep{Preset: "box"}},
		{"unknown preset", ScenarioStep{Preset: "box/jelly"}},
		{"unknown param", ScenarioStep{Shape: "box", Params: map[string]float64{"wind": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.step.Resolve()
			assert.Error(t, err)
		})
	}
}

func TestRunScenarioStopsAtFailure(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{
		{Shape: "box", Frames: 5},
		{Shape: "blob", Frames: 5},
		{Shape: "box", Frames: 5},
	}}

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2")
	assert.Len(t, results, 1)
}

func TestIterationSweepStiffens(t *testing.T) {
	base := config.GetPreset("chain", "rope")
	base.Run.Frames = 120

	results, err := RunSweep(context.Background(), IterationSweep(base, 1, 5, 20), experiment.NewRegistry())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i := 1; i < len(results); i++ {
		assert.Less(t, results[i].Strain, results[i-1].Strain,
			"strain should fall from %g to %g iterations", results[i-1].ParamValue, results[i].ParamValue)
	}
	assert.Equal(t, 5, base.World.Iterations, "sweep must not modify its base config")
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0, 1, 5))
	assert.Equal(t, []float64{3}, Linspace(3, 9, 1))
}

func TestSweepUnknownParam(t *testing.T) {
	sweep := &ParameterSweep{Base: config.DefaultConfig(), ParamName: "wind", Values: []float64{1}}
	_, err := RunSweep(context.Background(), sweep, experiment.NewRegistry())
	assert.Error(t, err)
}

func TestMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.Run.Frames = 300

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:         base,
		Perturbation: 5,
		NumTrials:    5,
		Seed:         1,
	}, experiment.NewRegistry())
	require.NoError(t, err)
	require.Len(t, results, 5)

	stable, unstable := MonteCarloStats(results)
	assert.Equal(t, 5, stable)
	assert.Zero(t, unstable)
}

func TestMonteCarloSeedIsReproducible(t *testing.T) {
	base := config.DefaultConfig()
	base.Run.Frames = 60
	mc := &MonteCarloConfig{Base: base, Perturbation: 8, NumTrials: 6, Seed: 42}

	first, err := RunMonteCarlo(context.Background(), mc, experiment.NewRegistry())
	require.NoError(t, err)
	second, err := RunMonteCarlo(context.Background(), mc, experiment.NewRegistry())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMonteCarloRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		mc   MonteCarloConfig
	}{
		{"negative trials", MonteCarloConfig{NumTrials: -1, Seed: 1}},
		{"negative perturbation", MonteCarloConfig{NumTrials: 2, Perturbation: -5, Seed: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := tt.mc
			mc.Base = config.DefaultConfig()
			results, err := RunMonteCarlo(context.Background(), &mc, experiment.NewRegistry())
			assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
			assert.Nil(t, results)
		})
	}
}
