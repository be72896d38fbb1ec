package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
)

func TestRegistryBodies(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"box", "chain", "cloth", "custom", "hexagon", "polygon"}, r.ListBodies())

	for _, shape := range config.ListShapes() {
		for _, name := range config.ListPresets(shape) {
			cfg := config.GetPreset(shape, name)
			topo, err := r.GetBody(cfg.Body.Shape, cfg.Body)
			require.NoError(t, err, "%s/%s", shape, name)
			assert.NotEmpty(t, topo.Particles, "%s/%s", shape, name)
		}
	}
}

func TestRegistryUnknownBody(t *testing.T) {
	_, err := NewRegistry().GetBody("blob", config.BodyConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown body: blob")
}

func TestRegistryBadBrace(t *testing.T) {
	body := config.DefaultConfig().Body
	body.Brace = "diagonal"
	_, err := NewRegistry().GetBody("box", body)
	assert.Error(t, err)
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Frames = 120

	r := NewRegistry()
	exp := New(cfg)
	require.NoError(t, exp.Setup(r, r.DefaultMetrics()))

	result, err := exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 120, result.StepsTaken)
	assert.Len(t, result.Frames, 121)
	assert.Len(t, result.Frames[0], 4)
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.Metrics, "energy")
	assert.Contains(t, result.Metrics, "strain")
	assert.Equal(t, uint64(120), exp.Solver().Frame())
}

func TestExperimentNotSetup(t *testing.T) {
	_, err := New(config.DefaultConfig()).Run(context.Background())
	assert.Error(t, err)
}

func TestExperimentRejectsBadTopology(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Body.Shape = "custom"
	cfg.Body.Points = []config.PointConfig{{X: 10, Y: 10}}
	cfg.Body.Sticks = []config.StickConfig{{A: 0, B: 3}}

	err := New(cfg).Setup(NewRegistry(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dynamo.ErrForeignParticle))
}

func TestExperimentRejectsBadParams(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.World.Iterations = 0

	err := New(cfg).Setup(NewRegistry(), nil)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestHexagonFollowsSpawnPoint(t *testing.T) {
	r := NewRegistry()
	body := config.DefaultConfig().Body

	home, err := r.GetBody("hexagon", body)
	require.NoError(t, err)

	body.X += 50
	body.Y += 20
	moved, err := r.GetBody("hexagon", body)
	require.NoError(t, err)

	require.Len(t, moved.Particles, len(home.Particles))
	for i := range home.Particles {
		assert.Equal(t, home.Particles[i].X+50, moved.Particles[i].X)
		assert.Equal(t, home.Particles[i].Y+20, moved.Particles[i].Y)
	}
	assert.Equal(t, home.Constraints, moved.Constraints)
}

type stepCounter struct{ steps int }

func (c *stepCounter) OnStep(*dynamo.Solver) { c.steps++ }

func TestExperimentObserver(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Frames = 30

	exp := New(cfg)
	require.NoError(t, exp.Setup(NewRegistry(), nil))

	counter := &stepCounter{}
	exp.Simulator().AddObserver(counter)

	_, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, counter.steps)
}
