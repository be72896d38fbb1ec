package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/softbody/internal/dynamo"
)

const (
	DefaultShape   = "box"
	DefaultFrames  = 600
	DefaultFPS     = 60
	DefaultSize    = 100.0
	DefaultRadius  = 80.0
	DefaultSides   = 6
	DefaultLinks   = 12
	DefaultCols    = 10
	DefaultRows    = 8
	DefaultSpacing = 20.0
)

type Config struct {
	World WorldConfig `yaml:"world"`
	Body  BodyConfig  `yaml:"body"`
	Run   RunConfig   `yaml:"run"`
}

type WorldConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Gravity     float64 `yaml:"gravity"`
	Damping     float64 `yaml:"damping"`
	Restitution float64 `yaml:"restitution"`
	Iterations  int     `yaml:"iterations"`
}

// BodyConfig selects a shape and its dimensions. Only the fields the shape
// uses are read.
type BodyConfig struct {
	Shape   string        `yaml:"shape"`
	X       float64       `yaml:"x"`
	Y       float64       `yaml:"y"`
	Width   float64       `yaml:"width"`
	Height  float64       `yaml:"height"`
	Brace   string        `yaml:"brace"`
	Sides   int           `yaml:"sides"`
	Radius  float64       `yaml:"radius"`
	Links   int           `yaml:"links"`
	Cols    int           `yaml:"cols"`
	Rows    int           `yaml:"rows"`
	Spacing float64       `yaml:"spacing"`
	Pinned  bool          `yaml:"pinned"`
	Points  []PointConfig `yaml:"points,omitempty"`
	Sticks  []StickConfig `yaml:"sticks,omitempty"`
}

type PointConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Pinned bool    `yaml:"pinned"`
}

// StickConfig links points A and B. A zero length uses the initial distance.
type StickConfig struct {
	A      int     `yaml:"a"`
	B      int     `yaml:"b"`
	Length float64 `yaml:"length"`
}

type RunConfig struct {
	Frames int `yaml:"frames"`
	Every  int `yaml:"every"`
	FPS    int `yaml:"fps"`
}

func DefaultConfig() *Config {
	p := dynamo.DefaultParams()
	return &Config{
		World: WorldConfig{
			Width:       p.Width,
			Height:      p.Height,
			Gravity:     p.Gravity,
			Damping:     p.Damping,
			Restitution: p.Restitution,
			Iterations:  p.Iterations,
		},
		Body: BodyConfig{
			Shape:   DefaultShape,
			X:       300,
			Y:       100,
			Width:   DefaultSize,
			Height:  DefaultSize,
			Brace:   "single",
			Sides:   DefaultSides,
			Radius:  DefaultRadius,
			Links:   DefaultLinks,
			Cols:    DefaultCols,
			Rows:    DefaultRows,
			Spacing: DefaultSpacing,
		},
		Run: RunConfig{
			Frames: DefaultFrames,
			Every:  1,
			FPS:    DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base; fields absent from the file
// keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Params() dynamo.Params {
	return dynamo.Params{
		Width:       c.World.Width,
		Height:      c.World.Height,
		Gravity:     c.World.Gravity,
		Damping:     c.World.Damping,
		Restitution: c.World.Restitution,
		Iterations:  c.World.Iterations,
	}
}

// RunConfig converts the run section for a headless simulator run.
func (c *Config) RunConfig() dynamo.RunConfig {
	rc := dynamo.DefaultRunConfig()
	rc.Frames = c.Run.Frames
	rc.Every = c.Run.Every
	if c.Run.FPS > 0 {
		rc.Dt = 1 / float64(c.Run.FPS)
	}
	return rc
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Run.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", dynamo.ErrParameterBounds, c.Run.Frames)
	}
	if c.Run.Every < 0 {
		return fmt.Errorf("%w: every must not be negative, got %d", dynamo.ErrParameterBounds, c.Run.Every)
	}
	if c.Run.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", dynamo.ErrParameterBounds, c.Run.FPS)
	}
	if c.Body.Shape == "" {
		return fmt.Errorf("%w: body shape is empty", dynamo.ErrParameterBounds)
	}
	return nil
}

// Clone returns a deep copy, so presets can be modified by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Body.Points = append([]PointConfig(nil), c.Body.Points...)
	out.Body.Sticks = append([]StickConfig(nil), c.Body.Sticks...)
	return &out
}

// Topology converts the points and sticks of a custom body.
func (b BodyConfig) Topology() dynamo.Topology {
	topo := dynamo.Topology{
		Particles:   make([]dynamo.ParticleSpec, len(b.Points)),
		Constraints: make([]dynamo.ConstraintSpec, len(b.Sticks)),
	}
	for i, p := range b.Points {
		topo.Particles[i] = dynamo.ParticleSpec{X: p.X, Y: p.Y, Pinned: p.Pinned}
	}
	for i, s := range b.Sticks {
		topo.Constraints[i] = dynamo.ConstraintSpec{A: s.A, B: s.B, Length: s.Length}
	}
	return topo
}
