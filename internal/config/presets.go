package config

import "sort"

var Presets = map[string]map[string]*Config{
	"box": {
		"floppy": preset(func(c *Config) {
			c.Body.Brace = "none"
		}),
		"braced": preset(func(c *Config) {
			c.Body.Brace = "single"
		}),
		"rigid": preset(func(c *Config) {
			c.Body.Brace = "cross"
			c.World.Iterations = 10
		}),
	},
	"hexagon": {
		"demo": preset(func(c *Config) {
			c.Body.Shape = "hexagon"
		}),
	},
	"polygon": {
		"wheel": preset(func(c *Config) {
			c.Body.Shape = "polygon"
			c.Body.X, c.Body.Y = 400, 200
			c.Body.Sides = 12
			c.Body.Radius = 80
			c.World.Iterations = 8
		}),
	},
	"chain": {
		"rope": preset(func(c *Config) {
			c.Body.Shape = "chain"
			c.Body.X, c.Body.Y = 200, 100
			c.Body.Links = 20
			c.Body.Spacing = 15
			c.Body.Pinned = true
		}),
	},
	"cloth": {
		"curtain": preset(func(c *Config) {
			c.Body.Shape = "cloth"
			c.Body.X, c.Body.Y = 250, 60
			c.Body.Cols, c.Body.Rows = 16, 10
			c.Body.Spacing = 20
			c.Body.Pinned = true
			c.World.Damping = 0.99
		}),
	},
}

func preset(apply func(*Config)) *Config {
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(shape, name string) *Config {
	shapePresets, ok := Presets[shape]
	if !ok {
		return nil
	}
	cfg, ok := shapePresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(shape string) []string {
	shapePresets, ok := Presets[shape]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(shapePresets))
	for name := range shapePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListShapes() []string {
	shapes := make([]string, 0, len(Presets))
	for shape := range Presets {
		shapes = append(shapes, shape)
	}
	sort.Strings(shapes)
	return shapes
}
