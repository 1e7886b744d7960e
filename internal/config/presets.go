package config

import "sort"

func preset(variant string, edit func(*Config)) *Config {
	c := DefaultConfig()
	c.Variant = variant
	edit(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"standard": {
		"soup": preset("standard", func(c *Config) {
			c.Init.Density = 0.3
		}),
		"glider": preset("standard", func(c *Config) {
			c.Rows, c.Cols = 20, 20
			c.Generations = 80
			c.Init = InitConfig{Pattern: "glider", Row: 1, Col: 1}
		}),
		"r_pentomino": preset("standard", func(c *Config) {
			c.Rows, c.Cols = 80, 120
			c.Generations = 1100
			c.Boundary = "clamped"
			c.Init = InitConfig{Pattern: "r_pentomino", Row: 38, Col: 58}
		}),
	},
	"stochastic": {
		"mild": preset("stochastic", func(c *Config) {
			c.Rules.PDeath = 0.02
		}),
		"harsh": preset("stochastic", func(c *Config) {
			c.Rules.PDeath = 0.15
			c.Run.StopOnExtinction = true
		}),
	},
	"weighted": {
		"isotropic": preset("weighted", func(c *Config) {
			c.Rules.Mask = "isotropic"
		}),
		"hex": preset("weighted", func(c *Config) {
			c.Rules.Mask = "hex1"
			c.Init.Density = 0.35
		}),
		"sampled": preset("weighted", func(c *Config) {
			c.Rules.Mask = "cross"
			c.Rules.DeathSampling = true
			c.Rules.PDeath = 0.6
		}),
	},
	"sacrifice": {
		"crowded": preset("sacrifice", func(c *Config) {
			c.Rules.SacrificeN = 4
			c.Init.Density = 0.4
		}),
		"lonely": preset("sacrifice", func(c *Config) {
			c.Rules.SacrificeN = 1
		}),
	},
	"selfish": {
		"half": preset("selfish", func(c *Config) {
			c.Rules.Selfishness = 0.5
		}),
		"predators": preset("selfish", func(c *Config) {
			c.Rules.Selfishness = 0.9
			c.Rules.KillRing = 8
			c.Init.Density = 0.35
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(variant, name string) *Config {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	cfg, ok := variantPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(variant string) []string {
	variantPresets, ok := Presets[variant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variantPresets))
	for name := range variantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
