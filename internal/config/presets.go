package config

import "sort"

// Presets are partial configurations applied on top of the defaults.
var Presets = map[string]func(*Config){
	"classic": func(c *Config) {},
	"smooth": func(c *Config) {
		c.FrameDelayMs = 33
		c.Terminal.Supersample = 12
	},
	"slow": func(c *Config) {
		c.FrameDelayMs = 100
	},
	"tight": func(c *Config) {
		c.Margin = 0
		c.Squishiness = 0
		c.LeftPad = 0
	},
	"offload": func(c *Config) {
		c.Offload = true
		c.Workers = 4
	},
	"retro": func(c *Config) {
		c.Terminal.Theme = "retro"
		c.Terminal.Supersample = 4
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply overlays a named preset onto c.
func (c *Config) Apply(name string) bool {
	apply, ok := Presets[name]
	if ok {
		apply(c)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
