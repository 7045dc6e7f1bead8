package config

import "sort"

var Presets = map[string]World{
	"default": {Width: 50, Height: 50, Seed: 0, Count: 10000},
	"sparse":  {Width: 50, Height: 50, Seed: 7, Count: 500},
	"dense":   {Width: 100, Height: 100, Seed: 1, Count: 40000},
	"wide":    {Width: 200, Height: 80, Seed: 3, Count: 30000},
	"tiny":    {Width: 20, Height: 20, Seed: 42, Count: 64},
}

// GetPreset returns the default configuration with the named world applied,
// or nil if no such preset exists.
func GetPreset(name string) *Config {
	world, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.World = world
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
