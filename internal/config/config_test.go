package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.World.Width != 50 || cfg.World.Height != 50 {
		t.Errorf("expected 50x50 world, got %gx%g", cfg.World.Width, cfg.World.Height)
	}
	if cfg.World.Count != 10000 {
		t.Errorf("expected 10000 agents, got %d", cfg.World.Count)
	}
	if cfg.Buffer.Capacity != 16*1024*1024 {
		t.Errorf("expected 16 MiB buffer, got %d", cfg.Buffer.Capacity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("sparse")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.World.Count != 500 {
		t.Errorf("expected 500 agents, got %d", cfg.World.Count)
	}
	if cfg.Camera.Friction != DefaultFriction {
		t.Errorf("expected default friction, got %g", cfg.Camera.Friction)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.World.Width = 0 }},
		{"negative height", func(c *Config) { c.World.Height = -1 }},
		{"world smaller than min zoom", func(c *Config) { c.World.Width, c.World.Height = 10, 5 }},
		{"buffer too small", func(c *Config) { c.Buffer.Capacity = 4 + 12*c.World.Count - 1 }},
		{"friction above one", func(c *Config) { c.Camera.Friction = 1.5 }},
		{"zero batch", func(c *Config) { c.Input.BatchSteps = 0 }},
		{"zero wheel step", func(c *Config) { c.Input.WheelStep = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestValidateExactCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Buffer.Capacity = 4 + 12*cfg.World.Count
	if err := cfg.Validate(); err != nil {
		t.Errorf("exact capacity should validate: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flockview.yaml")
	cfg := DefaultConfig()
	cfg.World.Seed = 99
	cfg.Log.Level = "debug"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.World.Seed != 99 {
		t.Errorf("expected seed 99, got %d", loaded.World.Seed)
	}
	if loaded.Log.Level != "debug" {
		t.Errorf("expected level debug, got %s", loaded.Log.Level)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("world:\n  count: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.World.Count != 12 {
		t.Errorf("expected count 12, got %d", cfg.World.Count)
	}
	if cfg.World.Width != DefaultWidth {
		t.Errorf("expected default width, got %g", cfg.World.Width)
	}
	if cfg.Input.BatchSteps != DefaultBatch {
		t.Errorf("expected default batch steps, got %d", cfg.Input.BatchSteps)
	}
}
