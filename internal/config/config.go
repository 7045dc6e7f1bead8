package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/flockview/internal/snapshot"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 50.0
	DefaultHeight     = 50.0
	DefaultCount      = 10000
	DefaultCapacity   = 16 * 1024 * 1024
	DefaultModulePath = "zig-out/lib/boid-sim.wasm"

	DefaultMinSize   = 10.0
	DefaultFriction  = 0.93
	DefaultDragGain  = 0.01
	DefaultMinSpeed  = 0.1
	DefaultWheelStep = 5.0
	DefaultBatch     = 10
)

// Config is the full viewer configuration as stored in YAML.
type Config struct {
	World  World        `yaml:"world"`
	Buffer BufferConfig `yaml:"buffer"`
	Module ModuleConfig `yaml:"module"`
	Window WindowConfig `yaml:"window"`
	Camera CameraConfig `yaml:"camera"`
	Input  InputConfig  `yaml:"input"`
	Sprite SpriteConfig `yaml:"sprite"`
	Log    LogConfig    `yaml:"log"`
}

// World is handed to the simulation exactly once and never changes after.
type World struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Seed   int64   `yaml:"seed" json:"seed"`
	Count  uint32  `yaml:"count" json:"count"`
}

// MaxExtent is the largest camera half-extent that still makes sense for
// the world.
func (w World) MaxExtent() float64 {
	return math.Max(w.Width, w.Height)
}

// BufferConfig sizes the single snapshot buffer, in bytes.
type BufferConfig struct {
	Capacity uint32 `yaml:"capacity"`
}

// ModuleConfig locates the compiled simulation module.
type ModuleConfig struct {
	Path string `yaml:"path"`
}

// WindowConfig is the initial desktop window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	FPS    int    `yaml:"fps"`
}

// CameraConfig tunes zoom limits, coasting friction and pan sensitivity.
type CameraConfig struct {
	MinSize  float64 `yaml:"min_size"`
	Friction float64 `yaml:"friction"`
	DragGain float64 `yaml:"drag_gain"`
	MinSpeed float64 `yaml:"min_speed"`
}

// InputConfig sets wheel zoom per notch and the manual step batch.
type InputConfig struct {
	WheelStep  float64 `yaml:"wheel_step"`
	BatchSteps int     `yaml:"batch_steps"`
}

// SpriteConfig describes the agent texture in pixels; AntennaSpacing is
// in radians.
type SpriteConfig struct {
	Size           int     `yaml:"size"`
	Radius         float64 `yaml:"radius"`
	AntennaSpacing float64 `yaml:"antenna_spacing"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns a 50x50 world of 10000 agents with a 16 MiB buffer.
func DefaultConfig() *Config {
	return &Config{
		World: World{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Count:  DefaultCount,
		},
		Buffer: BufferConfig{Capacity: DefaultCapacity},
		Module: ModuleConfig{Path: DefaultModulePath},
		Window: WindowConfig{Width: 700, Height: 700, Title: "flockview", FPS: 60},
		Camera: CameraConfig{
			MinSize:  DefaultMinSize,
			Friction: DefaultFriction,
			DragGain: DefaultDragGain,
			MinSpeed: DefaultMinSpeed,
		},
		Input: InputConfig{WheelStep: DefaultWheelStep, BatchSteps: DefaultBatch},
		Sprite: SpriteConfig{
			Size:           256,
			Radius:         70,
			AntennaSpacing: math.Pi / 6,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects worlds, camera tuning and buffer sizes the viewer cannot
// run with.
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %gx%g", c.World.Width, c.World.Height)
	}
	if c.Camera.MinSize <= 0 {
		return fmt.Errorf("camera min_size must be positive, got %g", c.Camera.MinSize)
	}
	if c.World.MaxExtent() <= c.Camera.MinSize {
		return fmt.Errorf("world extent %g must exceed camera min_size %g", c.World.MaxExtent(), c.Camera.MinSize)
	}
	if c.Camera.Friction <= 0 || c.Camera.Friction > 1 {
		return fmt.Errorf("camera friction must be in (0, 1], got %g", c.Camera.Friction)
	}
	need := uint64(snapshot.Size(int(c.World.Count)))
	if uint64(c.Buffer.Capacity) < need {
		return fmt.Errorf("buffer capacity %d cannot hold %d agents (%d bytes)", c.Buffer.Capacity, c.World.Count, need)
	}
	if c.Input.BatchSteps <= 0 {
		return fmt.Errorf("batch_steps must be positive, got %d", c.Input.BatchSteps)
	}
	if c.Input.WheelStep <= 0 {
		return fmt.Errorf("wheel_step must be positive, got %g", c.Input.WheelStep)
	}
	return nil
}
