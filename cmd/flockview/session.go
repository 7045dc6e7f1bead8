package main

import (
	"context"
	"fmt"

	"github.com/san-kum/flockview/internal/bridge"
	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// messageLines is how many module log lines are kept for the HUD.
const messageLines = 64

type simulation interface {
	bridge.Simulation
	Close() error
}

// session is an initialized simulation with its snapshot buffer.
type session struct {
	cfg      *config.Config
	log      *zap.Logger
	sim      simulation
	buf      *bridge.Buffer
	messages *bridge.MessageLog
	source   string
}

// loadConfig layers defaults, the config file, the preset world and
// explicit flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
		cfg.World = p.World
	}

	flags := cmd.Flags()
	if flags.Changed("module") {
		cfg.Module.Path = modulePath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("dev") {
		cfg.Log.Development = devLog
	}
	return cfg, nil
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log, messages: bridge.NewMessageLog(messageLines)}
	if replayPath != "" {
		r, err := bridge.OpenReplay(replayPath, log)
		if err != nil {
			return nil, err
		}
		// Camera bounds must match the recorded world.
		cfg.World = r.World()
		s.sim, s.source = r, "replay"
	} else {
		w, err := bridge.LoadWASM(cmd.Context(), cfg.Module.Path, bridge.DebugSink{Logger: log, Messages: s.messages})
		if err != nil {
			return nil, err
		}
		s.sim, s.source = w, "wasm"
	}

	if err := s.start(); err != nil {
		s.Close()
		return nil, err
	}
	log.Info("simulation ready",
		zap.String("source", s.source),
		zap.Any("world", cfg.World),
		zap.Uint32("capacity", cfg.Buffer.Capacity),
	)
	return s, nil
}

func (s *session) start() error {
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := s.sim.Initialize(s.cfg.World); err != nil {
		return fmt.Errorf("initialize simulation: %w", err)
	}
	buf, err := bridge.NewBuffer(s.sim, s.cfg.Buffer.Capacity)
	if err != nil {
		return err
	}
	s.buf = buf
	return nil
}

func (s *session) Close() error {
	err := s.sim.Close()
	_ = s.log.Sync()
	return err
}

// finish treats an interrupted viewer as a clean exit.
func (s *session) finish(ctx context.Context, err error) error {
	if err == nil || ctx.Err() != nil {
		return nil
	}
	s.log.Error("viewer stopped", zap.Error(err))
	return fmt.Errorf("viewer: %w", err)
}
