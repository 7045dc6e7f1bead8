// Package frameloop drives one serialize, decode, camera, draw, step
// iteration per display refresh and owns the pause state.
//
// Everything here runs on one goroutine. A tick never overlaps another,
// which is what makes reusing the single snapshot buffer safe.
package frameloop

import (
	"context"
	"fmt"

	"github.com/san-kum/flockview/internal/bridge"
	"github.com/san-kum/flockview/internal/camera"
	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/input"
	"github.com/san-kum/flockview/internal/snapshot"
	"go.uber.org/zap"
)

// Renderer draws one decoded snapshot.
type Renderer interface {
	Draw(view snapshot.View, cam camera.Camera) error
}

// Host is the presentation surface the loop runs inside.
type Host interface {
	ShouldClose() bool
	BeginFrame()
	// Poll returns the input gathered since the last call.
	Poll() []input.Event
	EndFrame()
}

type Stats struct {
	Frames  uint64
	Dropped uint64
	Steps   uint64
	// Count is the agent count of the current frame, 0 when its snapshot
	// could not be read.
	Count int
}

type App struct {
	buf      *bridge.Buffer
	cam      *camera.Controller
	renderer Renderer
	input    *input.Controller
	log      *zap.Logger

	paused bool
	batch  int
	stats  Stats
}

var _ input.Actions = (*App)(nil)

func New(buf *bridge.Buffer, cam *camera.Controller, renderer Renderer, cfg config.InputConfig, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		buf:      buf,
		cam:      cam,
		renderer: renderer,
		log:      log,
		batch:    cfg.BatchSteps,
	}
	a.input = input.NewController(cam, a, cfg)
	return a
}

func (a *App) Camera() *camera.Controller { return a.cam }
func (a *App) Input() *input.Controller   { return a.input }
func (a *App) Paused() bool               { return a.paused }
func (a *App) Stats() Stats               { return a.stats }

func (a *App) TogglePause() {
	a.paused = !a.paused
	a.log.Debug("pause toggled", zap.Bool("paused", a.paused))
}

// StepManually advances the simulation by one batch while paused and then
// restores the pause state that was in effect before the call.
func (a *App) StepManually() {
	prev := a.paused
	a.paused = true
	for i := 0; i < a.batch; i++ {
		if err := a.buf.Advance(); err != nil {
			a.log.Error("manual step failed", zap.Int("step", i), zap.Error(err))
			break
		}
		a.stats.Steps++
	}
	a.paused = prev
}

// Tick runs one frame. A frame whose snapshot cannot be read or drawn is
// logged and skipped; the camera and simulation still advance. The
// returned error is a simulation step failure.
func (a *App) Tick() error {
	a.stats.Frames++

	view, err := a.snapshot()
	a.stats.Count = view.Count()
	a.cam.Tick()
	if err == nil {
		err = a.renderer.Draw(view, a.cam.Camera())
	}
	if err != nil {
		a.stats.Dropped++
		a.log.Warn("frame dropped", zap.Uint64("frame", a.stats.Frames), zap.Error(err))
	}

	if a.paused {
		return nil
	}
	if err := a.buf.Advance(); err != nil {
		return fmt.Errorf("step: %w", err)
	}
	a.stats.Steps++
	return nil
}

func (a *App) snapshot() (snapshot.View, error) {
	lease, err := a.buf.Serialize()
	if err != nil {
		return snapshot.View{}, fmt.Errorf("serialize: %w", err)
	}
	b, err := lease.Bytes()
	if err != nil {
		return snapshot.View{}, err
	}
	view, err := snapshot.Decode(b)
	if err != nil {
		return snapshot.View{}, fmt.Errorf("decode: %w", err)
	}
	return view, nil
}

// Run ticks once per host frame until the host closes, ctx is done or the
// simulation fails to step. ctx is only checked between ticks.
func (a *App) Run(ctx context.Context, host Host) error {
	for !host.ShouldClose() {
		if err := ctx.Err(); err != nil {
			return err
		}
		host.BeginFrame()
		a.input.HandleAll(host.Poll())
		err := a.Tick()
		host.EndFrame()
		if err != nil {
			return err
		}
	}
	a.log.Info("loop finished",
		zap.Uint64("frames", a.stats.Frames),
		zap.Uint64("dropped", a.stats.Dropped),
		zap.Uint64("steps", a.stats.Steps),
	)
	return nil
}
