package gui

import (
	"context"
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/flockview/internal/bridge"
	"github.com/san-kum/flockview/internal/camera"
	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/frameloop"
	"github.com/san-kum/flockview/internal/render"
	"github.com/san-kum/flockview/internal/render/opengl"
	"go.uber.org/zap"
)

// HUD palette, grays on a near-black background so the agents stand out.
var (
	colBackground = rl.NewColor(10, 10, 10, 255)
	colTitle      = rl.RayWhite
	colLabel      = rl.NewColor(140, 140, 140, 255)
	colFaint      = rl.NewColor(70, 70, 70, 255)
	colMessage    = rl.NewColor(120, 190, 210, 255)
)

// GL calls must stay on the thread that created the context.
func init() {
	runtime.LockOSThread()
}

type Options struct {
	Config   *config.Config
	Buffer   *bridge.Buffer
	Messages *bridge.MessageLog
	Logger   *zap.Logger
	// Source names where snapshots come from, shown in the HUD.
	Source string
}

// App is the desktop host for the frame loop.
type App struct {
	Loop     *frameloop.App
	Messages *bridge.MessageLog
	Source   string
	Font     rl.Font

	quit bool
}

var _ frameloop.Host = (*App)(nil)

func initWindow(w config.WindowConfig) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	rl.SetTargetFPS(int32(w.FPS))
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to raylib's built-in font.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

type surface struct{}

func (surface) DrawSize() (int, int) {
	return rl.GetRenderWidth(), rl.GetRenderHeight()
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, opts Options) error {
	initWindow(opts.Config.Window)
	defer rl.CloseWindow()

	backend := opengl.New()
	defer backend.Close()

	renderer := render.New(backend)
	if err := renderer.Init(surface{}, agentSprite(opts.Config.Sprite)); err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	cam := camera.NewController(opts.Config.World, opts.Config.Camera)
	app := &App{
		Loop:     frameloop.New(opts.Buffer, cam, renderer, opts.Config.Input, opts.Logger),
		Messages: opts.Messages,
		Source:   opts.Source,
		Font:     loadFont(),
	}
	return app.Loop.Run(ctx, app)
}

func (a *App) ShouldClose() bool {
	return a.quit || rl.WindowShouldClose()
}

// BeginFrame flushes raylib's pending batch so the agent pass draws on a
// clean GL state.
func (a *App) BeginFrame() {
	rl.BeginDrawing()
	rl.ClearBackground(colBackground)
	rl.DrawRenderBatchActive()
}

func (a *App) EndFrame() {
	a.DrawHUD()
	if a.Loop.Camera().Dragging() {
		rl.SetMouseCursor(rl.MouseCursorResizeAll)
	} else {
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
	rl.EndDrawing()
}
