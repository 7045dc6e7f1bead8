package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// hudMessages is how many module log lines the HUD shows.
const hudMessages = 6

func (a *App) DrawHUD() {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	stats := a.Loop.Stats()

	a.drawText("flockview", 20, 20, 24, colTitle)
	a.drawText(fmt.Sprintf(":: %s  %d agents", a.Source, stats.Count), 150, 24, 16, colLabel)

	status := "RUNNING"
	col := colTitle
	if a.Loop.Paused() {
		status = "PAUSED"
		col = colFaint
	}
	a.drawText(status, w-110, 20, 16, col)

	cam := a.Loop.Camera().Camera()
	a.drawText(fmt.Sprintf("cam %.1f, %.1f  size %.1f", cam.X, cam.Y, cam.Size), 20, 50, 14, colFaint)
	if stats.Dropped > 0 {
		a.drawText(fmt.Sprintf("%d frames dropped", stats.Dropped), 20, 68, 14, rl.Red)
	}

	a.DrawMessages(20, h-60)

	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 20, h-30, 14, colFaint)
	a.drawText("[DRAG] PAN  [WHEEL] ZOOM  [SPACE] PAUSE  [ENTER] STEP  [Q] QUIT", 120, h-30, 14, colFaint)
}

// DrawMessages draws the newest module log lines upward from bottom.
func (a *App) DrawMessages(x, bottom int) {
	if a.Messages == nil {
		return
	}
	lines := a.Messages.Lines()
	if len(lines) > hudMessages {
		lines = lines[len(lines)-hudMessages:]
	}
	y := bottom - 16*len(lines)
	for _, line := range lines {
		a.drawText(line, x, y, 14, colMessage)
		y += 16
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
