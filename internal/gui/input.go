package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/flockview/internal/input"
)

// Poll turns this frame's raylib input state into events. Raylib reports
// wheel up as positive; events use scroll-down positive.
func (a *App) Poll() []input.Event {
	var events []input.Event

	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
	}

	pos := rl.GetMousePosition()
	x, y := float64(pos.X), float64(pos.Y)
	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		events = append(events, input.PointerDown{X: x, Y: y})
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		events = append(events, input.PointerUp{})
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			events = append(events, input.PointerMove{X: x, Y: y})
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		events = append(events, input.Wheel{DeltaY: -float64(wheel)})
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		events = append(events, input.Key{Code: input.KeySpace})
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		events = append(events, input.Key{Code: input.KeyEnter})
	}
	return events
}
