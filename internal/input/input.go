// Package input maps host-neutral pointer, wheel and key events onto the
// camera and the application's pause controls.
package input

import (
	"github.com/san-kum/flockview/internal/camera"
	"github.com/san-kum/flockview/internal/config"
)

// Event is one host input occurrence. The set is closed.
type Event interface {
	isEvent()
}

// PointerDown starts a drag. Pointer coordinates are in surface pixels.
type PointerDown struct{ X, Y float64 }

// PointerMove reports the pointer position; it only matters while dragging.
type PointerMove struct{ X, Y float64 }

// PointerUp ends a drag.
type PointerUp struct{}

// Wheel carries scroll notches. Positive DeltaY scrolls down.
type Wheel struct{ DeltaY float64 }

// Key is a key press.
type Key struct{ Code KeyCode }

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (Wheel) isEvent()       {}
func (Key) isEvent()         {}

// KeyCode names the keys the viewer reacts to.
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeySpace
	KeyEnter
)

func (k KeyCode) String() string {
	switch k {
	case KeySpace:
		return "space"
	case KeyEnter:
		return "enter"
	default:
		return "unknown"
	}
}

// Actions receives the requests that are not camera moves.
type Actions interface {
	TogglePause()
	StepManually()
}

// Controller routes events to the camera and to Actions.
type Controller struct {
	cam       *camera.Controller
	actions   Actions
	wheelStep float64
}

// NewController scales wheel notches by cfg.WheelStep.
func NewController(cam *camera.Controller, actions Actions, cfg config.InputConfig) *Controller {
	return &Controller{cam: cam, actions: actions, wheelStep: cfg.WheelStep}
}

// Handle applies ev and reports whether it was consumed. Consumed wheel
// events should not scroll the host.
func (c *Controller) Handle(ev Event) bool {
	switch e := ev.(type) {
	case PointerDown:
		c.cam.BeginDrag(e.X, e.Y)
	case PointerMove:
		if !c.cam.Dragging() {
			return false
		}
		c.cam.UpdateDrag(e.X, e.Y)
	case PointerUp:
		c.cam.EndDrag()
	case Wheel:
		c.cam.Zoom(e.DeltaY * c.wheelStep)
	case Key:
		switch e.Code {
		case KeySpace:
			c.actions.TogglePause()
		case KeyEnter:
			c.actions.StepManually()
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// HandleAll applies events in order.
func (c *Controller) HandleAll(events []Event) {
	for _, ev := range events {
		c.Handle(ev)
	}
}
