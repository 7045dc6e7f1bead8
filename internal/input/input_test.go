package input

import (
	"math"
	"testing"

	"github.com/san-kum/flockview/internal/camera"
	"github.com/san-kum/flockview/internal/config"
)

type recordingActions struct {
	toggles, steps int
}

func (a *recordingActions) TogglePause()  { a.toggles++ }
func (a *recordingActions) StepManually() { a.steps++ }

func newController() (*Controller, *camera.Controller, *recordingActions) {
	cfg := config.DefaultConfig()
	cam := camera.NewController(cfg.World, cfg.Camera)
	actions := &recordingActions{}
	return NewController(cam, actions, cfg.Input), cam, actions
}

func TestDragPansCamera(t *testing.T) {
	c, cam, _ := newController()
	start := cam.Camera()

	c.Handle(PointerDown{X: 100, Y: 100})
	if !cam.Dragging() {
		t.Fatal("expected drag to begin")
	}
	c.Handle(PointerMove{X: 110, Y: 100})

	v := cam.Camera().Velocity
	want := 10 * 0.01 * cam.SpeedFactor()
	if math.Abs(v.X-want) > 1e-12 || v.Y != 0 {
		t.Errorf("expected velocity (%f, 0), got (%f, %f)", want, v.X, v.Y)
	}

	c.Handle(PointerUp{})
	if cam.Dragging() {
		t.Error("expected drag to end")
	}
	if cam.Camera().Velocity != v {
		t.Error("pointer up changed velocity")
	}
	if cam.Camera().X != start.X {
		t.Error("camera moved before tick")
	}
}

func TestMoveWithoutDragIgnored(t *testing.T) {
	c, cam, _ := newController()
	if c.Handle(PointerMove{X: 5, Y: 5}) {
		t.Error("expected move without drag to be ignored")
	}
	if v := cam.Camera().Velocity; v != (camera.Vec2{}) {
		t.Errorf("expected zero velocity, got %+v", v)
	}
}

func TestWheelZooms(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		want  float64
	}{
		{"scroll up zooms in", -1, 45},
		{"scroll down clamps at max", 1, 50},
		{"large scroll clamps at min", -100, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, cam, _ := newController()
			if !c.Handle(Wheel{DeltaY: tt.delta}) {
				t.Error("expected wheel to be consumed")
			}
			if got := cam.Camera().Size; got != tt.want {
				t.Errorf("expected size %f, got %f", tt.want, got)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	c, _, actions := newController()

	c.HandleAll([]Event{Key{Code: KeySpace}, Key{Code: KeyEnter}, Key{Code: KeySpace}})
	if actions.toggles != 2 || actions.steps != 1 {
		t.Errorf("expected 2 toggles and 1 step, got %d and %d", actions.toggles, actions.steps)
	}
	if c.Handle(Key{Code: KeyUnknown}) {
		t.Error("expected unknown key to be ignored")
	}
}

func TestKeyCodeString(t *testing.T) {
	if KeySpace.String() != "space" || KeyEnter.String() != "enter" || KeyCode(42).String() != "unknown" {
		t.Error("unexpected key names")
	}
}
