// Package camera holds the 2D view state over the flock world and the
// pan/zoom/inertia rules that move it.
package camera

import (
	"math"

	"github.com/san-kum/flockview/internal/config"
)

// Vec2 is a per-frame displacement in world units.
type Vec2 struct {
	X, Y float64
}

// Camera is an orthographic view centered on (X, Y). Size is the vertical
// half-extent of the visible area in world units.
type Camera struct {
	X, Y     float64
	Size     float64
	Velocity Vec2
}

type drag struct {
	originX, originY float64
}

// Controller owns a Camera and keeps it inside the world bounds.
type Controller struct {
	cam    Camera
	world  config.World
	tuning config.CameraConfig
	drag   *drag
}

// NewController starts centered on the world at maximum extent.
func NewController(world config.World, tuning config.CameraConfig) *Controller {
	return &Controller{
		cam: Camera{
			X:    world.Width / 2,
			Y:    world.Height / 2,
			Size: world.MaxExtent(),
		},
		world:  world,
		tuning: tuning,
	}
}

// Camera returns a copy of the current view state.
func (c *Controller) Camera() Camera { return c.cam }

// Dragging reports whether a pointer drag is in progress.
func (c *Controller) Dragging() bool { return c.drag != nil }

// MinSize is the closest zoom.
func (c *Controller) MinSize() float64 { return c.tuning.MinSize }

// MaxSize is the farthest zoom, the larger world dimension.
func (c *Controller) MaxSize() float64 { return c.world.MaxExtent() }

// SpeedFactor scales pan sensitivity linearly with zoom: MinSpeed when fully
// zoomed in, 1 when fully zoomed out.
func (c *Controller) SpeedFactor() float64 {
	zoom := (c.cam.Size - c.MinSize()) / (c.MaxSize() - c.MinSize())
	return c.tuning.MinSpeed + (1-c.tuning.MinSpeed)*zoom
}

// BeginDrag anchors a drag at the pointer position and stops any coasting.
func (c *Controller) BeginDrag(px, py float64) {
	c.drag = &drag{originX: px, originY: py}
	c.cam.Velocity = Vec2{}
}

// UpdateDrag sets velocity from the pointer offset to the drag origin. It
// is a no-op when no drag is active.
func (c *Controller) UpdateDrag(px, py float64) {
	if c.drag == nil {
		return
	}
	gain := c.tuning.DragGain * c.SpeedFactor()
	c.cam.Velocity = Vec2{
		X: (px - c.drag.originX) * gain,
		Y: (py - c.drag.originY) * gain,
	}
}

// EndDrag leaves velocity untouched so the camera coasts to rest.
func (c *Controller) EndDrag() {
	c.drag = nil
}

// Zoom changes Size by deltaY immediately, clamped to [MinSize, MaxSize].
func (c *Controller) Zoom(deltaY float64) {
	c.cam.Size = clamp(c.cam.Size+deltaY, c.MinSize(), c.MaxSize())
}

// Tick integrates one frame of camera motion.
func (c *Controller) Tick() {
	c.cam.X = clamp(c.cam.X+c.cam.Velocity.X, 0, c.world.Width)
	c.cam.Y = clamp(c.cam.Y+c.cam.Velocity.Y, 0, c.world.Height)

	if c.drag == nil {
		c.cam.Velocity.X *= c.tuning.Friction
		c.cam.Velocity.Y *= c.tuning.Friction
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
