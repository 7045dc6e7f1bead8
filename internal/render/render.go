// Package render draws a flock snapshot with one instanced draw call.
//
// The Renderer owns the ordering of a frame; the GPU work itself goes
// through a [Backend]. The opengl subpackage provides the real one.
package render

import (
	"errors"
	"fmt"

	"github.com/san-kum/flockview/internal/camera"
	"github.com/san-kum/flockview/internal/snapshot"
)

var ErrNotInitialized = errors.New("render: renderer not initialized")

// ShaderError carries the driver's info log for a failed compile or link.
type ShaderError struct {
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("render: %s failed: %s", e.Stage, e.Log)
}

// Surface is the drawable area, in pixels.
type Surface interface {
	DrawSize() (width, height int)
}

// Backend performs the GPU side of a frame.
type Backend interface {
	// Setup compiles p, resolves its attributes and uniforms, uploads the
	// quad and sprite and configures instancing.
	Setup(p Program) error

	// Begin sets the viewport and clears to transparent black with alpha
	// blending on and depth testing off.
	Begin(width, height int)

	SetView(m [16]float32)

	// UploadInstances replaces the instance buffer with raw.
	UploadInstances(raw []byte)

	DrawInstanced(vertices, instances int)

	// Finish releases pipeline bindings so other drawing can follow.
	Finish()
}

type Renderer struct {
	backend Backend
	surface Surface
	ready   bool
}

func New(backend Backend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Init(surface Surface, sprite Sprite) error {
	if err := sprite.Validate(); err != nil {
		return err
	}
	if err := r.backend.Setup(AgentProgram(sprite)); err != nil {
		return err
	}
	r.surface = surface
	r.ready = true
	return nil
}

// Draw renders the agents of view in record order. Nothing is drawn while
// the surface has no area.
func (r *Renderer) Draw(view snapshot.View, cam camera.Camera) error {
	if !r.ready {
		return ErrNotInitialized
	}
	w, h := r.surface.DrawSize()
	if w <= 0 || h <= 0 {
		return nil
	}

	r.backend.Begin(w, h)
	aspect := float64(w) / float64(h)
	r.backend.SetView(camera.ViewTransform(cam, aspect).Matrix())
	r.backend.UploadInstances(view.Raw())
	r.backend.DrawInstanced(QuadVertices, view.Count())
	r.backend.Finish()
	return nil
}
