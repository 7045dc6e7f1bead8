package tui

import (
	"math"

	"github.com/san-kum/flockview/internal/analysis"
	"github.com/san-kum/flockview/internal/camera"
	"github.com/san-kum/flockview/internal/snapshot"
)

// headingDots is the length of a heading tick in dots.
const headingDots = 3

// Renderer rasterizes snapshots onto a braille canvas through the same view
// transform the GPU path uses. Dots are treated as square.
type Renderer struct {
	Canvas *Canvas
	// Headings draws a short tick in each agent's direction.
	Headings bool
	// Polarization records the flock alignment of every drawn frame.
	Polarization *analysis.Series
}

func NewRenderer(cols, rows, history int) *Renderer {
	return &Renderer{
		Canvas:       NewCanvas(cols, rows),
		Polarization: analysis.NewSeries(history),
	}
}

// Resize replaces the canvas when the terminal size changes.
func (r *Renderer) Resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	if r.Canvas.Width == cols && r.Canvas.Height == rows {
		return
	}
	r.Canvas = NewCanvas(cols, rows)
}

func (r *Renderer) Draw(view snapshot.View, cam camera.Camera) error {
	r.Canvas.Clear()
	w, h := r.Canvas.Dots()
	t := camera.ViewTransform(cam, float64(w)/float64(h))

	view.Each(func(_ int, rec snapshot.Record) bool {
		cx, cy := t.Apply(float64(rec.X), float64(rec.Y))
		x, y := toDots(cx, cy, w, h)
		r.Canvas.Set(x, y)
		if r.Headings {
			sin, cos := math.Sincos(float64(rec.Rotation))
			hx, hy := t.Apply(float64(rec.X)+cos*cam.Size*0.05, float64(rec.Y)+sin*cam.Size*0.05)
			ex, ey := toDots(hx, hy, w, h)
			dx, dy := ex-x, ey-y
			if n := math.Hypot(float64(dx), float64(dy)); n > headingDots {
				ex = x + int(float64(dx)/n*headingDots)
				ey = y + int(float64(dy)/n*headingDots)
			}
			r.Canvas.DrawLine(x, y, ex, ey)
		}
		return true
	})

	r.Polarization.Push(analysis.Polarization(view))
	return nil
}

// toDots maps clip space to dot coordinates, +y up in clip space and down
// on the canvas.
func toDots(cx, cy float64, w, h int) (int, int) {
	x := (cx + 1) / 2 * float64(w)
	y := (1 - cy) / 2 * float64(h)
	return int(math.Floor(x)), int(math.Floor(y))
}
