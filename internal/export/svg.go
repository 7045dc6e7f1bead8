// Package export writes flock frames and recordings as SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/flockview/internal/analysis"
	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/snapshot"
)

const (
	background = "#0a0a0a"
	bodyFill   = "#add8e6"
	headStroke = "#00008b"
)

// scaler maps world units onto an SVG of the given width. World y grows
// downward, as on screen.
type scaler struct {
	k             float64
	width, height float64
}

func newScaler(world config.World, width int) scaler {
	k := float64(width) / world.Width
	return scaler{k: k, width: float64(width), height: world.Height * k}
}

func (s scaler) header(sb *strings.Builder) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.width, s.height, s.width, s.height, background))
}

// FrameSVG draws every agent of view as a disc with a heading tick. radius
// is in world units.
func FrameSVG(w io.Writer, view snapshot.View, world config.World, width int, radius float64) error {
	if world.Width <= 0 || world.Height <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %gx%g", world.Width, world.Height)
	}
	s := newScaler(world, width)
	r := radius * s.k

	var sb strings.Builder
	s.header(&sb)
	sb.WriteString(fmt.Sprintf(`<g fill="%s" stroke="%s" stroke-width="%.2f">
`, bodyFill, headStroke, r*0.4))

	view.Each(func(_ int, rec snapshot.Record) bool {
		cx, cy := float64(rec.X)*s.k, float64(rec.Y)*s.k
		sin, cos := math.Sincos(float64(rec.Rotation))
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f"/><line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, cx, cy, r, cx, cy, cx+cos*r*2, cy+sin*r*2))
		return true
	})

	sb.WriteString("</g>\n</svg>")
	_, err := io.WriteString(w, sb.String())
	return err
}

// PathSVG draws points, e.g. the flock centroid over a recording, as one
// polyline in world coordinates.
func PathSVG(w io.Writer, points []analysis.Point, world config.World, width int, strokeColor string) error {
	if len(points) < 2 {
		return fmt.Errorf("path needs at least 2 points, got %d", len(points))
	}
	if world.Width <= 0 || world.Height <= 0 {
		return fmt.Errorf("world dimensions must be positive, got %gx%g", world.Width, world.Height)
	}
	s := newScaler(world, width)

	var sb strings.Builder
	s.header(&sb)
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, p := range points {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X*s.k, p.Y*s.k))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X*s.k, p.Y*s.k))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	_, err := io.WriteString(w, sb.String())
	return err
}
