package analysis

import (
	"math"

	"github.com/san-kum/flockview/internal/snapshot"
)

type Point struct {
	X, Y float64
}

// Polarization is the length of the mean heading unit vector. An empty
// view has polarization 0.
func Polarization(view snapshot.View) float64 {
	n := view.Count()
	if n == 0 {
		return 0
	}
	var sx, sy float64
	view.Each(func(_ int, r snapshot.Record) bool {
		sin, cos := math.Sincos(float64(r.Rotation))
		sx += cos
		sy += sin
		return true
	})
	return math.Hypot(sx, sy) / float64(n)
}

// Centroid returns the mean position, or the origin for an empty view.
func Centroid(view snapshot.View) Point {
	n := view.Count()
	if n == 0 {
		return Point{}
	}
	var sx, sy float64
	view.Each(func(_ int, r snapshot.Record) bool {
		sx += float64(r.X)
		sy += float64(r.Y)
		return true
	})
	return Point{X: sx / float64(n), Y: sy / float64(n)}
}

// Spread is the root mean square distance of agents from the centroid.
func Spread(view snapshot.View) float64 {
	n := view.Count()
	if n == 0 {
		return 0
	}
	c := Centroid(view)
	var sum float64
	view.Each(func(_ int, r snapshot.Record) bool {
		dx := float64(r.X) - c.X
		dy := float64(r.Y) - c.Y
		sum += dx*dx + dy*dy
		return true
	})
	return math.Sqrt(sum / float64(n))
}

// Summary holds all measures for one frame.
type Summary struct {
	Count        int
	Polarization float64
	Centroid     Point
	Spread       float64
}

func Summarize(view snapshot.View) Summary {
	return Summary{
		Count:        view.Count(),
		Polarization: Polarization(view),
		Centroid:     Centroid(view),
		Spread:       Spread(view),
	}
}
