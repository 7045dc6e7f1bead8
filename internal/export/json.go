package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/san-kum/flockview/internal/analysis"
	"github.com/san-kum/flockview/internal/config"
)

type SummaryData struct {
	Source       string             `json:"source"`
	Created      time.Time          `json:"created"`
	World        config.World       `json:"world"`
	Frames       int                `json:"frames"`
	Polarization []float64          `json:"polarization"`
	Spread       []float64          `json:"spread"`
	Centroids    [][2]float64       `json:"centroids"`
	Final        map[string]float64 `json:"final"`
}

// SummaryJSON writes per-frame flock measures of a recording as indented
// JSON.
func SummaryJSON(w io.Writer, source string, created time.Time, world config.World, frames []analysis.Summary) error {
	data := SummaryData{
		Source:       source,
		Created:      created,
		World:        world,
		Frames:       len(frames),
		Polarization: make([]float64, len(frames)),
		Spread:       make([]float64, len(frames)),
		Centroids:    make([][2]float64, len(frames)),
	}

	for i, f := range frames {
		data.Polarization[i] = f.Polarization
		data.Spread[i] = f.Spread
		data.Centroids[i] = [2]float64{f.Centroid.X, f.Centroid.Y}
	}
	if n := len(frames); n > 0 {
		last := frames[n-1]
		data.Final = map[string]float64{
			"agents":       float64(last.Count),
			"polarization": last.Polarization,
			"spread":       last.Spread,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
