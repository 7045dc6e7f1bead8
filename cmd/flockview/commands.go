package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/flockview/internal/analysis"
	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/export"
	"github.com/san-kum/flockview/internal/record"
	"github.com/san-kum/flockview/internal/snapshot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runRecord(cmd *cobra.Command, args []string) error {
	if frames <= 0 || stride <= 0 {
		return fmt.Errorf("frames and stride must be positive")
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := record.Create(outPath, s.cfg.World)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			s.log.Warn("recording interrupted", zap.Int("frames", w.Frames()))
			break
		}
		lease, err := s.buf.Serialize()
		if err != nil {
			w.Close()
			return fmt.Errorf("frame %d: %w", i, err)
		}
		b, err := lease.Bytes()
		if err == nil {
			_, err = snapshot.Decode(b)
		}
		if err != nil {
			w.Close()
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := w.WriteFrame(b); err != nil {
			w.Close()
			return err
		}
		for j := 0; j < stride; j++ {
			if err := s.buf.Advance(); err != nil {
				w.Close()
				return fmt.Errorf("step after frame %d: %w", i, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return err
	}
	s.log.Info("recording written", zap.String("path", outPath), zap.Int("frames", w.Frames()))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", w.Frames(), outPath)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	r, err := record.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	var pol, spread []float64
	var path []analysis.Point
	var summaries []analysis.Summary
	var last analysis.Summary
	var lastFrame []byte
	for {
		b, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		view, err := snapshot.Decode(b)
		if err != nil {
			return fmt.Errorf("frame %d: %w", len(pol), err)
		}
		last = analysis.Summarize(view)
		pol = append(pol, last.Polarization)
		spread = append(spread, last.Spread)
		path = append(path, last.Centroid)
		summaries = append(summaries, last)
		lastFrame = append(lastFrame[:0], b...)
	}

	out := cmd.OutOrStdout()
	h := r.Header()
	fmt.Fprintf(out, "recording: %s\n", args[0])
	fmt.Fprintf(out, "created: %s\n", h.Created.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "world: %gx%g seed %d, %d agents\n", h.World.Width, h.World.Height, h.World.Seed, h.World.Count)
	fmt.Fprintf(out, "frames: %d\n\n", len(pol))

	if len(pol) == 0 {
		return fmt.Errorf("no frames to inspect")
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{pol, "polarization"},
		{spread, "spread (rms distance from centroid)"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(series.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LAST FRAME\tAGENTS\tPOLARIZATION\tCENTROID\tSPREAD")
	fmt.Fprintf(w, "%d\t%d\t%.3f\t%.2f, %.2f\t%.2f\n",
		len(pol)-1, last.Count, last.Polarization, last.Centroid.X, last.Centroid.Y, last.Spread)
	if err := w.Flush(); err != nil {
		return err
	}

	if jsonPath != "" {
		if err := writeFile(jsonPath, func(f io.Writer) error {
			return export.SummaryJSON(f, args[0], h.Created, h.World, summaries)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nwrote %s\n", jsonPath)
	}

	if svgPrefix == "" {
		return nil
	}
	view, err := snapshot.Decode(lastFrame)
	if err != nil {
		return err
	}
	sprite := config.DefaultConfig().Sprite
	radius := sprite.Radius / (float64(sprite.Size) / 2)
	if err := writeFile(svgPrefix+"-frame.svg", func(f io.Writer) error {
		return export.FrameSVG(f, view, h.World, svgWidth, radius)
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nwrote %s-frame.svg\n", svgPrefix)

	if len(path) < 2 {
		return nil
	}
	if err := writeFile(svgPrefix+"-centroid.svg", func(f io.Writer) error {
		return export.PathSVG(f, path, h.World, svgWidth, "#ff5555")
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s-centroid.svg\n", svgPrefix)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tWIDTH\tHEIGHT\tAGENTS\tSEED")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%g\t%g\t%d\t%d\n", name, p.Width, p.Height, p.Count, p.Seed)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "flockview.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
