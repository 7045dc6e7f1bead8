package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/record"
	"github.com/san-kum/flockview/internal/snapshot"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatalf("presets failed: %v", err)
	}
	for _, name := range config.ListPresets() {
		if !strings.Contains(out, name) {
			t.Errorf("expected preset %s in output", name)
		}
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flock.yaml")

	if _, err := execute(t, "config", "init", path, "--preset", "tiny"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.World != config.Presets["tiny"] {
		t.Errorf("expected tiny world, got %+v", cfg.World)
	}

	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("expected refusal to overwrite")
	}
	if _, err := execute(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("forced overwrite failed: %v", err)
	}
}

func TestUnknownPreset(t *testing.T) {
	if _, err := execute(t, "config", "init", filepath.Join(t.TempDir(), "x.yaml"), "--preset", "nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRecordFromReplayAndInspect(t *testing.T) {
	dir := t.TempDir()
	world := config.World{Width: 20, Height: 20, Count: 2}

	src := filepath.Join(dir, "src.rec")
	w, err := record.Create(src, world)
	if err != nil {
		t.Fatalf("create recording: %v", err)
	}
	for i := 0; i < 2; i++ {
		f := snapshot.Encode([]snapshot.Record{{X: float32(i), Y: 1}, {X: 5, Y: 5}})
		if err := w.WriteFrame(f); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close recording: %v", err)
	}

	dst := filepath.Join(dir, "dst.rec")
	out, err := execute(t, "record", "--replay", src, "--frames", "5", "--out", dst, "--log-level", "error")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if !strings.Contains(out, "wrote 5 frames") {
		t.Errorf("unexpected record output %q", out)
	}

	prefix := filepath.Join(dir, "flock")
	out, err = execute(t, "inspect", dst, "--svg", prefix, "--json", prefix+".json")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	for _, want := range []string{"frames: 5", "polarization", "20x20", "flock-frame.svg"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output lacks %q", want)
		}
	}

	svg, err := os.ReadFile(prefix + "-frame.svg")
	if err != nil {
		t.Fatalf("read frame svg: %v", err)
	}
	if got := strings.Count(string(svg), "<circle"); got != 2 {
		t.Errorf("expected 2 agents in svg, got %d", got)
	}
	if _, err := os.Stat(prefix + "-centroid.svg"); err != nil {
		t.Errorf("centroid svg missing: %v", err)
	}
	data, err := os.ReadFile(prefix + ".json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if !strings.Contains(string(data), `"frames": 5`) {
		t.Errorf("json lacks frame count: %s", data)
	}
}

func TestRecordRejectsBadFlags(t *testing.T) {
	if _, err := execute(t, "record", "--frames", "0"); err == nil {
		t.Error("expected error for zero frames")
	}
}
