package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/san-kum/flockview/internal/gui"
	"github.com/san-kum/flockview/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Config file
	configFile string
	// Preset name
	preset     string
	modulePath string
	replayPath string
	logLevel   string
	devLog     bool

	// record
	frames  int
	stride  int
	outPath string

	// inspect
	plotWidth int
	svgPrefix string
	svgWidth  int
	jsonPath  string

	// config init
	force bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "flockview",
		Short:        "boid flock viewer",
		SilenceUsage: true,
		RunE:         runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset world")
	pf.StringVar(&modulePath, "module", "", "simulation wasm module (overrides config)")
	pf.StringVar(&replayPath, "replay", "", "play a recording instead of running the module")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&devLog, "dev", false, "human readable development logs")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "view the flock in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "run headless and write a snapshot recording",
		Args:  cobra.NoArgs,
		RunE:  runRecord,
	}
	recordCmd.Flags().IntVar(&frames, "frames", 600, "frames to record")
	recordCmd.Flags().IntVar(&stride, "stride", 1, "simulation steps between recorded frames")
	recordCmd.Flags().StringVarP(&outPath, "out", "o", "flock.rec", "output file")

	inspectCmd := &cobra.Command{
		Use:   "inspect [recording]",
		Short: "plot flock measures of a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	inspectCmd.Flags().StringVar(&svgPrefix, "svg", "", "write <prefix>-frame.svg and <prefix>-centroid.svg")
	inspectCmd.Flags().IntVar(&svgWidth, "svg-width", 800, "svg width in pixels")
	inspectCmd.Flags().StringVar(&jsonPath, "json", "", "write per-frame measures as json")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset worlds",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(tuiCmd, recordCmd, inspectCmd, presetsCmd, configCmd)
	return rootCmd
}

func runGUI(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	err = gui.Run(cmd.Context(), gui.Options{
		Config:   s.cfg,
		Buffer:   s.buf,
		Messages: s.messages,
		Logger:   s.log,
		Source:   s.source,
	})
	return s.finish(cmd.Context(), err)
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// The terminal belongs to the viewer; only errors reach stderr.
	log := s.log.WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel))
	err = tui.Run(cmd.Context(), tui.Options{
		Config: s.cfg,
		Buffer: s.buf,
		Logger: log,
		Source: s.source,
	})
	return s.finish(cmd.Context(), err)
}
