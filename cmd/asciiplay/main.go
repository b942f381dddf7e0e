package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/asciiplay/internal/anim"
	"github.com/san-kum/asciiplay/internal/config"
	"github.com/san-kum/asciiplay/internal/gui"
	"github.com/san-kum/asciiplay/internal/logs"
	"github.com/san-kum/asciiplay/internal/reflow"
	"github.com/san-kum/asciiplay/internal/source"
	"github.com/san-kum/asciiplay/internal/tui"
	"github.com/san-kum/asciiplay/internal/viz"
)

var (
	configFile string
	preset     string
	verbose    bool
	logFile    string

	// Playback overrides
	frameDelay  int
	offload     bool
	workers     int
	squishiness float64
	margin      int
	supersample int
	theme       string

	// Headless rendering
	outWidth  int
	outHeight int
	output    string
	frameIdx  int

	// Conversion
	convWidth  int
	convFrames int
	convSkip   int
	listName   string

	trace bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "asciiplay [file]",
		Short:         "character-art animation player",
		Args:          cobra.ExactArgs(1),
		RunE:          runTerm,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logs.SetVerbose(verbose)
			if logFile == "" {
				return nil
			}
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return err
			}
			logs.SetOutput(f)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write logs to this file")

	addPlaybackFlags(rootCmd)

	termCmd := &cobra.Command{
		Use:   "term [file]",
		Short: "play full screen in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runTerm,
	}
	addPlaybackFlags(termCmd)

	ansiCmd := &cobra.Command{
		Use:   "ansi [file]",
		Short: "play with raw escape sequences (ctrl+c to stop)",
		Args:  cobra.ExactArgs(1),
		RunE:  runANSI,
	}
	addPlaybackFlags(ansiCmd)

	windowCmd := &cobra.Command{
		Use:   "window [file]",
		Short: "play in a resizable window",
		Args:  cobra.ExactArgs(1),
		RunE:  runWindow,
	}
	addPlaybackFlags(windowCmd)

	renderCmd := &cobra.Command{
		Use:   "render [file]",
		Short: "pre-render to a gif, an svg or a directory of png frames",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	addPlaybackFlags(renderCmd)
	renderCmd.Flags().IntVar(&outWidth, "width", 800, "viewport width in pixels")
	renderCmd.Flags().IntVar(&outHeight, "height", 600, "viewport height in pixels")
	renderCmd.Flags().StringVarP(&output, "output", "o", "out.gif", "output .gif, .svg or directory")
	renderCmd.Flags().IntVar(&frameIdx, "frame", 0, "frame to write for .svg output")

	convertCmd := &cobra.Command{
		Use:   "convert [input] [output]",
		Short: "convert a gif or image to an animation source",
		Args:  cobra.ExactArgs(2),
		RunE:  runConvert,
	}
	convertCmd.Flags().IntVarP(&convWidth, "width", "w", 100, "width in cells")
	convertCmd.Flags().IntVarP(&convFrames, "num-frames", "n", -1, "number of frames to convert, -1 for all")
	convertCmd.Flags().IntVarP(&convSkip, "skip", "s", 1, "keep every n-th frame")
	convertCmd.Flags().StringVar(&listName, "name", "frames", "variable name for .js output")

	infoCmd := &cobra.Command{
		Use:   "info [file]",
		Short: "show source dimensions and layout",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
	infoCmd.Flags().IntVar(&outWidth, "width", 800, "viewport width in pixels")
	infoCmd.Flags().IntVar(&outHeight, "height", 600, "viewport height in pixels")
	infoCmd.Flags().BoolVar(&trace, "trace", false, "print the drawing calls for the first frame")

	benchCmd := &cobra.Command{
		Use:   "bench [file]",
		Short: "benchmark pre-rendering",
		Args:  cobra.ExactArgs(1),
		RunE:  runBench,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(termCmd, ansiCmd, windowCmd, renderCmd, convertCmd, infoCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func addPlaybackFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameDelay, "delay", config.DefaultFrameDelayMs, "frame delay in milliseconds")
	cmd.Flags().BoolVar(&offload, "offload", false, "pre-render on worker goroutines")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "offload worker goroutines")
	cmd.Flags().Float64Var(&squishiness, "squishiness", config.DefaultSquishiness, "horizontal glyph overlap in pixels")
	cmd.Flags().IntVar(&margin, "margin", config.DefaultMargin, "viewport margin in pixels")
	cmd.Flags().IntVar(&supersample, "supersample", config.DefaultSupersample, "surface pixels per terminal cell")
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "status bar theme")
}

// loadConfig applies the preset, then the config file, then changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		if !cfg.Apply(preset) {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("delay") {
		cfg.FrameDelayMs = frameDelay
	}
	if flags.Changed("offload") {
		cfg.Offload = offload
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("squishiness") {
		cfg.Squishiness = squishiness
	}
	if flags.Changed("margin") {
		cfg.Margin = margin
	}
	if flags.Changed("supersample") {
		cfg.Terminal.Supersample = supersample
	}
	if flags.Changed("theme") {
		cfg.Terminal.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configure returns a hook that copies cfg onto a supervisor.
func configure(cfg *config.Config) func(*reflow.Supervisor) {
	return func(s *reflow.Supervisor) {
		s.Pipeline.FrameDelay = cfg.FrameDelay()
		s.Pipeline.Yield = cfg.Yield()
		s.Pipeline.LeftPad = cfg.LeftPad
		s.Pipeline.ProgressFontSize = cfg.ProgressFontSize
		s.Player.Delay = cfg.FrameDelay()
		s.Offload = cfg.Offload
		s.Workers = cfg.Workers
		s.Margin = cfg.Margin
		s.Squishiness = cfg.Squishiness
		s.OnSession = func(info reflow.Info) {
			logs.LogV("session %d: viewport %v, %v, aborted=%v offloaded=%v in %v",
				info.ID, info.Viewport, info.Params, info.Aborted, info.Offloaded, info.Elapsed)
		}
	}
}

var imageExts = map[string]bool{".gif": true, ".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// loadSource reads an animation source, converting images on the fly.
func loadSource(path string) (anim.Source, error) {
	if imageExts[strings.ToLower(filepath.Ext(path))] {
		logs.LogV("converting %s", path)
		src, err := source.ConvertFile(path, source.DefaultConvertOptions())
		if err != nil {
			return nil, err
		}
		return src, src.Validate()
	}
	return source.Load(path)
}

func title(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runTerm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := loadSource(args[0])
	if err != nil {
		return err
	}
	// Log lines would land on top of the alternate screen.
	if logFile == "" {
		logs.SetVerbose(false)
	}

	ctx, cancel := signalContext()
	defer cancel()

	return viz.Run(ctx, src, viz.Options{
		Title:       title(args[0]),
		Supersample: cfg.Terminal.Supersample,
		Theme:       cfg.Terminal.Theme,
	}, configure(cfg))
}

func runANSI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := loadSource(args[0])
	if err != nil {
		return err
	}
	if logFile == "" {
		logs.SetVerbose(false)
	}

	ctx, cancel := signalContext()
	defer cancel()

	return tui.Run(ctx, src, tui.Options{
		Title:       title(args[0]),
		Supersample: cfg.Terminal.Supersample,
	}, configure(cfg))
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	src, err := loadSource(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	return gui.Run(ctx, src, gui.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title + " :: " + title(args[0]),
		FPS:    cfg.Window.FPS,
		HUD:    true,
	}, configure(cfg))
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDELAY\tSQUISH\tMARGIN\tOFFLOAD\tWORKERS\tSUPERSAMPLE\tTHEME")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dms\t%g\t%d\t%v\t%d\t%d\t%s\n",
			name, c.FrameDelayMs, c.Squishiness, c.Margin, c.Offload, c.Workers, c.Terminal.Supersample, c.Terminal.Theme)
	}
	return w.Flush()
}

func elapsedSince(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
