package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/netisu/holo"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "holo",
		Short:        "Render holographic scenes on the CPU",
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCmd(), newParamsCmd())
	return root
}

type renderOptions struct {
	config string
	frames int
	fps    float64
	out    string
	width  int
	height int
	set    []string
	base   bool
	debug  bool
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames of a scene to PNG files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "scene file (TOML); the reference scene when empty")
	f.IntVarP(&opts.frames, "frames", "n", 1, "frames to render; 0 runs until interrupted")
	f.Float64Var(&opts.fps, "fps", 60, "frame rate of the scene clock")
	f.StringVarP(&opts.out, "out", "o", "frames", "output directory")
	f.IntVar(&opts.width, "width", 0, "viewport width, overrides the scene file")
	f.IntVar(&opts.height, "height", 0, "viewport height, overrides the scene file")
	f.StringArrayVar(&opts.set, "set", nil, "parameter override, material.param=value (repeatable)")
	f.BoolVar(&opts.base, "base-only", false, "write one frame without post-processing to <out>/base.png")
	f.BoolVar(&opts.debug, "debug", false, "debug logging")
	return cmd
}

func loadConfig(path string) (*holo.Config, error) {
	if path == "" {
		return holo.DefaultConfig(), nil
	}
	return holo.LoadConfig(path)
}

func runRender(ctx context.Context, opts *renderOptions) error {
	logger := holo.NewDefaultLogger("holo", opts.debug)

	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	if opts.width > 0 {
		cfg.Window.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Window.Height = opts.height
	}

	overrides := make([]holo.Override, 0, len(opts.set))
	for _, s := range opts.set {
		o, err := holo.ParseOverride(s)
		if err != nil {
			return err
		}
		overrides = append(overrides, o)
	}

	step := 1 / opts.fps
	if opts.fps <= 0 {
		step = 1.0 / 60
	}
	app, err := holo.NewApp(cfg, holo.NewPNGTarget(opts.out), holo.NewStepClock(step), logger)
	if err != nil {
		return err
	}
	for _, o := range overrides {
		if err := app.ApplyOverride(o); err != nil {
			return err
		}
	}

	if opts.base {
		return writeBaseFrame(ctx, app, opts.out, logger)
	}

	if opts.frames <= 0 {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		app.Driver.Scheduler = holo.NewTickerScheduler(opts.fps)
		err := app.Driver.Run(ctx)
		logger.Infof("rendered %d frames", app.Driver.Frames())
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	// offline frames all include the model
	if err := app.Driver.WaitLoads(ctx); err != nil {
		return err
	}
	for i := 0; i < opts.frames; i++ {
		if err := app.Driver.Tick(); err != nil {
			return err
		}
	}
	logger.Infof("rendered %d frames to %s", opts.frames, opts.out)
	return nil
}

func writeBaseFrame(ctx context.Context, app *holo.App, dir string, logger holo.Logger) error {
	if err := app.Driver.WaitLoads(ctx); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, "base.png")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := app.WriteBaseFrame(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Infof("wrote %s", path)
	return nil
}

func newParamsCmd() *cobra.Command {
	var config string
	cmd := &cobra.Command{
		Use:   "params",
		Short: "List the materials of a scene and their parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(config)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range cfg.MaterialNames() {
				p, err := cfg.Materials[name].Params()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "[%s]\n", name)
				for _, param := range holo.Params {
					v, _ := p.Get(param)
					if c, ok := v.(holo.Color); ok {
						v = c.Hex()
					}
					fmt.Fprintf(out, "  %-20s %v\n", param, v)
				}
			}
			var meshes []string
			for _, m := range cfg.Meshes {
				meshes = append(meshes, fmt.Sprintf("%s=%s", m.Name, m.Material))
			}
			sort.Strings(meshes)
			fmt.Fprintf(out, "meshes: %v\n", meshes)
			fmt.Fprintln(out, "panel:")
			for _, b := range holo.DefaultBindings {
				if b.Step > 0 {
					fmt.Fprintf(out, "  %-20s %s [%g, %g] step %g\n", b.Label, b.Param, b.Min, b.Max, b.Step)
				} else {
					fmt.Fprintf(out, "  %-20s %s\n", b.Label, b.Param)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&config, "config", "c", "", "scene file (TOML)")
	return cmd
}
