package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/swarmsim/internal/config"
	"github.com/san-kum/swarmsim/internal/engine"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/registry"
	"github.com/san-kum/swarmsim/internal/scenario"
	"github.com/san-kum/swarmsim/internal/sim"
	"github.com/san-kum/swarmsim/internal/tui"
)

var (
	model      string
	configFile string
	integrator string
	frames     int
	watchLimit int
	ensFrames  int
	workers    int
	debug      bool
	seed       int64
	every      int
	frameRate  int
	runs       int
	verbose    bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "swarmsim",
		Short:         "force-directed layout of bipartite graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "force model (legacy, spring, gravity)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&integrator, "integrator", "", "integrator override")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 1, "peer pass workers")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "panic on contract violations")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "scenario seed (0 keeps the preset seed)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine diagnostics to stderr")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a layout headless and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLayout,
	}
	runCmd.Flags().IntVar(&frames, "frames", 300, "frames to run")
	runCmd.Flags().IntVar(&every, "every", 0, "print a progress line every n frames")

	watchCmd := &cobra.Command{
		Use:   "watch [scenario]",
		Short: "run a layout with live statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchLayout,
	}
	watchCmd.Flags().IntVar(&watchLimit, "frames", 0, "stop stepping after n frames (0 runs until quit)")
	watchCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [scenario]",
		Short: "run the same layout over a range of seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&ensFrames, "frames", 300, "frames per run")
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list registered force models, integrators and hooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tNAME\tREQUIRES")
			for _, name := range reg.Calculators() {
				fmt.Fprintf(w, "model\t%s\t%v\n", name, reg.Required(name))
			}
			for _, name := range reg.Integrators() {
				fmt.Fprintf(w, "integrator\t%s\t\n", name)
			}
			for _, name := range reg.Hooks() {
				fmt.Fprintf(w, "hook\t%s\t\n", name)
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list config and scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("models"))
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(out, "  %-10s integrator=%s\n", name, p.Integrator)
			}
			fmt.Fprintln(out, headerStyle.Render("scenarios"))
			for _, name := range scenario.List() {
				s := scenario.Presets[name]
				fmt.Fprintf(out, "  %-10s sources=%d targets=%d edges/source=%d\n", name, s.Sources, s.Targets, s.EdgesPerSource)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect and validate configs",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "print [model]",
			Short: "print the effective config as yaml",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					model = args[0]
				}
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "validate [file]",
			Short: "check a config file without running it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(args[0])
				if err != nil {
					return err
				}
				if _, err := engine.New(*cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (model %s, integrator %s)\n", args[0], cfg.Model, cfg.Integrator)
				return nil
			},
		},
	)

	rootCmd.AddCommand(runCmd, watchCmd, ensembleCmd, modelsCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, warnStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

// loadConfig resolves the config from file or model preset, then applies the
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if model != "" && model != cfg.Model {
			return nil, fmt.Errorf("--model %s conflicts with config model %s", model, cfg.Model)
		}
	} else {
		name := model
		if name == "" {
			name = config.DefaultModel
		}
		cfg, err = config.ForModel(name)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("seed") {
		cfg.Params[config.JitterSeed] = float64(seed)
	}
	return cfg, nil
}

func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "swarmsim: ", log.LstdFlags)
	}
	return engine.New(*cfg, engine.WithLogger(logger))
}

func scenarioSpec(args []string) (scenario.Spec, string, error) {
	name := "medium"
	if len(args) == 1 {
		name = args[0]
	}
	spec, err := scenario.Get(name)
	if err != nil {
		return spec, name, err
	}
	if seed != 0 {
		spec.Seed = seed
	}
	return spec, name, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLayout(cmd *cobra.Command, args []string) error {
	spec, name, err := scenarioSpec(args)
	if err != nil {
		return err
	}
	e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	snap := scenario.Generate(spec)

	runner := sim.New(e)
	for _, m := range sim.DefaultMetrics() {
		runner.AddMetric(m)
	}
	out := cmd.OutOrStdout()
	if every > 0 {
		runner.AddObserver(sim.ObserverFunc(func(frame int, s *entity.Snapshot) {
			if frame%every == 0 {
				fmt.Fprintf(out, "frame %6d\n", frame)
			}
		}))
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintf(out, "running %s on %s (%d nodes, %d edges)...\n", e.Config().Model, name, snap.Len(), len(snap.Edges))
	start := time.Now()
	result, err := runner.Run(ctx, snap, sim.RunConfig{Frames: frames, ValidateState: true})
	if err != nil && result == nil {
		return err
	}
	elapsed := time.Since(start)

	printSummary(out, result, elapsed)
	for _, fe := range result.Errors {
		fmt.Fprintln(out, warnStyle.Render(fe.Error()))
	}
	return err
}

func printSummary(out io.Writer, result *sim.Result, elapsed time.Duration) {
	fmt.Fprintf(out, "completed %d frames in %v\n", result.Frames, elapsed)
	if result.Stats.SkippedEdges > 0 || result.Stats.Clamped > 0 {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("skipped edges: %d  clamped values: %d", result.Stats.SkippedEdges, result.Stats.Clamped)))
	}

	fmt.Fprintln(out, headerStyle.Render("\nmetrics"))
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(out, "  "+tui.Row(name, fmt.Sprintf("%.6f", result.Metrics[name])))
	}

	if len(result.Energy) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(downsample(result.Energy, 100), asciigraph.Height(10), asciigraph.Caption("kinetic energy")))
	}
}

func downsample(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	out := make([]float64, n)
	step := float64(len(data)-1) / float64(n-1)
	for i := range out {
		out[i] = data[int(float64(i)*step)]
	}
	return out
}

func watchLayout(cmd *cobra.Command, args []string) error {
	spec, name, err := scenarioSpec(args)
	if err != nil {
		return err
	}
	e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	return tui.Run(tui.NewModel(e, scenario.Generate(spec), name, frameRate, watchLimit))
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	spec, name, err := scenarioSpec(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	gen := func(s int64) *entity.Snapshot {
		sp := spec
		sp.Seed = s
		return scenario.Generate(sp)
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %d x %s on %s...\n", runs, cfg.Model, name)
	start := time.Now()
	results, err := sim.NewEnsemble(*cfg, gen, runs, spec.Seed).Run(ctx, sim.RunConfig{Frames: ensFrames})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tENERGY\tSPREAD\tCALM\tSKIPPED")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.2f\t%.2f\t%d\n",
			spec.Seed+int64(i), r.Frames, r.Final(), r.Metrics["spread"], r.Metrics["calm"], r.Stats.SkippedEdges)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "completed in %v\n", time.Since(start))
	return nil
}
