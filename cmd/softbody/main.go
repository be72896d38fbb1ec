package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/softbody/internal/automation"
	"github.com/san-kum/softbody/internal/config"
	"github.com/san-kum/softbody/internal/dynamo"
	"github.com/san-kum/softbody/internal/experiment"
	"github.com/san-kum/softbody/internal/gui"
	"github.com/san-kum/softbody/internal/optim"
	"github.com/san-kum/softbody/internal/physics"
	"github.com/san-kum/softbody/internal/storage"
	"github.com/san-kum/softbody/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir     string
	configFile  string
	preset      string
	gravity     float64
	damping     float64
	restitution float64
	iterations  int
	width       float64
	height      float64
	frames      int
	every       int
	fps         int
	// sweep
	sweepParam string
	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
	// monte carlo
	trials  int
	perturb float64
	seed    int64
	// tune
	gridSpecs []string
	metric    string
	// svg
	outFile    string
	frameIdx   int
	trajectory bool
	braille    bool
	// live
	theme string
	// run
	progress bool
)

var logger = log.New(os.Stderr, "softbody: ", 0)

func main() {
	rootCmd := &cobra.Command{
		Use:   "softbody",
		Short: "verlet soft-body sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the braced box in the terminal when no command given
			return runLive(cmd, nil)
		},
	}
	addWorldFlags(rootCmd)
	addLiveFlags(rootCmd)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".softbody", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [shape]",
		Short: "run a headless simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addWorldFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of steps")
	runCmd.Flags().IntVar(&every, "every", 1, "record every n-th frame")
	runCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames per simulated second")
	runCmd.Flags().BoolVarP(&progress, "progress", "v", false, "log progress every 10%")

	liveCmd := &cobra.Command{
		Use:   "live [shape]",
		Short: "animate a body in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addWorldFlags(liveCmd)
	addLiveFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [shape]",
		Short: "animate a body in a window; without a shape, open the preset menu",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addWorldFlags(guiCmd)

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "pick a preset in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(experiment.NewRegistry())
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot height and drift of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "bounce and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a recorded frame as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&frameIdx, "frame", -1, "recorded frame index, negative counts from the end")
	svgCmd.Flags().BoolVar(&trajectory, "trajectory", false, "draw the centre of mass path instead")
	svgCmd.Flags().BoolVar(&braille, "braille", false, "draw the frame as the terminal view sees it")

	presetsCmd := &cobra.Command{
		Use:   "presets [shape]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [shape]",
		Short: "run a body once per value of a world parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addWorldFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of steps")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "iterations", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 20, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [shape]",
		Short: "perturb spawn positions at random and count stable runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addWorldFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of steps")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 10, "maximum displacement per axis")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [shape]",
		Short: "grid search world parameters for the lowest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addWorldFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of steps")
	tuneCmd.Flags().StringArrayVar(&gridSpecs, "grid", []string{"iterations=1,5,10,20"}, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&metric, "metric", "strain", "metric to minimise")

	configCmd := &cobra.Command{
		Use:   "config [shape]",
		Short: "print the resolved configuration as yaml, or write it with -o",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	addWorldFlags(configCmd)
	configCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "number of steps")
	configCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	benchCmd := &cobra.Command{
		Use:   "bench [shape]",
		Short: "benchmark solver throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchShape,
	}
	addWorldFlags(benchCmd)

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, menuCmd, listCmd, showCmd, plotCmd, analyzeCmd,
		exportJSONCmd, exportCSVCmd, svgCmd, presetsCmd, sweepCmd, monteCarloCmd, tuneCmd, scenarioCmd, configCmd, benchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func addWorldFlags(cmd *cobra.Command) {
	defaults := dynamo.DefaultParams()
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&gravity, "gravity", defaults.Gravity, "added to vertical velocity each step")
	cmd.Flags().Float64Var(&damping, "damping", defaults.Damping, "fraction of velocity kept each step")
	cmd.Flags().Float64Var(&restitution, "restitution", defaults.Restitution, "fraction of velocity kept on bounce")
	cmd.Flags().IntVar(&iterations, "iterations", defaults.Iterations, "relaxation passes per step")
	cmd.Flags().Float64Var(&width, "width", defaults.Width, "world width")
	cmd.Flags().Float64Var(&height, "height", defaults.Height, "world height")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().StringVar(&theme, "theme", viz.CurrentTheme.Name, fmt.Sprintf("colour theme %v", viz.ThemeNames()))
}

// resolveConfig layers defaults, preset, config file and flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	shape := ""
	if len(args) > 0 {
		shape = args[0]
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		if shape == "" {
			shape = config.DefaultShape
		}
		p := config.GetPreset(shape, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(shape))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if shape != "" && preset == "" {
		cfg.Body.Shape = shape
	}

	flags := cmd.Flags()
	if flags.Changed("gravity") {
		cfg.World.Gravity = gravity
	}
	if flags.Changed("damping") {
		cfg.World.Damping = damping
	}
	if flags.Changed("restitution") {
		cfg.World.Restitution = restitution
	}
	if flags.Changed("iterations") {
		cfg.World.Iterations = iterations
	}
	if flags.Changed("width") {
		cfg.World.Width = width
	}
	if flags.Changed("height") {
		cfg.World.Height = height
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("every") {
		cfg.Run.Every = every
	}
	if flags.Changed("fps") {
		cfg.Run.FPS = fps
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bodyName(cfg *config.Config) string {
	if preset != "" {
		return cfg.Body.Shape + "/" + preset
	}
	return cfg.Body.Shape
}

func buildSolver(cmd *cobra.Command, args []string) (*dynamo.Solver, *config.Config, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry(), nil); err != nil {
		return nil, nil, err
	}
	return exp.Solver(), cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	topo, err := registry.GetBody(cfg.Body.Shape, cfg.Body)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(registry, registry.DefaultMetrics()); err != nil {
		return err
	}

	if progress {
		exp.Simulator().AddObserver(&progressLog{total: uint64(cfg.Run.Frames), next: 1})
	}

	stats := physics.Describe(topo)
	fmt.Printf("running %s: %d particles, %d constraints, %d pinned\n",
		bodyName(cfg), stats.Particles, stats.Constraints, stats.Pinned)
	fmt.Printf("total rest length: %.1f\n", stats.RestLength)
	start := time.Now()

	result, runErr := exp.Run(cmd.Context())
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Printf("run interrupted after %d steps, saving partial result", result.StepsTaken)
	}

	elapsed := time.Since(start)
	rc := cfg.RunConfig()

	runID, err := st.Save(storage.RunMetadata{
		Shape:       cfg.Body.Shape,
		Preset:      preset,
		Params:      cfg.Params(),
		Frames:      result.StepsTaken,
		Every:       rc.Every,
		Dt:          rc.Dt,
		Particles:   exp.Solver().Len(),
		Constraints: exp.Solver().NumConstraints(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

// progressLog reports every tenth of a run.
type progressLog struct {
	total uint64
	next  uint64
}

func (p *progressLog) OnStep(s *dynamo.Solver) {
	if p.total == 0 || p.next > 10 || s.Frame()*10 < p.next*p.total {
		return
	}
	logger.Printf("%3d%% frame %d", p.next*10, s.Frame())
	p.next++
}

func runLive(cmd *cobra.Command, args []string) error {
	s, cfg, err := buildSolver(cmd, args)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	return viz.Run(s, bodyName(cfg), cfg.Run.FPS)
}

func runGUI(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && preset == "" && configFile == "" {
		gui.RunInteractive(experiment.NewRegistry())
		return nil
	}
	s, cfg, err := buildSolver(cmd, args)
	if err != nil {
		return err
	}
	gui.Run(s, bodyName(cfg))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	shapes := config.ListShapes()
	if len(args) > 0 {
		shapes = args
	}
	for _, shape := range shapes {
		presets := config.ListPresets(shape)
		if len(presets) == 0 {
			fmt.Printf("no presets for shape: %s\n", shape)
			continue
		}
		fmt.Printf("presets for %s:\n", shape)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		Values:    automation.Linspace(sweepFrom, sweepTo, sweepSteps),
	}

	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over %s (%d frames)\n\n", sweepParam, bodyName(cfg), cfg.Run.Frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTRAIN\tENERGY\tSTABILITY\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%.6f\t%.2f\t%.3f\n", r.ParamValue, r.Strain, r.Energy, r.Stability)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	var strain float64
	for _, r := range results {
		strain += r.Strain
	}
	if len(results) > 0 {
		strain /= float64(len(results))
	}

	fmt.Printf("monte carlo: %s, %d trials, perturbation %.1f\n", bodyName(cfg), trials, perturb)
	fmt.Printf("stable: %d\n", stable)
	fmt.Printf("unstable: %d\n", unstable)
	fmt.Printf("mean strain: %.6f\n", strain)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(gridSpecs))
	ranges := make([][]float64, 0, len(gridSpecs))
	for _, spec := range gridSpecs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("grid %q: want name=v1,v2,...", spec)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return fmt.Errorf("grid %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	fmt.Printf("tuning %s for lowest %s (%d frames)\n", bodyName(cfg), metric, cfg.Run.Frames)
	best, val, err := optim.NewGridSearch(names, ranges).Search(cmd.Context(), cfg, experiment.NewRegistry(), metric)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %.6f\n", metric, val)
	printMetrics(best)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry())
	for i, r := range results {
		label := r.Step.Preset
		if label == "" {
			label = r.Config.Body.Shape
		}
		fmt.Printf("\nstep %d: %s (%d steps)\n", i+1, label, r.Result.StepsTaken)
		printMetrics(r.Result.Metrics)

		if r.Step.SaveAs == "" {
			continue
		}
		rc := r.Config.RunConfig()
		runID, saveErr := st.Save(storage.RunMetadata{
			Shape:     r.Config.Body.Shape,
			Preset:    r.Step.SaveAs,
			Params:    r.Config.Params(),
			Frames:    r.Result.StepsTaken,
			Every:     rc.Every,
			Dt:        rc.Dt,
			Particles: len(r.Result.Frames[0]),
		}, r.Result)
		if saveErr != nil {
			return saveErr
		}
		fmt.Printf("  saved: %s\n", runID)
	}
	return err
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := config.Save(outFile, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func benchShape(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	fmt.Printf("benchmarking %s\n\n", bodyName(cfg))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAMES\tITERATIONS\tTIME\tSTEPS/SEC")

	for _, n := range []int{100, 1000} {
		for _, iters := range []int{1, 5, 20} {
			c := cfg.Clone()
			c.Run.Frames = n
			c.Run.Every = n
			c.World.Iterations = iters

			exp := experiment.New(c)
			if err := exp.Setup(registry, nil); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(cmd.Context())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, iters, elapsed, float64(result.StepsTaken)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func printMetrics(m map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "  %s:\t%.6f\n", name, m[name])
	}
	if err := w.Flush(); err != nil {
		logger.Print(err)
	}
}
