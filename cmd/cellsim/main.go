package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/storage"
	"github.com/san-kum/cellsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	logger     *log.Logger

	// grid and run
	rows        int
	cols        int
	boundary    string
	generations int
	seed        int64
	pattern     string
	patternRow  int
	patternCol  int
	density     float64
	stopExtinct bool
	stopStable  bool
	snapEvery   int

	// rule parameters
	mask          string
	pDeath        float64
	deathSampling bool
	sacrificeN    int
	selfishness   float64
	killRing      int
	threshold     int

	// live view
	frameRate int
	gifPath   string
	theme     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "cellsim",
		Short:         "cellular automaton variant lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(verbose)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cellsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [variant]",
		Short: "run a simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [variant]",
		Short: "watch a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 15, "generations per second")
	liveCmd.Flags().StringVar(&gifPath, "gif", "cellsim.gif", "where the g key saves its recording")
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	benchCmd := &cobra.Command{
		Use:   "bench [variant]",
		Short: "benchmark a variant over several grid sizes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchVariant,
	}
	addSimFlags(benchCmd)

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd)
	rootCmd.AddCommand(runCommands()...)
	rootCmd.AddCommand(exploreCommands()...)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = newLogger(false)
		}
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "cellsim",
	})
	if debug {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")

	f.IntVar(&rows, "rows", config.DefaultRows, "grid rows")
	f.IntVar(&cols, "cols", config.DefaultCols, "grid columns")
	f.StringVar(&boundary, "boundary", "toroidal", "toroidal or clamped")
	f.IntVar(&generations, "gens", config.DefaultGenerations, "generations to run")
	f.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	f.StringVar(&pattern, "pattern", "", "seed pattern instead of random fill")
	f.IntVar(&patternRow, "row", 0, "pattern top row")
	f.IntVar(&patternCol, "col", 0, "pattern left column")
	f.Float64Var(&density, "density", config.DefaultDensity, "random fill density")
	f.BoolVar(&stopExtinct, "stop-extinct", false, "stop when every cell is dead")
	f.BoolVar(&stopStable, "stop-stable", false, "stop when a generation repeats the previous one")
	f.IntVar(&snapEvery, "snapshot-every", 0, "keep a grid every n generations")

	f.StringVar(&mask, "mask", "standard", "weight mask (weighted variant)")
	f.Float64Var(&pDeath, "p-death", 0, "death probability")
	f.BoolVar(&deathSampling, "death-sampling", false, "sample exactly round(n*p) deaths (weighted variant)")
	f.IntVar(&sacrificeN, "sacrifice-n", 0, "neighbour count that triggers a sacrifice")
	f.Float64Var(&selfishness, "selfishness", 0, "share of selfish cells")
	f.IntVar(&killRing, "kill-ring", 4, "selfish kill ring size (4 or 8)")
	f.IntVar(&threshold, "threshold", 4, "neighbors needed to turn aggressive (3 or 4)")
}

// loadConfig builds the run configuration. Presets come first, a config
// file replaces them, an explicit variant argument wins over both, and
// flags override whatever was loaded only when set.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	variant := ""
	if len(args) > 0 {
		variant = args[0]
	}

	if preset != "" {
		if variant == "" {
			variant = cfg.Variant
		}
		p := config.GetPreset(variant, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(variant))
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	if variant != "" {
		cfg.Variant = variant
	}

	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("cols") {
		cfg.Cols = cols
	}
	if flags.Changed("boundary") {
		cfg.Boundary = boundary
	}
	if flags.Changed("gens") {
		cfg.Generations = generations
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("pattern") {
		cfg.Init.Pattern = pattern
	}
	if flags.Changed("row") {
		cfg.Init.Row = patternRow
	}
	if flags.Changed("col") {
		cfg.Init.Col = patternCol
	}
	if flags.Changed("density") {
		cfg.Init.Density = density
	}
	if flags.Changed("stop-extinct") {
		cfg.Run.StopOnExtinction = stopExtinct
	}
	if flags.Changed("stop-stable") {
		cfg.Run.StopOnStable = stopStable
	}
	if flags.Changed("snapshot-every") {
		cfg.Run.SnapshotEvery = snapEvery
	}
	if flags.Changed("mask") {
		cfg.Rules.Mask = mask
		cfg.Rules.CustomMask = nil
	}
	if flags.Changed("p-death") {
		cfg.Rules.PDeath = pDeath
	}
	if flags.Changed("death-sampling") {
		cfg.Rules.DeathSampling = deathSampling
	}
	if flags.Changed("sacrifice-n") {
		cfg.Rules.SacrificeN = sacrificeN
	}
	if flags.Changed("selfishness") {
		cfg.Rules.Selfishness = selfishness
	}
	if flags.Changed("kill-ring") {
		cfg.Rules.KillRing = killRing
	}
	if flags.Changed("threshold") {
		cfg.Rules.AggressiveThreshold = threshold
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg, experiment.WithLogger(logger))
	if err := exp.Setup(registry.DefaultMetrics()); err != nil {
		return err
	}

	initial, err := exp.SeedGrid()
	if err != nil {
		return err
	}

	fmt.Printf("running %s on %dx%d...\n", cfg.Variant, cfg.Rows, cfg.Cols)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, initial, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("generations: %d\n", result.Generations)
	fmt.Printf("alive: %d -> %d (peak %d)\n", result.Alive[0], result.Alive[len(result.Alive)-1], result.PeakAlive())
	if result.Extinct {
		fmt.Printf("extinct at generation %d\n", result.ExtinctAt)
	}
	if result.Stable {
		fmt.Println("reached a still life")
	}
	fmt.Printf("\n%s\n", viz.Sparkline(result.AliveSeries(), 60))
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	// the TUI owns the terminal, so only warnings get through
	quiet := newLogger(false)
	quiet.SetLevel(log.WarnLevel)

	exp := experiment.New(cfg, experiment.WithLogger(quiet))
	if err := exp.Setup(nil); err != nil {
		return err
	}
	initial, err := exp.SeedGrid()
	if err != nil {
		return err
	}
	driver, err := exp.NewDriver()
	if err != nil {
		return err
	}

	if frameRate < 1 {
		frameRate = 1
	}
	viz.SetTheme(theme)

	m := viz.NewModel(driver, initial, cfg.Variant, 0).
		WithInterval(time.Second / time.Duration(frameRate)).
		WithRecordPath(gifPath)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func benchVariant(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	sizes := []int{32, 64, 128, 256}

	fmt.Printf("benchmarking %s (%d generations)\n\n", base.Variant, base.Generations)
	w := newTable()
	fmt.Fprintln(w, "SIZE\tCELLS\tTIME\tGEN/SEC\tCELLS/SEC")

	for _, n := range sizes {
		cfg := base.Clone()
		cfg.Rows, cfg.Cols = n, n
		cfg.Init.Pattern = ""
		cfg.Run.StopOnExtinction = false
		cfg.Run.StopOnStable = false

		exp := experiment.New(cfg, experiment.WithLogger(logger))
		if err := exp.Setup(nil); err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		genPerSec := float64(result.Generations) / elapsed.Seconds()
		fmt.Fprintf(w, "%dx%d\t%d\t%v\t%.0f\t%.0f\n",
			n, n, n*n, elapsed.Round(time.Microsecond), genPerSec, genPerSec*float64(n*n))
	}

	return w.Flush()
}
