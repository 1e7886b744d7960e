package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/cellsim/internal/analysis"
	"github.com/san-kum/cellsim/internal/automation"
	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/experiment"
	"github.com/san-kum/cellsim/internal/neighbor"
	"github.com/san-kum/cellsim/internal/optim"
	"github.com/san-kum/cellsim/internal/patterns"
	"github.com/san-kum/cellsim/internal/rules"
	"github.com/san-kum/cellsim/internal/sim"
	"github.com/san-kum/cellsim/internal/storage"
	"github.com/san-kum/cellsim/internal/viz"
)

var (
	sweepParams []string
	sweepMetric string
	maximize    bool
	runs        int
	parallel    int
	damageRow   int
	damageCol   int
)

// exploreCommands list the catalogues and run multi-run studies.
func exploreCommands() []*cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets [variant]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variants := experiment.NewRegistry().ListVariants()
			if len(args) > 0 {
				variants = args
			}
			for _, v := range variants {
				presets := config.ListPresets(v)
				if len(presets) == 0 {
					fmt.Printf("no presets for variant: %s\n", v)
					continue
				}
				fmt.Printf("presets for %s:\n", v)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	masksCmd := &cobra.Command{
		Use:   "masks",
		Short: "list the named weight masks",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range neighbor.MaskNames() {
				m, err := neighbor.MaskByName(name)
				if err != nil {
					return err
				}
				fmt.Printf("%s (total %.2f)\n%s\n", name, m.Total(), m)
			}
			return nil
		},
	}

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "list the seed patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newTable()
			fmt.Fprintln(w, "NAME\tSIZE\tCELLS")
			for _, name := range patterns.Names() {
				p, err := patterns.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%dx%d\t%d\n", p.Name, p.Height(), p.Width(), p.Population())
			}
			return w.Flush()
		},
	}

	sweepCmd := &cobra.Command{
		Use:     "sweep [variant]",
		Short:   "grid search rule parameters against a metric",
		Example: "  cellsim sweep stochastic --param p_death=0:0.5:0.05 --maximize\n  cellsim sweep selfish --param selfishness=0.1,0.5,0.9 --param aggressive_threshold=3,4",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=range, range is a,b,c or start:stop:step (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "mean_population", "metric to optimise")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise instead of minimise")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [variant]",
		Short: "repeat a run over consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of members")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", 4, "members run at once")

	damageCmd := &cobra.Command{
		Use:   "damage [variant]",
		Short: "flip one cell and follow how far the difference spreads",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDamage,
	}
	addSimFlags(damageCmd)
	damageCmd.Flags().IntVar(&damageRow, "flip-row", -1, "row of the flipped cell (default centre)")
	damageCmd.Flags().IntVar(&damageCol, "flip-col", -1, "column of the flipped cell (default centre)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	return []*cobra.Command{presetsCmd, masksCmd, patternsCmd, sweepCmd, ensembleCmd, damageCmd, scenarioCmd}
}

func parseSweepParams(args []string) ([]string, [][]float64, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("at least one --param is required (choose from %v)", optim.Params())
	}
	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		name, rng, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --param %q, want name=range", arg)
		}
		values, err := optim.ParseRange(rng)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(sweepMetric); err != nil {
		return err
	}

	names, ranges, err := parseSweepParams(sweepParams)
	if err != nil {
		return err
	}
	for i, name := range names {
		if _, err := optim.Apply(cfg, map[string]float64{name: ranges[i][0]}); err != nil {
			return err
		}
	}

	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	if maximize {
		gs.SetGoal(optim.Maximize)
	}

	newMetrics := func() []sim.Metric {
		m, _ := registry.GetMetric(sweepMetric)
		return []sim.Metric{m}
	}

	logger.Info("sweep started", "variant", cfg.Variant, "trials", gs.Size(), "metric", sweepMetric)
	res, err := gs.Search(context.Background(), optim.Builder(cfg, newMetrics, logger), sweepMetric)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(sweepMetric))
	for _, t := range res.Trials {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", t.Params[n])
		}
		if t.Err != nil {
			fmt.Fprintf(w, "error: %v\n", t.Err)
			continue
		}
		fmt.Fprintf(w, "%.6f\n", t.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best := make([]string, 0, len(res.Best))
	for _, n := range names {
		best = append(best, fmt.Sprintf("%s=%g", n, res.Best[n]))
	}
	fmt.Printf("\nbest: %s -> %s %.6f\n", strings.Join(best, " "), sweepMetric, res.BestValue)
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg, experiment.WithLogger(logger))
	if err := exp.Setup(nil); err != nil {
		return err
	}

	results, err := exp.RunEnsemble(context.Background(), runs, parallel, registry.DefaultMetrics)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "SEED\tGENS\tFINAL\tPEAK\tEXTINCT\tALIVE")
	extinct := 0
	finals := make([]float64, 0, len(results))
	for _, r := range results {
		final := r.Alive[len(r.Alive)-1]
		finals = append(finals, float64(final))
		at := "-"
		if r.Extinct {
			extinct++
			at = fmt.Sprintf("%d", r.ExtinctAt)
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%s\n",
			r.Seed, r.Generations, final, r.PeakAlive(), at, viz.Sparkline(r.AliveSeries(), 30))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	sort.Float64s(finals)
	mean := 0.0
	for _, f := range finals {
		mean += f
	}
	mean /= float64(len(finals))
	share := float64(extinct) / float64(len(results))

	fmt.Printf("\nfinal alive: mean %.1f, median %.0f, min %.0f, max %.0f\n",
		mean, finals[len(finals)/2], finals[0], finals[len(finals)-1])
	fmt.Printf("survived:    %s %d/%d\n", viz.ProgressBar(1-share, 30), len(results)-extinct, len(results))
	return nil
}

func runDamage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rc, err := cfg.RuleConfig()
	if err != nil {
		return err
	}
	g0, err := experiment.InitialGrid(cfg)
	if err != nil {
		return err
	}

	row, col := damageRow, damageCol
	if row < 0 {
		row = cfg.Rows / 2
	}
	if col < 0 {
		col = cfg.Cols / 2
	}

	dist, err := analysis.Damage(rc, g0, row, col, cfg.Generations, cfg.Seed)
	if err != nil {
		return err
	}

	data := make([]float64, len(dist))
	healedAt := -1
	for i, d := range dist {
		data[i] = float64(d)
		if d == 0 && healedAt < 0 {
			healedAt = i
		}
	}

	fmt.Printf("damage spreading: %s, flip (%d,%d)\n\n", cfg.Variant, row, col)
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("cells that differ"),
	))
	fmt.Println()
	fmt.Printf("final distance: %d of %d cells\n", dist[len(dist)-1], cfg.Rows*cfg.Cols)
	fmt.Printf("growth rate:    %.4f per generation\n", analysis.DamageRate(dist))
	if healedAt >= 0 {
		fmt.Printf("healed at generation %d\n", healedAt)
	}

	engine, err := rules.NewEngine(rc)
	if err != nil {
		return err
	}
	if c, ok := analysis.FindCycle(engine, g0, rules.NewRand(cfg.Seed), cfg.Generations); ok {
		fmt.Printf("trajectory repeats: transient %d, period %d\n", c.Transient, c.Period)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(context.Background(), sc, experiment.NewRegistry(), logger)
	if err != nil && len(results) == 0 {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	w := newTable()
	fmt.Fprintln(w, "STEP\tVARIANT\tGENS\tFINAL\tPEAK\tRUN ID")
	for i, r := range results {
		name := r.Step.Name
		if name == "" {
			name = fmt.Sprintf("%d", i+1)
		}
		runID := "-"
		if r.Step.Save {
			id, saveErr := st.Save(r.Config, r.Initial, r.Result)
			if saveErr != nil {
				return saveErr
			}
			runID = id
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			name, r.Config.Variant, r.Result.Generations, r.Result.Alive[len(r.Result.Alive)-1], r.Result.PeakAlive(), runID)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	return err
}
