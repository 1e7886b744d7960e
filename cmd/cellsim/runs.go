package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/cellsim/internal/analysis"
	"github.com/san-kum/cellsim/internal/config"
	"github.com/san-kum/cellsim/internal/export"
	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/sim"
	"github.com/san-kum/cellsim/internal/storage"
	"github.com/san-kum/cellsim/internal/viz"
)

var (
	snapGen  int
	svgKind  string
	svgOut   string
	svgCell  int
	svgWidth int
)

// runCommands are the commands that read stored runs.
func runCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the alive count of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the alive count series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "print a stored grid",
		Args:  cobra.ExactArgs(1),
		RunE:  printSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapGen, "gen", -1, "generation to print (default final)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().StringVar(&svgKind, "kind", "grid", "grid, braille or alive")
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgCell, "cell", 8, "pixels per cell")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "plot width (alive)")
	svgCmd.Flags().IntVar(&snapGen, "gen", -1, "generation to render (default final)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the alive count",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	return []*cobra.Command{listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, snapshotCmd, svgCmd, analyzeCmd}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tVARIANT\tTIME\tSIZE\tGENS\tSEED\tFINAL\tPEAK")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows, run.Cols,
			run.Generations,
			run.Seed,
			run.FinalAlive,
			run.PeakAlive,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	alive, err := st.LoadAlive(runID)
	if err != nil {
		return err
	}
	if len(alive) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("generations: %d\n\n", len(alive)-1)

	data := make([]float64, len(alive))
	for i, n := range alive {
		data[i] = float64(n)
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("alive cells per generation"),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	alive, err := st.LoadAlive(args[0])
	if err != nil {
		return err
	}
	if len(alive) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.EncodeAliveCSV(os.Stdout, alive)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	alive, err := st.LoadAlive(runID)
	if err != nil {
		return err
	}
	final, err := st.LoadFinal(runID)
	if err != nil {
		return err
	}

	result := &sim.Result{
		Seed:        meta.Seed,
		Alive:       alive,
		Generations: meta.Generations,
		Final:       final,
		Metrics:     meta.Metrics,
		Extinct:     meta.Extinct,
		ExtinctAt:   meta.ExtinctAt,
		Stable:      meta.Stable,
	}
	return export.WriteJSON(os.Stdout, configFromMeta(meta), result)
}

func configFromMeta(meta *storage.RunMetadata) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Variant = meta.Variant
	cfg.Rows, cfg.Cols = meta.Rows, meta.Cols
	cfg.Boundary = meta.Boundary
	cfg.Generations = meta.Generations
	cfg.Seed = meta.Seed
	cfg.Rules = meta.Rules
	return cfg
}

// loadGrid reads generation gen of a run: 0 is the seed grid, negative
// means the final grid, anything else must have been kept as a snapshot.
func loadGrid(st *storage.Store, runID string, gen int) (*grid.Grid, error) {
	switch {
	case gen < 0:
		return st.LoadFinal(runID)
	case gen == 0:
		return st.LoadInitial(runID)
	}
	g, err := st.LoadSnapshot(runID, gen)
	if err != nil {
		return nil, fmt.Errorf("no snapshot for generation %d (run with --snapshot-every): %w", gen, err)
	}
	return g, nil
}

func printSnapshot(cmd *cobra.Command, args []string) error {
	g, err := loadGrid(storage.New(dataDir), args[0], snapGen)
	if err != nil {
		return err
	}
	fmt.Print(g.String())
	return nil
}

func renderSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var svg string
	switch svgKind {
	case "grid", "braille":
		g, err := loadGrid(st, runID, snapGen)
		if err != nil {
			return err
		}
		if svgKind == "grid" {
			svg = export.GridToSVG(g, svgCell)
		} else {
			canvas := viz.CanvasFor(g)
			canvas.DrawGrid(g)
			svg = export.CanvasToSVG(canvas, float64(svgCell))
		}
	case "alive":
		alive, err := st.LoadAlive(runID)
		if err != nil {
			return err
		}
		svg = export.AliveToSVG(alive, svgWidth, svgWidth/2, "#00ff88")
	default:
		return fmt.Errorf("unknown svg kind: %s", svgKind)
	}
	if svg == "" {
		return fmt.Errorf("nothing to render")
	}

	if svgOut == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	alive, err := st.LoadAlive(runID)
	if err != nil {
		return err
	}
	if len(alive) < 4 {
		return fmt.Errorf("run too short to analyze")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("variant: %s\n\n", meta.Variant)

	// skip the first quarter so the settling transient does not dominate
	series := make([]float64, 0, len(alive))
	for _, n := range alive[len(alive)/4:] {
		series = append(series, float64(n))
	}

	ps, _ := analysis.Spectrum(series)
	if len(ps) > 2 {
		graph := asciigraph.Plot(ps[1:],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (alive)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	period, power := analysis.DominantPeriod(series)
	if period == 0 {
		fmt.Println("alive count is flat: no oscillation")
		return nil
	}
	fmt.Printf("dominant period: %.2f generations (power %.2f)\n", period, power)
	return nil
}
