package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/export"
	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/phys"
	"github.com/san-kum/boxsim/internal/storage"
	"github.com/san-kum/boxsim/internal/vec"
	"github.com/san-kum/boxsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	duration   float64
	step       float64
	bodyIndex  int
	outFile    string
	benchCount int
	benchTime  float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "boxsim",
		Short: "rigid box physics sandbox",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".boxsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario and record the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "override duration")
	runCmd.Flags().Float64Var(&step, "step", 0, "override sub-step")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run's height traces",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bodyIndex, "body", -1, "plot a single body")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&outFile, "out", "heights.svg", "output file")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "watch a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  liveScenario,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark stepping across parallel worlds",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchCount, "bodies", 200, "bodies per world")
	benchCmd.Flags().Float64Var(&benchTime, "time", 5.0, "seconds simulated per world")

	rootCmd.AddCommand(runCmd, presetsCmd, listCmd, plotCmd, exportCmd, liveCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadScenario(args []string) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	name := "drop"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown scenario %q (try: %s)",
			name, strings.Join(sortedPresets(), ", "))
	}
	return cfg, nil
}

func worldOptions() []phys.Option {
	if !verbose {
		return nil
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return nil
	}
	return []phys.Option{phys.WithLogger(log)}
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(args)
	if err != nil {
		return err
	}
	if duration > 0 {
		cfg.Duration = duration
	}
	if step > 0 {
		cfg.Step = step
	}

	w, bodies, err := cfg.Build(worldOptions()...)
	if err != nil {
		return err
	}

	ms := []metrics.Metric{
		metrics.NewEnergy(),
		metrics.NewSupportedCount(),
		metrics.NewMaxPenetration(),
	}
	rec := storage.NewRecorder()

	for w.Now() < cfg.Duration {
		w.StepTime(w.Step())
		rec.Observe(w, w.Now())
		for _, m := range ms {
			m.Observe(w, w.Now())
		}
	}

	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(cfg.Name, w.Step(), cfg.Duration, len(bodies), values, rec)
	if err != nil {
		return err
	}

	fmt.Printf("run %s (%s, %.1fs, %d bodies)\n\n", runID, cfg.Name, cfg.Duration, len(bodies))
	printMetrics(values)
	fmt.Println()
	times, series := rec.Heights()
	printHeights(times, series, -1)
	return nil
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%.4f\n", name, values[name])
	}
	tw.Flush()
}

func printHeights(times []float64, series map[int][]float64, only int) {
	if len(times) == 0 {
		return
	}
	var data [][]float64
	for body := 0; body < len(series); body++ {
		if only >= 0 && body != only {
			continue
		}
		data = append(data, series[body])
	}
	if len(data) == 0 {
		return
	}
	fmt.Println(asciigraph.PlotMany(data,
		asciigraph.Height(14),
		asciigraph.Caption(fmt.Sprintf("body heights over %.1fs", times[len(times)-1]-times[0])),
	))
}

func sortedPresets() []string {
	names := config.ListPresets()
	sort.Strings(names)
	return names
}

func listPresets(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBODIES\tDURATION")
	for _, name := range sortedPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(tw, "%s\t%d\t%.1fs\n", name, len(cfg.Bodies), cfg.Duration)
	}
	return tw.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCENARIO\tBODIES\tDURATION\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1fs\t%s\n",
			r.ID, r.Scenario, r.Bodies, r.Duration, r.Timestamp.Format(time.RFC3339))
	}
	return tw.Flush()
}

func loadHeights(runID string) ([]float64, map[int][]float64, error) {
	samples, err := storage.New(dataDir).LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	var times []float64
	series := make(map[int][]float64)
	for _, s := range samples {
		if s.Body == 0 {
			times = append(times, s.T)
		}
		series[s.Body] = append(series[s.Body], s.Y)
	}
	return times, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	times, series, err := loadHeights(args[0])
	if err != nil {
		return err
	}
	printHeights(times, series, bodyIndex)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	times, series, err := loadHeights(args[0])
	if err != nil {
		return err
	}
	svg := export.HeightsToSVG(times, series, 800, 400)
	if svg == "" {
		return fmt.Errorf("run %s: nothing to export", args[0])
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", filepath.Clean(outFile))
	return nil
}

func liveScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(args)
	if err != nil {
		return err
	}
	return viz.Run(cfg)
}

// runBench steps independent worlds in parallel, one per CPU, and
// reports aggregate throughput.
func runBench(cmd *cobra.Command, args []string) error {
	workers := runtime.GOMAXPROCS(0)
	start := time.Now()

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			w := phys.NewWorld()
			if err := buildBenchPile(w, benchCount); err != nil {
				errs[idx] = err
				return
			}
			w.RunToTime(benchTime)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	elapsed := time.Since(start)
	steps := float64(workers) * benchTime / phys.DefaultStep
	fmt.Printf("%d worlds x %d bodies, %.1fs simulated each\n", workers, benchCount, benchTime)
	fmt.Printf("wall time %.2fs, %.0f sub-steps/sec\n", elapsed.Seconds(), steps/elapsed.Seconds())
	return nil
}

func buildBenchPile(w *phys.World, n int) error {
	_, err := phys.NewBody(w, phys.BodyConfig{
		Position: vec.NewPos(0, -1, 0, 0),
		Extents:  vec.Vec{X: 100, Y: 1, Z: 100},
		Static:   true,
	})
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		_, err := phys.NewBody(w, phys.BodyConfig{
			Position: vec.NewPos(
				float64(i%10)*1.5-7,
				1+float64(i/10)*1.5,
				float64(i%7)*1.5-5,
				0),
			Extents: vec.Vec{X: 0.5, Y: 0.5, Z: 0.5},
			Gravity: true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
