package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/curtisalleynesr/reactphysics3d/internal/body"
	"github.com/curtisalleynesr/reactphysics3d/internal/config"
	"github.com/curtisalleynesr/reactphysics3d/internal/metrics"
	"github.com/curtisalleynesr/reactphysics3d/internal/scalar"
	"github.com/curtisalleynesr/reactphysics3d/internal/scene"
	"github.com/curtisalleynesr/reactphysics3d/internal/store"
	"github.com/curtisalleynesr/reactphysics3d/internal/viz"
	"github.com/curtisalleynesr/reactphysics3d/internal/world"
)

var (
	dataDir    string
	duration   float64
	timestep   float64
	iterations int
	numBodies  int
	configFile string
	preset     string
	saveRun    bool
	exportPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rp3d",
		Short: "rigid body simulation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rp3d", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and print a report",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (seconds)")
	runCmd.Flags().Float64Var(&timestep, "dt", 0, "fixed timestep")
	runCmd.Flags().IntVar(&iterations, "iterations", 0, "solver iterations")
	runCmd.Flags().IntVar(&numBodies, "bodies", 0, "number of bodies")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run")
	runCmd.Flags().StringVar(&exportPath, "export", "", "export the run as JSON to this path")

	watchCmd := &cobra.Command{
		Use:   "watch [scene]",
		Short: "run a scene with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  watchScene,
	}
	watchCmd.Flags().Float64Var(&timestep, "dt", 0, "fixed timestep")
	watchCmd.Flags().IntVar(&numBodies, "bodies", 0, "number of bodies")
	watchCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "measure stepping throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().Float64Var(&duration, "time", 10, "simulated duration")
	benchCmd.Flags().IntVar(&numBodies, "bodies", 0, "number of bodies")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scenes and their presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scene.Names() {
				fmt.Println(name)
				for _, p := range config.ListPresets(name) {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, watchCmd, listCmd, benchCmd, scenesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers preset, config file and explicit flags, in that
// order of increasing precedence.
func resolveConfig(sceneName string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scene = sceneName

	if preset != "" {
		p := config.GetPreset(sceneName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(sceneName))
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		cfg.Scene = sceneName
	}

	if duration > 0 {
		cfg.Duration = duration
	}
	if timestep > 0 {
		cfg.World.Timestep = timestep
	}
	if iterations > 0 {
		cfg.World.Iterations = iterations
	}
	if numBodies > 0 {
		cfg.Params.Bodies = numBodies
	}
	return cfg, nil
}

func buildWithMetrics(cfg *config.Config) (*world.World, []body.Handle, *metrics.Recorder, error) {
	w, tracked, err := scene.Build(cfg.Scene, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	rec := metrics.NewRecorder(
		metrics.NewKineticEnergy(),
		metrics.NewMaxPenetration(),
		metrics.NewAwakeBodies(),
	)
	w.AddObserver(rec)
	return w, tracked, rec, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args[0])
	if err != nil {
		return err
	}
	w, tracked, rec, err := buildWithMetrics(cfg)
	if err != nil {
		return err
	}

	steps := cfg.Steps()
	traj := &store.Trajectory{
		Times:     make([]float64, 0, steps),
		Positions: make([][]float64, 0, steps),
	}

	if err := w.Start(); err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		if err := w.Update(); err != nil {
			return err
		}
		row := make([]float64, 0, 3*len(tracked))
		for _, h := range tracked {
			tr, err := w.Transform(h)
			if err != nil {
				return err
			}
			row = append(row,
				float64(tr.Position.X()), float64(tr.Position.Y()), float64(tr.Position.Z()))
		}
		traj.Times = append(traj.Times, float64(w.Time()))
		traj.Positions = append(traj.Positions, row)
	}

	fmt.Println(viz.Summary(cfg.Scene, rec.Values()))
	fmt.Println(viz.EnergyGraph(rec.Series("kinetic_energy"), "kinetic energy"))

	meta := store.RunMetadata{
		Scene:    cfg.Scene,
		Timestep: cfg.World.Timestep,
		Duration: cfg.Duration,
		Steps:    steps,
		Bodies:   len(tracked),
		Metrics:  toFloat64(rec.Values()),
	}
	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(meta, traj)
		if err != nil {
			return err
		}
		fmt.Printf("saved run %s\n", runID)
	}
	if exportPath != "" {
		if err := store.ExportJSON(exportPath, meta, traj); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", exportPath)
	}
	return nil
}

func watchScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args[0])
	if err != nil {
		return err
	}
	w, _, rec, err := buildWithMetrics(cfg)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	model := viz.NewModel(w, rec, cfg.Scene)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(viz.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCENE\tSTEPS\tBODIES\tWHEN")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			run.ID, run.Scene, run.Steps, run.Bodies,
			run.Timestamp.Format(time.RFC3339))
	}
	return tw.Flush()
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args[0])
	if err != nil {
		return err
	}
	w, _, _, err := buildWithMetrics(cfg)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	steps := cfg.Steps()
	start := time.Now()
	for i := 0; i < steps; i++ {
		if err := w.Update(); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("scene: %s\n", cfg.Scene)
	fmt.Printf("bodies: %d, steps: %d\n", w.BodyCount(), steps)
	fmt.Printf("wall time: %s (%.0f steps/s)\n",
		elapsed, float64(steps)/elapsed.Seconds())
	return nil
}

func toFloat64(values map[string]scalar.Real) map[string]float64 {
	out := make(map[string]float64, len(values))
	for k, v := range values {
		out[k] = float64(v)
	}
	return out
}
