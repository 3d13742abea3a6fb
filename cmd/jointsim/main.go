package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/jointsim/internal/config"
	"github.com/san-kum/jointsim/internal/control"
	"github.com/san-kum/jointsim/internal/ecs"
	"github.com/san-kum/jointsim/internal/integrators"
	"github.com/san-kum/jointsim/internal/metrics"
	"github.com/san-kum/jointsim/internal/physics"
	"github.com/san-kum/jointsim/internal/sim"
	"github.com/san-kum/jointsim/internal/storage"
	"github.com/san-kum/jointsim/internal/systems/jointctl"
	"github.com/san-kum/jointsim/internal/transport"
	"github.com/san-kum/jointsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string
	dt         float64
	duration   float64
	verbose    bool
	frameRate  int
	canIface   string
	canID      uint32
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jointsim",
		Short: "joint actuation control lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".jointsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario headless and store the trace",
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	runCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scenario with live visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	liveCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	liveCmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&canIface, "can-iface", "", "SocketCAN interface for external commands")
	liveCmd.Flags().Uint32Var(&canID, "can-id", 0x100, "CAN arbitration id carrying commands")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadScenario(cmd *cobra.Command) (*config.Scenario, error) {
	cfg := config.DefaultScenario()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") || cfg.Integrator == "" {
		cfg.Integrator = integrator
	}

	return cfg, cfg.Validate()
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// world is the assembled simulation: store, transport, systems, collector.
type world struct {
	runner    *sim.Runner
	node      *transport.Node
	ctl       *jointctl.System
	joint     ecs.Entity
	topic     string
	collector *metrics.Collector
}

func buildWorld(cfg *config.Scenario, log *zap.Logger) (*world, error) {
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, integrators.List())
	}

	ecm := ecs.NewManager()
	modelEnt := ecm.CreateModel(cfg.Model)
	jointEnt := ecm.CreateJoint(cfg.Joint.Name, modelEnt)

	node := transport.NewNode()

	ctl := jointctl.New(jointctl.Config{
		JointName:        cfg.Controller.JointName,
		Topic:            cfg.Controller.Topic,
		InitialVelocity:  cfg.Controller.InitialVelocity,
		UseForceCommands: cfg.Controller.UseForceCommands,
		PID: control.PIDConfig{
			P:         cfg.Controller.PGain,
			I:         cfg.Controller.IGain,
			D:         cfg.Controller.DGain,
			IMax:      cfg.Controller.IMax,
			IMin:      cfg.Controller.IMin,
			CmdMax:    cfg.Controller.CmdMax,
			CmdMin:    cfg.Controller.CmdMin,
			CmdOffset: cfg.Controller.CmdOffset,
		},
	}, ecs.NewModel(modelEnt), ecm, node, log)

	dyn := &physics.Joint{Inertia: cfg.Joint.Inertia, Damping: cfg.Joint.Damping}

	runner := sim.NewRunner(ecm, log)
	runner.AddSystem(ctl)
	runner.AddSystem(physics.NewSystem(jointEnt, dyn, integ, ecm))

	collector := metrics.NewCollector(jointEnt, ecm, ctl.Target)
	collector.Add(metrics.NewControlEffort())
	collector.Add(metrics.NewTrackingError())
	runner.AddObserver(collector)

	topic := cfg.Controller.Topic
	if topic == "" {
		topic = jointctl.DefaultTopic(cfg.Model, cfg.Controller.JointName)
	}

	return &world{
		runner:    runner,
		node:      node,
		ctl:       ctl,
		joint:     jointEnt,
		topic:     topic,
		collector: collector,
	}, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := buildWorld(cfg, log)
	if err != nil {
		return err
	}

	fmt.Printf("running %s/%s (%s)...\n", cfg.Model, cfg.Joint.Name, cfg.Integrator)
	start := time.Now()

	if err := w.runner.Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}); err != nil {
		return err
	}

	elapsed := time.Since(start)

	vals := w.collector.Values()
	runID, err := st.Save(cfg.Model, cfg.Joint.Name, cfg.Controller.UseForceCommands,
		cfg.Dt, cfg.Duration, vals, w.collector.Trace)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(w.collector.Trace))
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, vals[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	// The live view owns the terminal; keep logs out of it.
	log := zap.NewNop()
	if verbose {
		log, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}

	w, err := buildWorld(cfg, log)
	if err != nil {
		return err
	}

	if canIface != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		bridge, err := transport.NewCANBridge(ctx, canIface, canID, w.node, w.topic)
		if err != nil {
			return err
		}
		go bridge.Run(ctx)
	}

	title := fmt.Sprintf("jointsim · %s/%s", cfg.Model, cfg.Joint.Name)
	m := viz.NewModel(w.runner, w.ctl, w.node, w.collector, w.topic, w.joint, cfg.Dt, frameRate, title)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tJOINT\tMODE\tTIME\tDURATION\tDT")

	for _, run := range runs {
		mode := "velocity"
		if run.ForceMode {
			mode = "force"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2fs\t%.4fs\n",
			run.ID,
			run.Model,
			run.Joint,
			mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
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

	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s joint: %s\n", meta.Model, meta.Joint)
	fmt.Printf("samples: %d\n\n", len(trace))

	measured := make([]float64, len(trace))
	target := make([]float64, len(trace))
	cmds := make([]float64, len(trace))
	for i, s := range trace {
		measured[i] = s.Measured
		target[i] = s.Target
		cmds[i] = s.Cmd
	}

	graph := asciigraph.PlotMany(
		[][]float64{target, measured},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("velocity: target vs measured"),
	)
	fmt.Println(graph)
	fmt.Println()

	caption := "velocity command"
	if meta.ForceMode {
		caption = "force command"
	}
	graph = asciigraph.Plot(cmds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
