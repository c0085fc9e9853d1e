package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/phetsims/capacitor-lab-basics-sub000/app"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/logger"
)

type runOptions struct {
	*rootOptions
	steps      int
	dt         time.Duration
	connection string
	realtime   bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	o := &runOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step the circuit and record every frame to the configured sinks",
		Args:  cobra.NoArgs,
		RunE:  o.run,
	}
	cmd.Flags().IntVar(&o.steps, "steps", 0, "number of frames (overrides simulation.steps)")
	cmd.Flags().DurationVar(&o.dt, "dt", 0, "simulated time per frame (overrides simulation.frame_interval)")
	cmd.Flags().StringVar(&o.connection, "connection", "", "switch position: battery, open or light_bulb")
	cmd.Flags().BoolVar(&o.realtime, "realtime", false, "pace frames on the wall clock")
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Simulation.Steps = o.steps
	}
	if flags.Changed("dt") {
		cfg.Simulation.FrameInterval = o.dt
	}
	if flags.Changed("connection") {
		cfg.Simulation.Connection = o.connection
	}
	if flags.Changed("realtime") {
		cfg.Simulation.Realtime = o.realtime
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Simulation.FrameInterval <= 0 {
		return fmt.Errorf("dt must be positive")
	}
	report, err := startMonitoring(cfg, "run")
	if err != nil {
		return err
	}
	defer func() { report(err) }()

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	rep, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), rep)
}
