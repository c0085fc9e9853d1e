package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/voltmeter"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/logger"
)

type probeOptions struct {
	*rootOptions
	a, b       []float64
	connection string
	radius     float64
}

func newProbeCmd(root *rootOptions) *cobra.Command {
	o := &probeOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Read the voltmeter between two points of the drawing plane",
		Args:  cobra.NoArgs,
		RunE:  o.run,
	}
	cmd.Flags().Float64SliceVar(&o.a, "a", nil, "positive probe x,y in metres")
	cmd.Flags().Float64SliceVar(&o.b, "b", nil, "negative probe x,y in metres")
	cmd.Flags().StringVar(&o.connection, "connection", "", "switch position: battery, open or light_bulb")
	cmd.Flags().Float64Var(&o.radius, "radius", 0, "probe tip radius (overrides voltmeter.probe_radius)")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func (o *probeOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	if len(o.a) != 2 || len(o.b) != 2 {
		return fmt.Errorf("probes take exactly two coordinates x,y")
	}
	radius := cfg.Voltmeter.ProbeRadius
	if cmd.Flags().Changed("radius") {
		radius = o.radius
	}
	if !(radius > 0) {
		return fmt.Errorf("radius must be positive")
	}

	c, err := circuit.NewParallelCircuit(cfg.Circuit, circuit.WithLogger(logger.New("circuit")))
	if err != nil {
		return err
	}
	state := cfg.Simulation.InitialConnection()
	if o.connection != "" {
		if state, err = circuit.ParseConnectionState(o.connection); err != nil {
			return err
		}
	}
	if err := c.SetConnection(state); err != nil {
		return err
	}

	vm := voltmeter.New(c,
		circuit.NewProbe(o.a[0], o.a[1], radius),
		circuit.NewProbe(o.b[0], o.b[1], radius),
	)
	out := cmd.OutOrStdout()
	if v := vm.Reading().Value(); v != nil {
		fmt.Fprintf(out, "%.6g V\n", *v)
	} else {
		fmt.Fprintln(out, "unknown")
	}
	return nil
}
