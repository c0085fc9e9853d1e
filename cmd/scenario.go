package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phetsims/capacitor-lab-basics-sub000/app"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/scenario"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/logger"
)

func newScenarioCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <script.yaml>...",
		Short: "Replay scenario scripts and check their expectations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd, root, args)
		},
	}
}

func runScenarios(cmd *cobra.Command, root *rootOptions, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	failed := 0
	for _, path := range args {
		if err := runScenario(ctx, cmd, root, path); err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(args))
	}
	return nil
}

func runScenario(ctx context.Context, cmd *cobra.Command, root *rootOptions, path string) (err error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	report, err := startMonitoring(cfg, "scenario")
	if err != nil {
		return err
	}
	defer func() { report(err) }()
	if sc.Variant != "" {
		cfg.Circuit.Variant = sc.Variant
		cfg.Circuit.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	rep, err := svc.RunScenario(ctx, sc)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "PASS %s (%d frames, %s)\n", sc.Name, rep.Frames, rep.Final.Connection)
	return nil
}
