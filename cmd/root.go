package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phetsims/capacitor-lab-basics-sub000/config"
	coremon "github.com/phetsims/capacitor-lab-basics-sub000/core/monitoring"
	"github.com/phetsims/capacitor-lab-basics-sub000/infra/monitoring"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	cfgPath string
}

// newRootCmd builds the command tree. Flag values live in the tree, so each
// call starts from the defaults.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "caplab",
		Short:         "Capacitor circuit simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
	root.AddCommand(newRunCmd(opts), newScenarioCmd(opts), newProbeCmd(opts))
	return root
}

// Execute runs the CLI.
func Execute() error { return newRootCmd().Execute() }

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// startMonitoring installs the configured error tracker. The returned func
// reports err, if any, and flushes pending events.
func startMonitoring(cfg *config.Config, command string) (func(err error), error) {
	m, err := monitoring.NewSentryMonitor(cfg.Monitoring.Sentry)
	if err != nil {
		return nil, fmt.Errorf("monitoring: %w", err)
	}
	coremon.Init(m)
	return func(err error) {
		coremon.CaptureException(err, map[string]string{"command": command})
		coremon.Flush(2 * time.Second)
	}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
