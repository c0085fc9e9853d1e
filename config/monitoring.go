package config

import (
	"fmt"

	"github.com/phetsims/capacitor-lab-basics-sub000/infra/monitoring"
)

// MonitoringConfig enables error reporting.
type MonitoringConfig struct {
	Sentry monitoring.SentryConfig `json:"sentry"`
}

func (c MonitoringConfig) Validate() error {
	if r := c.Sentry.TracesSampleRate; r < 0 || r > 1 {
		return fmt.Errorf("traces_sample_rate %g outside [0, 1]", r)
	}
	return nil
}
