package config

import (
	"fmt"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
)

// Point is a position in the drawing plane in metres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VoltmeterConfig places the probes read on every frame.
type VoltmeterConfig struct {
	Enabled     bool    `json:"enabled"`
	Positive    Point   `json:"positive"`
	Negative    Point   `json:"negative"`
	ProbeRadius float64 `json:"probe_radius"`
}

// SetDefaults puts the probes across the battery terminals.
func (c *VoltmeterConfig) SetDefaults() {
	if c.Positive == (Point{}) && c.Negative == (Point{}) {
		c.Positive = Point{X: -0.03, Y: 0.004}
		c.Negative = Point{X: -0.03, Y: -0.004}
	}
	if c.ProbeRadius == 0 {
		c.ProbeRadius = 0.0002
	}
}

func (c VoltmeterConfig) Validate() error {
	if !(c.ProbeRadius > 0) {
		return fmt.Errorf("probe_radius must be positive")
	}
	return nil
}

// Probes returns the configured probe tips.
func (c VoltmeterConfig) Probes() (positive, negative circuit.Probe) {
	return circuit.NewProbe(c.Positive.X, c.Positive.Y, c.ProbeRadius),
		circuit.NewProbe(c.Negative.X, c.Negative.Y, c.ProbeRadius)
}
