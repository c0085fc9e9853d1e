package config

import (
	"fmt"
	"time"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
)

// SimulationConfig drives the frame loop.
type SimulationConfig struct {
	// FrameInterval is the simulated time advanced per frame.
	FrameInterval time.Duration `json:"frame_interval"`
	// Steps is the number of frames of a run. Zero with Realtime runs until
	// canceled.
	Steps int `json:"steps"`
	// Realtime paces frames on a wall-clock ticker.
	Realtime bool `json:"realtime"`
	// BufferSize is the snapshot channel capacity of each sink collector.
	BufferSize int `json:"buffer_size"`
	// Connection is applied before the first frame.
	Connection string `json:"connection"`
	// Scenario optionally names a scenario file to replay instead.
	Scenario string `json:"scenario"`
}

// SetDefaults fills unset fields.
func (c *SimulationConfig) SetDefaults() {
	if c.FrameInterval <= 0 {
		c.FrameInterval = 16 * time.Millisecond
	}
	if c.Steps == 0 && !c.Realtime {
		c.Steps = 600
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 256
	}
	if c.Connection == "" {
		c.Connection = circuit.BatteryConnected.String()
	}
}

// Validate checks the loop settings against the circuit variant.
func (c SimulationConfig) Validate(cc circuit.Config) error {
	if c.Steps < 0 {
		return fmt.Errorf("steps must not be negative")
	}
	if c.Steps == 0 && !c.Realtime {
		return fmt.Errorf("steps required unless realtime")
	}
	state, err := circuit.ParseConnectionState(c.Connection)
	if err != nil {
		return err
	}
	for _, s := range cc.Connections() {
		if s == state {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", circuit.ErrUnsupportedConnection, state)
}

// InitialConnection returns the parsed Connection.
func (c SimulationConfig) InitialConnection() circuit.ConnectionState {
	s, err := circuit.ParseConnectionState(c.Connection)
	if err != nil {
		return circuit.BatteryConnected
	}
	return s
}
