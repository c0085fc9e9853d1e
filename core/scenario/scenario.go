// Package scenario loads and replays scripted interactions with a
// ParallelCircuit. Scripts are YAML files listing actions applied in order
// and the state expected once they have all run.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
)

// Action types.
const (
	ActionSetVoltage         = "set_voltage"
	ActionSetPlateWidth      = "set_plate_width"
	ActionSetPlateSeparation = "set_plate_separation"
	ActionConnect            = "connect"
	ActionDragSwitch         = "drag_switch"
	ActionReleaseSwitch      = "release_switch"
	ActionStep               = "step"
	ActionReset              = "reset"
)

// Action is one scripted interaction.
type Action struct {
	Type       string  `yaml:"type"`
	Value      float64 `yaml:"value,omitempty"`
	Connection string  `yaml:"connection,omitempty"`
	Steps      int     `yaml:"steps,omitempty"`
	DtMS       int     `yaml:"dt_ms,omitempty"`
}

// Expect lists the checks run after the last action. Unset fields are not
// checked. A value passes when it is within MinAbs or within the relative
// Tolerance of the expectation.
type Expect struct {
	Connection       string   `yaml:"connection,omitempty"`
	PlateVoltage     *float64 `yaml:"plate_voltage,omitempty"`
	PlateCharge      *float64 `yaml:"plate_charge,omitempty"`
	Capacitance      *float64 `yaml:"capacitance,omitempty"`
	StoredEnergy     *float64 `yaml:"stored_energy,omitempty"`
	CurrentAmplitude *float64 `yaml:"current_amplitude,omitempty"`
	Tolerance        float64  `yaml:"tolerance,omitempty"`
	MinAbs           float64  `yaml:"min_abs,omitempty"`
}

// Scenario is a named script.
type Scenario struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Variant     circuit.Variant `yaml:"variant,omitempty"`
	Actions     []Action        `yaml:"actions"`
	Expect      Expect          `yaml:"expect"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks every action.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario name required")
	}
	for i, a := range s.Actions {
		if err := a.validate(); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	if s.Expect.Connection != "" {
		if _, err := circuit.ParseConnectionState(s.Expect.Connection); err != nil {
			return fmt.Errorf("expect: %w", err)
		}
	}
	if s.Expect.Tolerance < 0 || s.Expect.MinAbs < 0 {
		return errors.New("expect: tolerances must not be negative")
	}
	return nil
}

func (a Action) validate() error {
	switch a.Type {
	case ActionSetVoltage, ActionSetPlateWidth, ActionSetPlateSeparation,
		ActionDragSwitch, ActionReleaseSwitch, ActionReset:
		return nil
	case ActionConnect:
		_, err := circuit.ParseConnectionState(a.Connection)
		return err
	case ActionStep:
		if a.Steps <= 0 || a.DtMS <= 0 {
			return fmt.Errorf("step needs positive steps and dt_ms, got %d and %d", a.Steps, a.DtMS)
		}
		return nil
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
}
