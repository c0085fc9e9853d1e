package circuit

import (
	"fmt"
	"math"
)

// Variant selects the switch targets available to the user.
type Variant string

const (
	// VariantTwoState offers battery and open circuit.
	VariantTwoState Variant = "two_state"
	// VariantThreeState adds the light bulb.
	VariantThreeState Variant = "three_state"
)

// Range bounds a user adjustable quantity.
type Range struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// Clamp limits v to [Min, Max].
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

func (r Range) isZero() bool { return r == Range{} }

func (r Range) validate(name string) error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsNaN(r.Default) {
		return fmt.Errorf("%w: %s range contains NaN", ErrInvalidConfig, name)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s min %g above max %g", ErrInvalidConfig, name, r.Min, r.Max)
	}
	if !r.Contains(r.Default) {
		return fmt.Errorf("%w: %s default %g outside [%g, %g]", ErrInvalidConfig, name, r.Default, r.Min, r.Max)
	}
	return nil
}

// LayoutConfig places the components in the drawing plane, in metres. Only
// the top half is described; the bottom half mirrors it about y = 0.
type LayoutConfig struct {
	BatteryX     float64 `json:"battery_x"`
	LightBulbX   float64 `json:"light_bulb_x"`
	HingeY       float64 `json:"hinge_y"`
	SwitchLength float64 `json:"switch_length"`
	// SwitchAngle is the angle in degrees between the open position and
	// the battery or light-bulb targets.
	SwitchAngle    float64 `json:"switch_angle"`
	PlateHeight    float64 `json:"plate_height"`
	WireThickness  float64 `json:"wire_thickness"`
	TerminalY      float64 `json:"terminal_y"`
	TerminalWidth  float64 `json:"terminal_width"`
	TerminalHeight float64 `json:"terminal_height"`
}

// Config is the static configuration the circuit is built from.
type Config struct {
	PlateWidth          Range        `json:"plate_width"`
	PlateSeparation     Range        `json:"plate_separation"`
	BatteryVoltage      Range        `json:"battery_voltage"`
	LightBulbResistance float64      `json:"light_bulb_resistance"`
	Variant             Variant      `json:"variant"`
	MinPlateCharge      float64      `json:"min_plate_charge"`
	MinVoltage          float64      `json:"min_voltage"`
	Layout              LayoutConfig `json:"layout"`
}

// DefaultConfig returns the three-state circuit with light bulb.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.PlateWidth.isZero() {
		c.PlateWidth = Range{Min: 0.01, Max: 0.02, Default: 0.015}
	}
	if c.PlateSeparation.isZero() {
		c.PlateSeparation = Range{Min: 0.002, Max: 0.01, Default: 0.006}
	}
	if c.BatteryVoltage.isZero() {
		c.BatteryVoltage = Range{Min: -1.5, Max: 1.5, Default: 1.5}
	}
	if c.Variant == "" {
		c.Variant = VariantThreeState
	}
	if c.LightBulbResistance == 0 && c.Variant == VariantThreeState {
		c.LightBulbResistance = DefaultLightBulbResistance
	}
	if c.MinPlateCharge == 0 {
		c.MinPlateCharge = DefaultMinPlateCharge
	}
	if c.MinVoltage == 0 {
		c.MinVoltage = DefaultMinVoltage
	}
	c.Layout.setDefaults()
}

func (l *LayoutConfig) setDefaults() {
	if l.BatteryX == 0 {
		l.BatteryX = -0.03
	}
	if l.LightBulbX == 0 {
		l.LightBulbX = 0.03
	}
	if l.HingeY == 0 {
		l.HingeY = 0.012
	}
	if l.SwitchLength == 0 {
		l.SwitchLength = 0.006
	}
	if l.SwitchAngle == 0 {
		l.SwitchAngle = 45
	}
	if l.PlateHeight == 0 {
		l.PlateHeight = 0.0005
	}
	if l.WireThickness == 0 {
		l.WireThickness = 0.0005
	}
	if l.TerminalY == 0 {
		l.TerminalY = 0.004
	}
	if l.TerminalWidth == 0 {
		l.TerminalWidth = 0.004
	}
	if l.TerminalHeight == 0 {
		l.TerminalHeight = 0.002
	}
}

// Validate checks the configuration. Problems are construction-time
// programming errors and are reported wrapped in ErrInvalidConfig,
// ErrNonPositiveGeometry or ErrMissingLightBulb.
func (c Config) Validate() error {
	if err := c.PlateWidth.validate("plate_width"); err != nil {
		return err
	}
	if c.PlateWidth.Min <= 0 {
		return fmt.Errorf("plate_width min %g: %w", c.PlateWidth.Min, ErrNonPositiveGeometry)
	}
	if err := c.PlateSeparation.validate("plate_separation"); err != nil {
		return err
	}
	if c.PlateSeparation.Min <= 0 {
		return fmt.Errorf("plate_separation min %g: %w", c.PlateSeparation.Min, ErrNonPositiveGeometry)
	}
	if err := c.BatteryVoltage.validate("battery_voltage"); err != nil {
		return err
	}
	switch c.Variant {
	case VariantTwoState:
	case VariantThreeState:
		if !(c.LightBulbResistance > 0) {
			return fmt.Errorf("%w: resistance %g", ErrMissingLightBulb, c.LightBulbResistance)
		}
	default:
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, c.Variant)
	}
	if c.MinPlateCharge < 0 || c.MinVoltage < 0 {
		return fmt.Errorf("%w: numerical floors must not be negative", ErrInvalidConfig)
	}
	return c.Layout.validate(c.PlateSeparation.Max)
}

func (l LayoutConfig) validate(maxSeparation float64) error {
	for name, v := range map[string]float64{
		"switch_length":   l.SwitchLength,
		"plate_height":    l.PlateHeight,
		"wire_thickness":  l.WireThickness,
		"terminal_width":  l.TerminalWidth,
		"terminal_height": l.TerminalHeight,
	} {
		if !(v > 0) {
			return fmt.Errorf("layout %s %g: %w", name, v, ErrNonPositiveGeometry)
		}
	}
	if l.SwitchAngle <= 0 || l.SwitchAngle >= 90 {
		return fmt.Errorf("%w: switch_angle %g must be in (0, 90)", ErrInvalidConfig, l.SwitchAngle)
	}
	if l.HingeY <= maxSeparation/2+l.PlateHeight {
		return fmt.Errorf("%w: hinge_y %g overlaps the plates", ErrInvalidConfig, l.HingeY)
	}
	if l.BatteryX >= 0 || l.LightBulbX <= 0 {
		return fmt.Errorf("%w: battery must sit left and light bulb right of the capacitor", ErrInvalidConfig)
	}
	return nil
}

// HasLightBulb reports whether the variant includes the light bulb.
func (c Config) HasLightBulb() bool { return c.Variant == VariantThreeState }

// Connections returns the switch targets of the variant in switch order.
func (c Config) Connections() []ConnectionState {
	if c.HasLightBulb() {
		return []ConnectionState{BatteryConnected, OpenCircuit, LightBulbConnected}
	}
	return []ConnectionState{BatteryConnected, OpenCircuit}
}
