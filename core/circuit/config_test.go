package circuit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, VariantThreeState, cfg.Variant)
	assert.True(t, cfg.HasLightBulb())
	assert.Equal(t, []ConnectionState{BatteryConnected, OpenCircuit, LightBulbConnected}, cfg.Connections())
}

func TestTwoStateDefaults(t *testing.T) {
	cfg := Config{Variant: VariantTwoState}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	assert.Zero(t, cfg.LightBulbResistance)
	assert.Equal(t, []ConnectionState{BatteryConnected, OpenCircuit}, cfg.Connections())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"zero width min", func(c *Config) { c.PlateWidth.Min = 0 }, ErrNonPositiveGeometry},
		{"negative separation", func(c *Config) { c.PlateSeparation = Range{Min: -1, Max: 1, Default: 0.5} }, ErrNonPositiveGeometry},
		{"inverted range", func(c *Config) { c.BatteryVoltage = Range{Min: 1, Max: -1} }, ErrInvalidConfig},
		{"default outside", func(c *Config) { c.PlateWidth.Default = 1 }, ErrInvalidConfig},
		{"nan", func(c *Config) { c.BatteryVoltage.Max = math.NaN() }, ErrInvalidConfig},
		{"no bulb", func(c *Config) { c.LightBulbResistance = -1 }, ErrMissingLightBulb},
		{"variant", func(c *Config) { c.Variant = "four_state" }, ErrInvalidConfig},
		{"floors", func(c *Config) { c.MinVoltage = -1 }, ErrInvalidConfig},
		{"switch angle", func(c *Config) { c.Layout.SwitchAngle = 95 }, ErrInvalidConfig},
		{"hinge in plates", func(c *Config) { c.Layout.HingeY = 0.004 }, ErrInvalidConfig},
		{"wire thickness", func(c *Config) { c.Layout.WireThickness = -1 }, ErrNonPositiveGeometry},
		{"battery right", func(c *Config) { c.Layout.BatteryX = 0.05 }, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.err)
		})
	}
}

func TestRangeClamp(t *testing.T) {
	r := Range{Min: 1, Max: 2, Default: 1.5}
	assert.Equal(t, 1.0, r.Clamp(0))
	assert.Equal(t, 2.0, r.Clamp(3))
	assert.Equal(t, 1.2, r.Clamp(1.2))
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(2.1))
}
