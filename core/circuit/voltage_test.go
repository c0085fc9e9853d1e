package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const probeRadius = 0.0002

var (
	onBatteryTop    = NewProbe(-0.03, 0.004, probeRadius)
	onBatteryBottom = NewProbe(-0.03, -0.004, probeRadius)
	onPlateTop      = NewProbe(0.005, 0.00325, probeRadius)
	onPlateBottom   = NewProbe(0.005, -0.00325, probeRadius)
	onBulbTop       = NewProbe(0.03, 0.004, probeRadius)
	onBulbBottom    = NewProbe(0.03, -0.004, probeRadius)
	inEmptySpace    = NewProbe(0.015, 0.03, probeRadius)
)

type reading struct {
	v  float64
	ok bool
}

func readAll(c *ParallelCircuit) map[string]reading {
	out := map[string]reading{}
	for name, p := range map[string]Probe{
		"battery_top":    onBatteryTop,
		"battery_bottom": onBatteryBottom,
		"plate_top":      onPlateTop,
		"plate_bottom":   onPlateBottom,
		"bulb_top":       onBulbTop,
		"bulb_bottom":    onBulbBottom,
		"empty":          inEmptySpace,
	} {
		v, ok := c.VoltageAt(p)
		out[name] = reading{v, ok}
	}
	return out
}

func TestVoltageAtBatteryConnected(t *testing.T) {
	c := newTestCircuit(t)
	got := readAll(c)

	assert.Equal(t, reading{1.5, true}, got["battery_top"])
	assert.Equal(t, reading{0, true}, got["battery_bottom"])
	assert.Equal(t, reading{1.5, true}, got["plate_top"])
	assert.Equal(t, reading{0, true}, got["plate_bottom"])
	assert.Equal(t, reading{0, true}, got["bulb_top"])
	assert.Equal(t, reading{0, true}, got["bulb_bottom"])
	assert.False(t, got["empty"].ok)
}

func TestVoltageAtOpenCircuit(t *testing.T) {
	c := newTestCircuit(t)
	require.NoError(t, c.SetConnection(OpenCircuit))
	c.Battery().SetVoltage(1.0)
	got := readAll(c)

	assert.Equal(t, reading{1.0, true}, got["battery_top"])
	assert.Equal(t, reading{0, true}, got["battery_bottom"])
	assert.True(t, got["plate_top"].ok)
	assert.InDelta(t, 1.5, got["plate_top"].v, 1e-12)
	assert.Equal(t, reading{0, true}, got["plate_bottom"])
	assert.Equal(t, reading{0, true}, got["bulb_top"])
	assert.False(t, got["empty"].ok)
}

func TestVoltageAtLightBulbConnected(t *testing.T) {
	c := newTestCircuit(t)
	require.NoError(t, c.SetConnection(LightBulbConnected))
	c.Step(frame)
	plate := c.CapacitorPlateVoltage()
	got := readAll(c)

	assert.Equal(t, reading{1.5, true}, got["battery_top"])
	assert.Equal(t, reading{0, true}, got["battery_bottom"])
	assert.Equal(t, reading{plate, true}, got["plate_top"])
	assert.Equal(t, reading{plate, true}, got["bulb_top"])
	assert.Equal(t, reading{0, true}, got["plate_bottom"])
	assert.Equal(t, reading{0, true}, got["bulb_bottom"])
}

func TestVoltageAtSwitchInTransit(t *testing.T) {
	c := newTestCircuit(t)
	c.DragSwitch(0.1)
	got := readAll(c)

	assert.Equal(t, reading{1.5, true}, got["battery_top"])
	assert.True(t, got["plate_top"].ok)
	assert.InDelta(t, 1.5, got["plate_top"].v, 1e-12)
	assert.Equal(t, reading{0, true}, got["plate_bottom"])
	assert.False(t, got["bulb_top"].ok)
	assert.False(t, got["bulb_bottom"].ok)
}

func TestSwitchBladeIsPartOfCapacitorNode(t *testing.T) {
	c := newTestCircuit(t)
	require.NoError(t, c.SetConnection(OpenCircuit))
	tip := c.TopSwitch().Tip()

	v, ok := c.VoltageAt(NewProbe(tip.X, tip.Y, probeRadius))
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-12)

	bottom := c.BottomSwitch().Tip()
	v, ok = c.VoltageAt(NewProbe(bottom.X, bottom.Y, probeRadius))
	require.True(t, ok)
	assert.Zero(t, v)
}

func TestDisconnectedIsland(t *testing.T) {
	c := newTestCircuit(t)
	assert.Equal(t, LightBulbIsland, c.DisconnectedIsland(onBulbTop))
	assert.Equal(t, LightBulbIsland, c.DisconnectedIsland(onBulbBottom))
	assert.Equal(t, NoIsland, c.DisconnectedIsland(onPlateTop))

	require.NoError(t, c.SetConnection(LightBulbConnected))
	assert.Equal(t, NoIsland, c.DisconnectedIsland(onBulbTop))

	cfg := DefaultConfig()
	cfg.Variant = VariantTwoState
	two, err := NewParallelCircuit(cfg)
	require.NoError(t, err)
	assert.Equal(t, NoIsland, two.DisconnectedIsland(onBulbTop))
	_, ok := two.VoltageAt(onBulbTop)
	assert.False(t, ok)
}

func TestProbeContact(t *testing.T) {
	a := NewProbe(0, 0, 0.001)
	assert.True(t, a.Touches(NewProbe(0.0015, 0, 0.001)))
	assert.False(t, a.Touches(NewProbe(0.0025, 0, 0.001)))

	s := Segment{Start: NewProbe(0, 0, 0).Tip, End: NewProbe(0.01, 0, 0).Tip, Thickness: 0.0004}
	assert.True(t, NewProbe(0.005, 0.0011, 0.001).TouchesSegment(s))
	assert.False(t, NewProbe(0.005, 0.0013, 0.001).TouchesSegment(s))
	assert.True(t, NewProbe(-0.0005, 0, 0.001).TouchesSegment(s))
	assert.False(t, NewProbe(-0.002, 0, 0.001).TouchesSegment(s))
}
