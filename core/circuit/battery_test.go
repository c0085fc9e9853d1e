package circuit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBatteryVoltageClamp(t *testing.T) {
	b := NewBattery(r3.Vec{X: -0.03}, Range{Min: -1.5, Max: 1.5, Default: 1.5})
	assert.Equal(t, 1.5, b.Voltage())
	assert.Equal(t, Positive, b.Polarity())

	b.SetVoltage(-3)
	assert.Equal(t, -1.5, b.Voltage())
	assert.Equal(t, Negative, b.Polarity())

	b.SetVoltage(0)
	assert.Equal(t, Positive, b.Polarity())

	b.Reset()
	assert.Equal(t, 1.5, b.Voltage())
}

func TestBatteryIgnoresNaN(t *testing.T) {
	b := NewBattery(r3.Vec{}, Range{Min: -1.5, Max: 1.5, Default: -1})
	calls := 0
	b.VoltageProperty().Subscribe(func(float64, float64) { calls++ })

	b.SetVoltage(math.NaN())
	assert.Equal(t, -1.0, b.Voltage())
	assert.Equal(t, Negative, b.Polarity())
	assert.Zero(t, calls)
}

func TestNaNVoltageKeepsPlatesFinite(t *testing.T) {
	c, err := NewParallelCircuit(DefaultConfig())
	require.NoError(t, err)
	q := c.TotalCharge()

	c.Battery().SetVoltage(math.NaN())
	require.NoError(t, c.SetConnection(OpenCircuit))

	assert.Equal(t, 1.5, c.Battery().Voltage())
	assert.InDelta(t, 1.5, c.CapacitorPlateVoltage(), 1e-9)
	assert.Equal(t, q, c.DisconnectedPlateCharge())
	assert.False(t, math.IsNaN(c.TotalCharge()))
}

func TestBatteryNotifiesObservers(t *testing.T) {
	b := NewBattery(r3.Vec{}, Range{Min: -1.5, Max: 1.5, Default: 0})
	var got []float64
	b.VoltageProperty().Subscribe(func(v, _ float64) { got = append(got, v) })

	b.SetVoltage(1)
	b.SetVoltage(1)
	b.SetVoltage(9)
	assert.Equal(t, []float64{1, 1.5}, got)
}

func TestLightBulbCurrent(t *testing.T) {
	l := NewLightBulb(r3.Vec{X: 0.03}, 5e12)
	assert.Equal(t, 5e12, l.Resistance())
	assert.InEpsilon(t, 3e-13, l.Current(1.5), 1e-12)
	assert.Equal(t, 0.0, l.Current(0))
}
