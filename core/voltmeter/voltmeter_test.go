package voltmeter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
)

const r = 0.0002

var (
	batteryTop    = circuit.NewProbe(-0.03, 0.004, r)
	batteryBottom = circuit.NewProbe(-0.03, -0.004, r)
	plateTop      = circuit.NewProbe(0.005, 0.00325, r)
	plateTopLeft  = circuit.NewProbe(-0.005, 0.00325, r)
	plateBottom   = circuit.NewProbe(0.005, -0.00325, r)
	bulbTop       = circuit.NewProbe(0.03, 0.004, r)
	bulbBottom    = circuit.NewProbe(0.03, -0.004, r)
	nowhere       = circuit.NewProbe(0.015, 0.03, r)
)

func newCircuit(t *testing.T) *circuit.ParallelCircuit {
	t.Helper()
	c, err := circuit.NewParallelCircuit(circuit.DefaultConfig())
	require.NoError(t, err)
	return c
}

func TestBatteryAcrossTerminals(t *testing.T) {
	c := newCircuit(t)
	vm := New(c, batteryTop, batteryBottom)
	assert.Equal(t, Reading{Volts: 1.5, Known: true}, vm.Reading())

	c.Battery().SetVoltage(-0.5)
	assert.Equal(t, 1.5, vm.Reading().Volts, "reading only refreshes on Measure")
	assert.Equal(t, -0.5, vm.Measure().Volts)
	assert.Equal(t, -0.5, *vm.Reading().Value())
}

func TestFloatingProbeIsUnknown(t *testing.T) {
	c := newCircuit(t)
	vm := New(c, batteryTop, nowhere)
	assert.Equal(t, Unknown, vm.Reading())
	assert.Nil(t, vm.Reading().Value())
}

func TestSamePlateReadsZero(t *testing.T) {
	c := newCircuit(t)
	require.NoError(t, c.SetConnection(circuit.OpenCircuit))
	vm := New(c, plateTop, plateTopLeft)
	assert.Equal(t, Reading{Volts: 0, Known: true}, vm.Reading())

	vm.SetNegativeProbe(plateBottom)
	assert.True(t, vm.Reading().Known)
	assert.InDelta(t, 1.5, vm.Reading().Volts, 1e-12)
}

func TestTouchingTipsReadZero(t *testing.T) {
	c := newCircuit(t)
	vm := New(c, nowhere, nowhere)
	assert.Equal(t, Reading{Known: true}, vm.Reading())

	vm.SetPositiveProbe(batteryTop)
	vm.SetNegativeProbe(batteryTop)
	assert.Equal(t, Reading{Known: true}, vm.Reading())
}

func TestDisconnectedLightBulb(t *testing.T) {
	c := newCircuit(t)
	require.NoError(t, c.SetConnection(circuit.OpenCircuit))
	vm := New(c, bulbTop, batteryBottom)

	// one probe on the isolated bulb cannot establish a reading
	assert.Equal(t, Unknown, vm.Reading())

	// both on the same isolated conductor: no difference
	vm.SetNegativeProbe(bulbBottom)
	assert.Equal(t, Reading{Known: true}, vm.Reading())

	// once wired to the plates the bulb carries the plate voltage
	require.NoError(t, c.SetConnection(circuit.LightBulbConnected))
	vm.SetNegativeProbe(batteryBottom)
	got := vm.Reading()
	require.True(t, got.Known)
	assert.Equal(t, c.CapacitorPlateVoltage(), got.Volts)
}

func TestBulbUnknownInTransit(t *testing.T) {
	c := newCircuit(t)
	c.DragSwitch(0.2)
	vm := New(c, plateTop, plateBottom)
	assert.InDelta(t, 1.5, vm.Reading().Volts, 1e-12)

	// the island check runs before the per-state table
	vm.SetPositiveProbe(bulbTop)
	assert.Equal(t, Unknown, vm.Reading())
}

func TestMeasuredVoltageNotifies(t *testing.T) {
	c := newCircuit(t)
	vm := New(c, batteryTop, nowhere)

	var got []Reading
	vm.MeasuredVoltage().Subscribe(func(n, _ Reading) { got = append(got, n) })
	vm.SetNegativeProbe(batteryBottom)
	vm.SetNegativeProbe(plateBottom)
	assert.Equal(t, []Reading{{Volts: 1.5, Known: true}}, got)
	assert.Equal(t, batteryTop, vm.PositiveProbe())
	assert.Equal(t, plateBottom, vm.NegativeProbe())
}
