package circuit

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestCapacitor(t *testing.T) *Capacitor {
	t.Helper()
	cfg := DefaultConfig()
	c, err := NewCapacitor(r3.Vec{}, cfg.PlateWidth, cfg.PlateSeparation, cfg.Layout.PlateHeight, cfg.MinPlateCharge)
	require.NoError(t, err)
	return c
}

func TestCapacitanceFormula(t *testing.T) {
	c := newTestCapacitor(t)
	require.NoError(t, c.SetPlateWidth(0.01))
	require.NoError(t, c.SetPlateSeparation(0.005))
	assert.InEpsilon(t, 1.7708e-13, c.Capacitance(), 1e-9)

	for _, tc := range []struct{ w, d float64 }{
		{0.01, 0.002}, {0.015, 0.006}, {0.02, 0.01}, {0.0125, 0.0042},
	} {
		require.NoError(t, c.SetPlateWidth(tc.w))
		require.NoError(t, c.SetPlateSeparation(tc.d))
		assert.InEpsilon(t, Epsilon0*tc.w*tc.w/tc.d, c.Capacitance(), 1e-12)
	}
}

func TestGeometrySetters(t *testing.T) {
	c := newTestCapacitor(t)

	for _, v := range []float64{0, -0.01, math.NaN()} {
		assert.True(t, errors.Is(c.SetPlateWidth(v), ErrNonPositiveGeometry))
		assert.True(t, errors.Is(c.SetPlateSeparation(v), ErrNonPositiveGeometry))
	}
	assert.Equal(t, 0.015, c.PlateWidth())
	assert.Equal(t, 0.006, c.PlateSeparation())

	require.NoError(t, c.SetPlateWidth(1))
	assert.Equal(t, 0.02, c.PlateWidth())
	require.NoError(t, c.SetPlateSeparation(1e-6))
	assert.Equal(t, 0.002, c.PlateSeparation())
}

func TestNewCapacitorRejectsNonPositiveRange(t *testing.T) {
	_, err := NewCapacitor(r3.Vec{}, Range{Min: 0, Max: 1, Default: 0.5}, Range{Min: 0.1, Max: 1, Default: 0.5}, 0.001, 0)
	assert.ErrorIs(t, err, ErrNonPositiveGeometry)
}

func TestChargeEnergyAndField(t *testing.T) {
	c := newTestCapacitor(t)
	c.SetPlateVoltage(1.5)
	capacitance := c.Capacitance()

	assert.InEpsilon(t, capacitance*1.5, c.PlateCharge(), 1e-12)
	assert.InEpsilon(t, 0.5*capacitance*1.5*1.5, c.StoredEnergy(), 1e-12)
	assert.InEpsilon(t, 1.5/0.006, c.EffectiveEField(), 1e-12)

	// below the charge floor both the charge and the field read zero
	c.SetPlateVoltage(1e-4)
	assert.Equal(t, 0.0, c.PlateCharge())
	assert.Equal(t, 0.0, c.EffectiveEField())
	assert.Greater(t, c.StoredEnergy(), 0.0)
}

func TestDischargeFollowsExponential(t *testing.T) {
	c := newTestCapacitor(t)
	c.SetPlateVoltage(1.5)
	c.BeginDischarge()

	const r = 5e12
	rc := r * c.Capacitance()
	for i := 1; i <= 10; i++ {
		c.Discharge(r, 100*time.Millisecond)
		want := 1.5 * math.Exp(-float64(i)*0.1/rc)
		assert.InDelta(t, want, c.PlateVoltage(), 1e-12)
	}
	assert.Equal(t, time.Second, c.TransientTime())
	assert.Equal(t, 1.5, c.VoltageAtSwitchClose())

	before := c.PlateVoltage()
	c.Discharge(r, 0)
	c.Discharge(0, time.Second)
	assert.Equal(t, before, c.PlateVoltage())
}

func TestUpdateDischargeParametersRescales(t *testing.T) {
	c := newTestCapacitor(t)
	c.SetPlateVoltage(1.2)
	c.BeginDischarge()
	c.Discharge(5e12, 500*time.Millisecond)
	v := c.PlateVoltage()
	q := c.PlateCharge()

	require.NoError(t, c.SetPlateSeparation(0.003))
	c.UpdateDischargeParameters()

	assert.InDelta(t, v/2, c.PlateVoltage(), 1e-12)
	assert.InEpsilon(t, q, c.PlateCharge(), 1e-9)
	assert.Equal(t, time.Duration(0), c.TransientTime())
	assert.Equal(t, c.PlateVoltage(), c.VoltageAtSwitchClose())
}

func TestPlateGeometry(t *testing.T) {
	c := newTestCapacitor(t)
	top, bottom := c.Plate(Top), c.Plate(Bottom)

	assert.InDelta(t, 0.003, top.Min.Y, 1e-15)
	assert.InDelta(t, -0.003, bottom.Max.Y, 1e-15)
	assert.InDelta(t, 0.015, top.Max.X-top.Min.X, 1e-15)
	assert.Equal(t, mirrorBox(top), bottom)
	assert.Equal(t, mirror(c.plateContact(Top)), c.plateContact(Bottom))
}

func TestCapacitorReset(t *testing.T) {
	c := newTestCapacitor(t)
	require.NoError(t, c.SetPlateWidth(0.011))
	require.NoError(t, c.SetPlateSeparation(0.009))
	c.SetPlateVoltage(1)
	c.BeginDischarge()
	c.Discharge(5e12, time.Second)

	c.Reset()
	assert.Equal(t, 0.015, c.PlateWidth())
	assert.Equal(t, 0.006, c.PlateSeparation())
	assert.Equal(t, 0.0, c.PlateVoltage())
	assert.Equal(t, time.Duration(0), c.TransientTime())
	assert.Equal(t, 0.0, c.VoltageAtSwitchClose())
}
