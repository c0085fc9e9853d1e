package circuit

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phetsims/capacitor-lab-basics-sub000/internal/observable"
)

// Capacitor is a vacuum parallel-plate capacitor with square plates.
type Capacitor struct {
	location       r3.Vec
	plateHeight    float64
	widthRange     Range
	sepRange       Range
	minPlateCharge float64

	plateWidth      *observable.Property[float64]
	plateSeparation *observable.Property[float64]
	plateVoltage    *observable.Property[float64]

	// discharge bookkeeping, seconds and volts
	transientTime        float64
	voltageAtSwitchClose float64
	previousCapacitance  float64
}

// NewCapacitor builds an uncharged capacitor at the default geometry of the
// given ranges. plateHeight is the drawn plate thickness.
func NewCapacitor(location r3.Vec, width, separation Range, plateHeight, minPlateCharge float64) (*Capacitor, error) {
	if !(width.Min > 0) {
		return nil, fmt.Errorf("plate width range min %g: %w", width.Min, ErrNonPositiveGeometry)
	}
	if !(separation.Min > 0) {
		return nil, fmt.Errorf("plate separation range min %g: %w", separation.Min, ErrNonPositiveGeometry)
	}
	c := &Capacitor{
		location:        location,
		plateHeight:     plateHeight,
		widthRange:      width,
		sepRange:        separation,
		minPlateCharge:  minPlateCharge,
		plateWidth:      observable.NewProperty(width.Clamp(width.Default)),
		plateSeparation: observable.NewProperty(separation.Clamp(separation.Default)),
		plateVoltage:    observable.NewProperty(0.0),
	}
	c.previousCapacitance = c.Capacitance()
	return c, nil
}

// PlateWidth returns the side length of the square plates in metres.
func (c *Capacitor) PlateWidth() float64 { return c.plateWidth.Get() }

// SetPlateWidth sets the plate side length, clamped to the configured range.
func (c *Capacitor) SetPlateWidth(w float64) error {
	if !(w > 0) {
		return fmt.Errorf("plate width %g: %w", w, ErrNonPositiveGeometry)
	}
	c.plateWidth.Set(c.widthRange.Clamp(w))
	return nil
}

// PlateSeparation returns the gap between the plates in metres.
func (c *Capacitor) PlateSeparation() float64 { return c.plateSeparation.Get() }

// SetPlateSeparation sets the plate gap, clamped to the configured range.
func (c *Capacitor) SetPlateSeparation(d float64) error {
	if !(d > 0) {
		return fmt.Errorf("plate separation %g: %w", d, ErrNonPositiveGeometry)
	}
	c.plateSeparation.Set(c.sepRange.Clamp(d))
	return nil
}

// PlateVoltage returns the voltage across the plates.
func (c *Capacitor) PlateVoltage() float64 { return c.plateVoltage.Get() }

// SetPlateVoltage is used by the circuit to drive the plates.
func (c *Capacitor) SetPlateVoltage(v float64) { c.plateVoltage.Set(v) }

func (c *Capacitor) PlateWidthProperty() *observable.Property[float64]      { return c.plateWidth }
func (c *Capacitor) PlateSeparationProperty() *observable.Property[float64] { return c.plateSeparation }
func (c *Capacitor) PlateVoltageProperty() *observable.Property[float64]    { return c.plateVoltage }

// PlateArea returns the area of one plate.
func (c *Capacitor) PlateArea() float64 {
	w := c.plateWidth.Get()
	return w * w
}

// Capacitance returns ε0·A/d in farads.
func (c *Capacitor) Capacitance() float64 {
	return Epsilon0 * c.PlateArea() / c.plateSeparation.Get()
}

// PlateCharge returns C·V, reading exactly zero below the minimum charge.
func (c *Capacitor) PlateCharge() float64 {
	q := c.Capacitance() * c.plateVoltage.Get()
	if math.Abs(q) < c.minPlateCharge {
		return 0
	}
	return q
}

// StoredEnergy returns ½·C·V² in joules.
func (c *Capacitor) StoredEnergy() float64 {
	v := c.plateVoltage.Get()
	return 0.5 * c.Capacitance() * v * v
}

// EffectiveEField returns V/d, or zero while the charge is below the
// minimum plate charge.
func (c *Capacitor) EffectiveEField() float64 {
	if math.Abs(c.Capacitance()*c.plateVoltage.Get()) < c.minPlateCharge {
		return 0
	}
	return c.plateVoltage.Get() / c.plateSeparation.Get()
}

// BeginDischarge captures the operating point at the moment the capacitor
// is switched onto a resistive load.
func (c *Capacitor) BeginDischarge() {
	c.transientTime = 0
	c.voltageAtSwitchClose = c.plateVoltage.Get()
	c.previousCapacitance = c.Capacitance()
}

// Discharge advances the analytic solution of Ic = -RC·dVc/dt by dt:
// Vc(t) = V0·exp(-t/RC). It must only be called while the capacitor is
// wired to the load.
func (c *Capacitor) Discharge(resistance float64, dt time.Duration) {
	if !(resistance > 0) || dt <= 0 {
		return
	}
	c.transientTime += dt.Seconds()
	rc := resistance * c.Capacitance()
	c.plateVoltage.Set(c.voltageAtSwitchClose * math.Exp(-c.transientTime/rc))
}

// UpdateDischargeParameters restarts the decay after a geometry change
// during discharge. Charge is continuous while capacitance jumps, so the
// voltage is rescaled by C_old/C_new and becomes the new initial condition.
func (c *Capacitor) UpdateDischargeParameters() {
	capacitance := c.Capacitance()
	if c.previousCapacitance > 0 {
		c.voltageAtSwitchClose = c.plateVoltage.Get() / (capacitance / c.previousCapacitance)
	} else {
		c.voltageAtSwitchClose = c.plateVoltage.Get()
	}
	c.transientTime = 0
	c.previousCapacitance = capacitance
	c.plateVoltage.Set(c.voltageAtSwitchClose)
}

// TransientTime is the time elapsed since the discharge initial condition
// was last captured.
func (c *Capacitor) TransientTime() time.Duration {
	return time.Duration(c.transientTime * float64(time.Second))
}

// VoltageAtSwitchClose is the initial condition of the current decay.
func (c *Capacitor) VoltageAtSwitchClose() float64 { return c.voltageAtSwitchClose }

// Location returns the centre of the capacitor.
func (c *Capacitor) Location() r3.Vec { return c.location }

// Plate returns the box occupied by the plate on side s.
func (c *Capacitor) Plate(s Side) r3.Box {
	w := c.plateWidth.Get()
	y := c.plateSeparation.Get()/2 + c.plateHeight/2
	return boxOnSide(centeredBox(r3.Add(c.location, r3.Vec{Y: y}), w, c.plateHeight), s)
}

// plateContact is the point where the lead attaches to the outer plate face.
func (c *Capacitor) plateContact(s Side) r3.Vec {
	y := c.plateSeparation.Get()/2 + c.plateHeight
	return onSide(r3.Add(c.location, r3.Vec{Y: y}), s)
}

// Reset restores the default geometry and discharges the plates.
func (c *Capacitor) Reset() {
	c.plateWidth.Reset()
	c.plateSeparation.Reset()
	c.plateVoltage.Reset()
	c.transientTime = 0
	c.voltageAtSwitchClose = 0
	c.previousCapacitance = c.Capacitance()
}
