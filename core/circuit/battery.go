package circuit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phetsims/capacitor-lab-basics-sub000/internal/observable"
)

// Polarity is the sign of the battery EMF.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// Battery is an ideal EMF source whose voltage is set by the user.
type Battery struct {
	location r3.Vec
	limits   Range
	voltage  *observable.Property[float64]
}

// NewBattery returns a battery at location holding limits.Default volts.
func NewBattery(location r3.Vec, limits Range) *Battery {
	return &Battery{
		location: location,
		limits:   limits,
		voltage:  observable.NewProperty(limits.Clamp(limits.Default)),
	}
}

// Voltage returns the EMF in volts.
func (b *Battery) Voltage() float64 { return b.voltage.Get() }

// SetVoltage sets the EMF, clamped to the configured range. NaN is ignored.
func (b *Battery) SetVoltage(v float64) {
	if math.IsNaN(v) {
		return
	}
	b.voltage.Set(b.limits.Clamp(v))
}

// VoltageProperty exposes the EMF for observers.
func (b *Battery) VoltageProperty() *observable.Property[float64] { return b.voltage }

// Polarity is derived from the voltage sign; zero counts as positive.
func (b *Battery) Polarity() Polarity {
	if b.voltage.Get() < 0 {
		return Negative
	}
	return Positive
}

// Range returns the configured voltage range.
func (b *Battery) Range() Range { return b.limits }

// Location returns the battery centre.
func (b *Battery) Location() r3.Vec { return b.location }

// Reset restores the default voltage.
func (b *Battery) Reset() { b.voltage.Reset() }
