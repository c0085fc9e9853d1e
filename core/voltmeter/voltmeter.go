// Package voltmeter measures potential differences between two probe tips
// placed anywhere in the circuit drawing plane.
package voltmeter

import (
	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	"github.com/phetsims/capacitor-lab-basics-sub000/internal/observable"
)

// Circuit is what the voltmeter needs from the circuit under test.
type Circuit interface {
	VoltageAt(p circuit.Probe) (float64, bool)
	DisconnectedIsland(p circuit.Probe) circuit.Island
}

// Reading is a voltmeter display value. Known is false when the probes do
// not establish a measurable potential difference.
type Reading struct {
	Volts float64 `json:"volts"`
	Known bool    `json:"known"`
}

// Unknown is the reading shown when nothing can be measured.
var Unknown = Reading{}

// Value returns nil for an unknown reading.
func (r Reading) Value() *float64 {
	if !r.Known {
		return nil
	}
	v := r.Volts
	return &v
}

func known(v float64) Reading { return Reading{Volts: v, Known: true} }

// Voltmeter holds two probes and keeps its reading current as they move.
// Call Measure after the circuit changes.
type Voltmeter struct {
	circuit  Circuit
	positive *observable.Property[circuit.Probe]
	negative *observable.Property[circuit.Probe]
	measured *observable.Property[Reading]
}

// New places the probes and takes a first reading.
func New(c Circuit, positive, negative circuit.Probe) *Voltmeter {
	v := &Voltmeter{
		circuit:  c,
		positive: observable.NewProperty(positive),
		negative: observable.NewProperty(negative),
	}
	v.measured = observable.NewProperty(v.VoltageBetween(positive, negative))
	remeasure := func(circuit.Probe, circuit.Probe) { v.Measure() }
	v.positive.Subscribe(remeasure)
	v.negative.Subscribe(remeasure)
	return v
}

// VoltageAt returns the potential under a single probe.
func (v *Voltmeter) VoltageAt(p circuit.Probe) Reading {
	volts, ok := v.circuit.VoltageAt(p)
	if !ok {
		return Unknown
	}
	return known(volts)
}

// VoltageBetween returns the potential of a relative to b. Tips in contact
// read zero. A probe on an isolated conductor reads unknown unless the other
// probe is on the same conductor, which reads zero.
func (v *Voltmeter) VoltageBetween(a, b circuit.Probe) Reading {
	if a.Touches(b) {
		return known(0)
	}
	ia, ib := v.circuit.DisconnectedIsland(a), v.circuit.DisconnectedIsland(b)
	if ia != circuit.NoIsland || ib != circuit.NoIsland {
		if ia == ib {
			return known(0)
		}
		return Unknown
	}
	ra, rb := v.VoltageAt(a), v.VoltageAt(b)
	if !ra.Known || !rb.Known {
		return Unknown
	}
	return known(ra.Volts - rb.Volts)
}

// Measure refreshes the reading from the current probe positions.
func (v *Voltmeter) Measure() Reading {
	r := v.VoltageBetween(v.positive.Get(), v.negative.Get())
	v.measured.Set(r)
	return r
}

func (v *Voltmeter) SetPositiveProbe(p circuit.Probe) { v.positive.Set(p) }
func (v *Voltmeter) SetNegativeProbe(p circuit.Probe) { v.negative.Set(p) }
func (v *Voltmeter) PositiveProbe() circuit.Probe     { return v.positive.Get() }
func (v *Voltmeter) NegativeProbe() circuit.Probe     { return v.negative.Get() }

// Reading returns the last measured value.
func (v *Voltmeter) Reading() Reading { return v.measured.Get() }

// MeasuredVoltage lets observers follow the display.
func (v *Voltmeter) MeasuredVoltage() *observable.Property[Reading] { return v.measured }
