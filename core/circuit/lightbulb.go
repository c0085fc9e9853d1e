package circuit

import "gonum.org/v1/gonum/spatial/r3"

// LightBulb is an ohmic load used to discharge the capacitor.
type LightBulb struct {
	location   r3.Vec
	resistance float64
}

// NewLightBulb returns a bulb of the given resistance in ohms.
func NewLightBulb(location r3.Vec, resistance float64) *LightBulb {
	return &LightBulb{location: location, resistance: resistance}
}

// Resistance returns the filament resistance.
func (l *LightBulb) Resistance() float64 { return l.resistance }

// Current returns the current through the bulb for the voltage across it.
func (l *LightBulb) Current(voltage float64) float64 { return voltage / l.resistance }

// Location returns the bulb centre.
func (l *LightBulb) Location() r3.Vec { return l.location }
