package circuit

// Epsilon0 is the vacuum permittivity in F/m.
const Epsilon0 = 8.854e-12

// Numerical floors. These are tuned for display stability rather than
// derived from physics, so they are configurable through Config.
const (
	// DefaultMinPlateCharge is the charge (C) below which the plate charge
	// reads exactly zero and the effective field vanishes.
	DefaultMinPlateCharge = 1e-15
	// DefaultMinVoltage is the plate voltage (V) below which a discharging
	// capacitor snaps to zero.
	DefaultMinVoltage = 1e-3
	// DefaultLightBulbResistance (Ω) makes the RC constant last about a
	// second and a half at the default geometry.
	DefaultLightBulbResistance = 5e12
)
