package circuit

import "errors"

var (
	// ErrNonPositiveGeometry is returned when a plate dimension is zero,
	// negative or NaN.
	ErrNonPositiveGeometry = errors.New("plate geometry must be positive")
	// ErrUnsupportedConnection is returned when a connection state is not
	// configured for the circuit variant.
	ErrUnsupportedConnection = errors.New("connection state not supported by circuit")
	// ErrMissingLightBulb is returned when a variant needs a light bulb the
	// configuration does not describe.
	ErrMissingLightBulb = errors.New("light bulb required by circuit variant")
	// ErrInvalidConfig wraps every other configuration problem.
	ErrInvalidConfig = errors.New("invalid circuit configuration")
)
