package circuit

import (
	"fmt"
	"strings"
)

// ConnectionState selects how the capacitor is wired. A single shared value
// drives both switches.
type ConnectionState int

const (
	BatteryConnected ConnectionState = iota
	OpenCircuit
	LightBulbConnected
	// SwitchInTransit is held while the user drags the switch between targets.
	SwitchInTransit
)

// ConnectionStates lists every state in declaration order.
var ConnectionStates = []ConnectionState{BatteryConnected, OpenCircuit, LightBulbConnected, SwitchInTransit}

func (s ConnectionState) String() string {
	switch s {
	case BatteryConnected:
		return "battery_connected"
	case OpenCircuit:
		return "open_circuit"
	case LightBulbConnected:
		return "light_bulb_connected"
	case SwitchInTransit:
		return "switch_in_transit"
	default:
		return fmt.Sprintf("connection_state(%d)", int(s))
	}
}

// ParseConnectionState accepts the String form or the short names
// battery, open, light_bulb and in_transit.
func ParseConnectionState(s string) (ConnectionState, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "battery_connected", "battery":
		return BatteryConnected, nil
	case "open_circuit", "open":
		return OpenCircuit, nil
	case "light_bulb_connected", "light_bulb", "lightbulb", "bulb":
		return LightBulbConnected, nil
	case "switch_in_transit", "in_transit", "transit":
		return SwitchInTransit, nil
	default:
		return 0, fmt.Errorf("unknown connection state %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ConnectionState) UnmarshalText(b []byte) error {
	v, err := ParseConnectionState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// unhandled is reached only when a new state is added without extending the
// switch statements that depend on it.
func unhandled(s ConnectionState) string {
	return "circuit: unhandled connection state " + s.String()
}
