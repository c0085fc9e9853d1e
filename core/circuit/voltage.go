package circuit

// Island is a conductor that is not wired to any node of the live circuit.
type Island int

const (
	NoIsland Island = iota
	LightBulbIsland
)

func (i Island) String() string {
	if i == LightBulbIsland {
		return "light_bulb"
	}
	return "none"
}

// touches reports whether p contacts any of the groups.
func (c *ParallelCircuit) touches(p Probe, groups ...Group) bool {
	for _, g := range groups {
		if c.wires[g].Touches(p) {
			return true
		}
	}
	return false
}

// VoltageAt returns the potential of the conductor under p relative to the
// battery bottom. ok is false when p touches nothing recognised, or touches
// a conductor whose potential is undefined in the current state.
func (c *ParallelCircuit) VoltageAt(p Probe) (v float64, ok bool) {
	total := c.TotalVoltage()
	plate := c.CapacitorPlateVoltage()

	switch state := c.connection.Get(); state {
	case BatteryConnected:
		switch {
		case c.touches(p, BatteryTop, CapacitorTop):
			return total, true
		case c.touches(p, BatteryBottom, CapacitorBottom):
			return 0, true
		case c.touches(p, LightBulbTop, LightBulbBottom):
			return 0, true
		}
	case OpenCircuit:
		switch {
		case c.touches(p, BatteryTop):
			return total, true
		case c.touches(p, BatteryBottom):
			return 0, true
		case c.touches(p, CapacitorTop):
			return plate, true
		case c.touches(p, CapacitorBottom):
			return 0, true
		case c.touches(p, LightBulbTop, LightBulbBottom):
			return 0, true
		}
	case LightBulbConnected:
		switch {
		case c.touches(p, BatteryTop):
			return total, true
		case c.touches(p, BatteryBottom):
			return 0, true
		case c.touches(p, CapacitorTop, LightBulbTop):
			return plate, true
		case c.touches(p, CapacitorBottom, LightBulbBottom):
			return 0, true
		}
	case SwitchInTransit:
		switch {
		case c.touches(p, BatteryTop):
			return total, true
		case c.touches(p, BatteryBottom):
			return 0, true
		case c.touches(p, CapacitorTop):
			return plate, true
		case c.touches(p, CapacitorBottom):
			return 0, true
		}
	default:
		panic(unhandled(state))
	}
	return 0, false
}

// DisconnectedIsland reports the isolated conductor under p, if any. The
// light bulb is an island whenever the switches are not on it.
func (c *ParallelCircuit) DisconnectedIsland(p Probe) Island {
	if c.lightBulb == nil || c.connection.Get() == LightBulbConnected {
		return NoIsland
	}
	if c.touches(p, LightBulbTop, LightBulbBottom) {
		return LightBulbIsland
	}
	return NoIsland
}
