package circuit

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Group classifies conductors by the node they belong to.
type Group int

const (
	BatteryTop Group = iota
	BatteryBottom
	CapacitorTop
	CapacitorBottom
	LightBulbTop
	LightBulbBottom
	groupCount
)

func (g Group) String() string {
	switch g {
	case BatteryTop:
		return "battery_top"
	case BatteryBottom:
		return "battery_bottom"
	case CapacitorTop:
		return "capacitor_top"
	case CapacitorBottom:
		return "capacitor_bottom"
	case LightBulbTop:
		return "light_bulb_top"
	case LightBulbBottom:
		return "light_bulb_bottom"
	default:
		return fmt.Sprintf("group(%d)", int(g))
	}
}

// Wire is every conductive shape of one group: wire segments plus terminal
// faces (battery and bulb terminals, capacitor plates).
type Wire struct {
	Group     Group
	Segments  []Segment
	Terminals []r3.Box
}

// Touches reports whether the probe contacts any part of the wire.
func (w Wire) Touches(p Probe) bool {
	for _, b := range w.Terminals {
		if p.TouchesBox(b) {
			return true
		}
	}
	for _, s := range w.Segments {
		if p.TouchesSegment(s) {
			return true
		}
	}
	return false
}

// Empty reports whether the wire has no shapes, as for the light-bulb groups
// of a two-state circuit.
func (w Wire) Empty() bool { return len(w.Segments) == 0 && len(w.Terminals) == 0 }

// Wires returns the conductors of every group present in the circuit.
func (c *ParallelCircuit) Wires() []Wire {
	out := make([]Wire, 0, groupCount)
	for _, w := range c.wires {
		if !w.Empty() {
			out = append(out, w)
		}
	}
	return out
}

// Wire returns the conductors of one group.
func (c *ParallelCircuit) Wire(g Group) Wire { return c.wires[g] }

// updateWires rebuilds every group from the current geometry and switch
// position. Bottom groups are the mirror image of the top ones.
func (c *ParallelCircuit) updateWires() {
	l := c.cfg.Layout
	th := l.WireThickness

	capTop := Wire{
		Group:     CapacitorTop,
		Terminals: []r3.Box{c.capacitor.Plate(Top)},
		Segments: []Segment{
			{Start: c.capacitor.plateContact(Top), End: c.top.Hinge(), Thickness: th},
			c.top.Segment(),
		},
	}
	c.wires[CapacitorTop] = capTop
	c.wires[CapacitorBottom] = mirrorWire(capTop, CapacitorBottom)

	batTop := c.terminalWire(BatteryTop, l.BatteryX, BatteryConnected)
	c.wires[BatteryTop] = batTop
	c.wires[BatteryBottom] = mirrorWire(batTop, BatteryBottom)

	if c.lightBulb == nil {
		c.wires[LightBulbTop] = Wire{Group: LightBulbTop}
		c.wires[LightBulbBottom] = Wire{Group: LightBulbBottom}
		return
	}
	bulbTop := c.terminalWire(LightBulbTop, l.LightBulbX, LightBulbConnected)
	c.wires[LightBulbTop] = bulbTop
	c.wires[LightBulbBottom] = mirrorWire(bulbTop, LightBulbBottom)
}

// terminalWire runs from the switch target for state across to x and down
// to the component terminal.
func (c *ParallelCircuit) terminalWire(g Group, x float64, state ConnectionState) Wire {
	l := c.cfg.Layout
	conn, _ := c.top.Connection(state)
	corner := r3.Vec{X: x, Y: conn.Location.Y}
	terminal := centeredBox(r3.Vec{X: x, Y: l.TerminalY}, l.TerminalWidth, l.TerminalHeight)
	return Wire{
		Group:     g,
		Terminals: []r3.Box{terminal},
		Segments: []Segment{
			{Start: conn.Location, End: corner, Thickness: l.WireThickness},
			{Start: corner, End: r3.Vec{X: x, Y: terminal.Max.Y}, Thickness: l.WireThickness},
		},
	}
}

func mirrorWire(w Wire, g Group) Wire {
	out := Wire{
		Group:     g,
		Segments:  make([]Segment, len(w.Segments)),
		Terminals: make([]r3.Box, len(w.Terminals)),
	}
	for i, s := range w.Segments {
		out.Segments[i] = s.mirrored()
	}
	for i, b := range w.Terminals {
		out.Terminals[i] = mirrorBox(b)
	}
	return out
}
