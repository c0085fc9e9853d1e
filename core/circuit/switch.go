package circuit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phetsims/capacitor-lab-basics-sub000/internal/observable"
)

// Connection is a switch target and the point the switch tip rests on.
type Connection struct {
	State    ConnectionState
	Location r3.Vec
}

// Switch is one blade of the switch pair. Both blades read the circuit's
// shared connection state and angle; the bottom blade is the mirror image
// of the top one, so the two can never disagree.
type Switch struct {
	side      Side
	hinge     r3.Vec
	length    float64
	thickness float64
	maxAngle  float64
	targets   []ConnectionState

	state *observable.Property[ConnectionState]
	angle *observable.Property[float64]
}

func newSwitch(side Side, layout LayoutConfig, targets []ConnectionState,
	state *observable.Property[ConnectionState], angle *observable.Property[float64]) *Switch {
	return &Switch{
		side:      side,
		hinge:     r3.Vec{Y: layout.HingeY},
		length:    layout.SwitchLength,
		thickness: layout.WireThickness,
		maxAngle:  layout.SwitchAngle * math.Pi / 180,
		targets:   targets,
		state:     state,
		angle:     angle,
	}
}

// Side returns which blade this is.
func (s *Switch) Side() Side { return s.side }

// Hinge returns the pivot point.
func (s *Switch) Hinge() r3.Vec { return onSide(s.hinge, s.side) }

// Supports reports whether state is selectable. The transit state is always
// reachable by dragging.
func (s *Switch) Supports(state ConnectionState) bool {
	if state == SwitchInTransit {
		return true
	}
	for _, t := range s.targets {
		if t == state {
			return true
		}
	}
	return false
}

// Connections lists the configured targets in switch order.
func (s *Switch) Connections() []Connection {
	out := make([]Connection, 0, len(s.targets))
	for _, t := range s.targets {
		out = append(out, Connection{State: t, Location: s.tipAt(s.targetAngle(t))})
	}
	return out
}

// Connection returns the target for state.
func (s *Switch) Connection(state ConnectionState) (Connection, bool) {
	if state == SwitchInTransit || !s.Supports(state) {
		return Connection{}, false
	}
	return Connection{State: state, Location: s.tipAt(s.targetAngle(state))}, true
}

// ActiveConnection resolves the shared state. While in transit the
// location is wherever the blade currently points.
func (s *Switch) ActiveConnection() Connection {
	st := s.state.Get()
	if c, ok := s.Connection(st); ok {
		return c
	}
	return Connection{State: SwitchInTransit, Location: s.Tip()}
}

// Angle returns the shared blade angle in radians, measured from the open
// position and positive towards the light bulb.
func (s *Switch) Angle() float64 { return s.angle.Get() }

// Tip returns the free end of the blade.
func (s *Switch) Tip() r3.Vec { return s.tipAt(s.angle.Get()) }

// Segment returns the blade as a wire segment.
func (s *Switch) Segment() Segment {
	return Segment{Start: s.Hinge(), End: s.Tip(), Thickness: s.thickness}
}

// AngleLimits returns the range the blade can be dragged through.
func (s *Switch) AngleLimits() (lo, hi float64) {
	lo, hi = s.targetAngle(s.targets[0]), s.targetAngle(s.targets[0])
	for _, t := range s.targets[1:] {
		a := s.targetAngle(t)
		lo, hi = math.Min(lo, a), math.Max(hi, a)
	}
	return lo, hi
}

// targetAngle is the single source of truth mapping a state to a blade angle.
func (s *Switch) targetAngle(state ConnectionState) float64 {
	switch state {
	case BatteryConnected:
		return -s.maxAngle
	case OpenCircuit, SwitchInTransit:
		return 0
	case LightBulbConnected:
		return s.maxAngle
	default:
		panic(unhandled(state))
	}
}

// nearest returns the configured target closest to angle.
func (s *Switch) nearest(angle float64) ConnectionState {
	best, bestDist := s.targets[0], math.Inf(1)
	for _, t := range s.targets {
		if d := math.Abs(s.targetAngle(t) - angle); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

func (s *Switch) tipAt(angle float64) r3.Vec {
	dir := r3.Vec{X: math.Sin(angle), Y: math.Cos(angle)}
	return onSide(r3.Add(s.hinge, r3.Scale(s.length, dir)), s.side)
}
