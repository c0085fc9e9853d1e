package circuit

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/logger"
	"github.com/phetsims/capacitor-lab-basics-sub000/internal/observable"
)

// Option customises a ParallelCircuit.
type Option func(*ParallelCircuit)

// WithLogger sets the logger used for connection and discharge events.
func WithLogger(l logger.Logger) Option {
	return func(c *ParallelCircuit) { c.log = logger.OrNop(l) }
}

// WithSnapshotStream publishes a Snapshot after every Step.
func WithSnapshotStream(s *observable.Stream[Snapshot]) Option {
	return func(c *ParallelCircuit) { c.snapshots = s }
}

// ParallelCircuit wires a battery, a capacitor and optionally a light bulb in
// parallel through a switch pair. It is driven from a single goroutine.
type ParallelCircuit struct {
	cfg Config
	log logger.Logger

	battery   *Battery
	capacitor *Capacitor
	lightBulb *LightBulb
	top       *Switch
	bottom    *Switch

	connection              *observable.Property[ConnectionState]
	switchAngle             *observable.Property[float64]
	currentAmplitude        *observable.Property[float64]
	disconnectedPlateCharge *observable.Property[float64]

	previousTotalCharge float64
	hasPreviousCharge   bool
	elapsed             time.Duration

	wires     [groupCount]Wire
	snapshots *observable.Stream[Snapshot]
}

// NewParallelCircuit validates cfg and builds the circuit in the
// battery-connected state.
func NewParallelCircuit(cfg Config, opts ...Option) (*ParallelCircuit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout := cfg.Layout
	capacitor, err := NewCapacitor(r3.Vec{}, cfg.PlateWidth, cfg.PlateSeparation, layout.PlateHeight, cfg.MinPlateCharge)
	if err != nil {
		return nil, err
	}
	c := &ParallelCircuit{
		cfg:                     cfg,
		log:                     logger.Nop{},
		battery:                 NewBattery(r3.Vec{X: layout.BatteryX}, cfg.BatteryVoltage),
		capacitor:               capacitor,
		connection:              observable.NewProperty(BatteryConnected),
		currentAmplitude:        observable.NewProperty(0.0),
		disconnectedPlateCharge: observable.NewProperty(0.0),
	}
	if cfg.HasLightBulb() {
		c.lightBulb = NewLightBulb(r3.Vec{X: layout.LightBulbX}, cfg.LightBulbResistance)
	}
	targets := cfg.Connections()
	c.top = newSwitch(Top, layout, targets, c.connection, nil)
	c.switchAngle = observable.NewProperty(c.top.targetAngle(BatteryConnected))
	c.top.angle = c.switchAngle
	c.bottom = newSwitch(Bottom, layout, targets, c.connection, c.switchAngle)
	for _, o := range opts {
		o(c)
	}

	// These listeners are registered before any observer can subscribe, so
	// derived state is settled by the time outside listeners run.
	c.connection.Subscribe(c.onConnectionChanged)
	c.battery.VoltageProperty().Subscribe(func(float64, float64) { c.UpdatePlateVoltages() })
	c.capacitor.PlateWidthProperty().Subscribe(c.onGeometryChanged)
	c.capacitor.PlateSeparationProperty().Subscribe(c.onGeometryChanged)

	c.UpdatePlateVoltages()
	c.updateWires()
	return c, nil
}

func (c *ParallelCircuit) Battery() *Battery     { return c.battery }
func (c *ParallelCircuit) Capacitor() *Capacitor { return c.capacitor }

// LightBulb returns nil for the two-state variant.
func (c *ParallelCircuit) LightBulb() *LightBulb { return c.lightBulb }

func (c *ParallelCircuit) TopSwitch() *Switch    { return c.top }
func (c *ParallelCircuit) BottomSwitch() *Switch { return c.bottom }

// Config returns the configuration the circuit was built with.
func (c *ParallelCircuit) Config() Config { return c.cfg }

// Connection returns the shared connection state.
func (c *ParallelCircuit) Connection() ConnectionState { return c.connection.Get() }

func (c *ParallelCircuit) ConnectionProperty() *observable.Property[ConnectionState] {
	return c.connection
}
func (c *ParallelCircuit) SwitchAngleProperty() *observable.Property[float64] { return c.switchAngle }
func (c *ParallelCircuit) CurrentAmplitudeProperty() *observable.Property[float64] {
	return c.currentAmplitude
}
func (c *ParallelCircuit) DisconnectedPlateChargeProperty() *observable.Property[float64] {
	return c.disconnectedPlateCharge
}

// CurrentAmplitude is dQ/dt while battery-connected or open and V/R while
// the light bulb is connected.
func (c *ParallelCircuit) CurrentAmplitude() float64 { return c.currentAmplitude.Get() }

// DisconnectedPlateCharge is the charge held on the plates since the
// capacitor was last isolated from the battery.
func (c *ParallelCircuit) DisconnectedPlateCharge() float64 { return c.disconnectedPlateCharge.Get() }

// TotalVoltage returns the battery EMF.
func (c *ParallelCircuit) TotalVoltage() float64 { return c.battery.Voltage() }

// TotalCharge returns the charge on the capacitor.
func (c *ParallelCircuit) TotalCharge() float64 { return c.capacitor.PlateCharge() }

// CapacitorPlateVoltage returns the voltage across the plates.
func (c *ParallelCircuit) CapacitorPlateVoltage() float64 { return c.capacitor.PlateVoltage() }

// Elapsed is the simulated time since construction or the last Reset.
func (c *ParallelCircuit) Elapsed() time.Duration { return c.elapsed }

// SetConnection moves both switches to state.
func (c *ParallelCircuit) SetConnection(state ConnectionState) error {
	if !c.top.Supports(state) {
		return fmt.Errorf("%w: %s (variant %s)", ErrUnsupportedConnection, state, c.cfg.Variant)
	}
	c.connection.Set(state)
	return nil
}

// BeginSwitchDrag detaches the switches from their target.
func (c *ParallelCircuit) BeginSwitchDrag() {
	c.connection.Set(SwitchInTransit)
}

// DragSwitch moves the blades to angle (radians), limited to the span of the
// configured targets. The circuit enters the transit state if needed.
func (c *ParallelCircuit) DragSwitch(angle float64) {
	if math.IsNaN(angle) {
		return
	}
	c.BeginSwitchDrag()
	lo, hi := c.top.AngleLimits()
	c.switchAngle.Set(clamp(angle, lo, hi))
	c.updateWires()
}

// ReleaseSwitch snaps the blades to the nearest target and returns it.
func (c *ParallelCircuit) ReleaseSwitch() ConnectionState {
	target := c.top.nearest(c.switchAngle.Get())
	c.connection.Set(target)
	return target
}

// UpdatePlateVoltages recomputes the plate voltage for the current state.
// While the light bulb is connected the voltage evolves in Step instead.
func (c *ParallelCircuit) UpdatePlateVoltages() {
	switch state := c.connection.Get(); state {
	case BatteryConnected:
		c.capacitor.SetPlateVoltage(c.battery.Voltage())
	case OpenCircuit, SwitchInTransit:
		c.capacitor.SetPlateVoltage(c.disconnectedPlateCharge.Get() / c.capacitor.Capacitance())
	case LightBulbConnected:
	default:
		panic(unhandled(state))
	}
}

// Step advances the simulation by dt. Non-positive steps are ignored.
func (c *ParallelCircuit) Step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	switch state := c.connection.Get(); state {
	case LightBulbConnected:
		c.stepDischarge(dt)
	case BatteryConnected, OpenCircuit, SwitchInTransit:
		c.updateCurrentAmplitude(dt)
	default:
		panic(unhandled(state))
	}
	c.elapsed += dt
	if c.snapshots != nil {
		c.snapshots.Publish(c.Snapshot())
	}
}

func (c *ParallelCircuit) stepDischarge(dt time.Duration) {
	floor := c.cfg.MinVoltage
	if math.Abs(c.capacitor.PlateVoltage()) > floor {
		c.capacitor.Discharge(c.lightBulb.Resistance(), dt)
		if math.Abs(c.capacitor.PlateVoltage()) <= floor {
			c.capacitor.SetPlateVoltage(0)
			c.log.Debugf("capacitor discharged at t=%s", c.elapsed+dt)
		}
	} else {
		c.capacitor.SetPlateVoltage(0)
	}

	v := c.capacitor.PlateVoltage()
	if math.Abs(v) < 2*floor {
		c.currentAmplitude.Set(0)
	} else {
		c.currentAmplitude.Set(c.lightBulb.Current(v))
	}
	c.previousTotalCharge = c.TotalCharge()
	c.hasPreviousCharge = true
}

func (c *ParallelCircuit) updateCurrentAmplitude(dt time.Duration) {
	q := c.TotalCharge()
	if c.hasPreviousCharge {
		c.currentAmplitude.Set((q - c.previousTotalCharge) / dt.Seconds())
	}
	c.previousTotalCharge = q
	c.hasPreviousCharge = true
}

// Reset restores every mutable quantity to its initial value.
func (c *ParallelCircuit) Reset() {
	c.connection.Reset()
	c.switchAngle.Reset()
	c.battery.Reset()
	c.capacitor.Reset()
	c.disconnectedPlateCharge.Reset()
	c.currentAmplitude.Reset()
	c.previousTotalCharge = 0
	c.hasPreviousCharge = false
	c.elapsed = 0
	c.UpdatePlateVoltages()
	c.updateWires()
	c.log.Debugf("circuit reset")
}

// onConnectionChanged keeps the order charge capture, plate voltages, wire
// geometry: segment endpoints depend on the new state and the voltage
// update depends on the charge captured before it.
func (c *ParallelCircuit) onConnectionChanged(state, prev ConnectionState) {
	if state != BatteryConnected {
		c.disconnectedPlateCharge.Set(c.TotalCharge())
	}
	if state == LightBulbConnected {
		c.capacitor.BeginDischarge()
	}
	if state != SwitchInTransit {
		c.switchAngle.Set(c.top.targetAngle(state))
	}
	c.UpdatePlateVoltages()
	c.updateWires()
	c.log.Debugw("connection changed", map[string]any{
		"from":         prev.String(),
		"to":           state.String(),
		"plate_charge": c.TotalCharge(),
	})
}

func (c *ParallelCircuit) onGeometryChanged(float64, float64) {
	if c.connection.Get() == LightBulbConnected {
		c.capacitor.UpdateDischargeParameters()
	}
	c.UpdatePlateVoltages()
	c.updateWires()
}
