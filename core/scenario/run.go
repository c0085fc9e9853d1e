package scenario

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	"github.com/phetsims/capacitor-lab-basics-sub000/core/logger"
)

// DefaultTolerance is the relative tolerance used when a scenario sets none.
const DefaultTolerance = 1e-6

// Result summarises a run.
type Result struct {
	Frames int
	Final  circuit.Snapshot
}

// Run applies the scenario actions to c in order.
func Run(c *circuit.ParallelCircuit, sc *Scenario, log logger.Logger) (Result, error) {
	log = logger.OrNop(log)
	var res Result
	for i, a := range sc.Actions {
		if err := apply(c, a, &res); err != nil {
			return res, fmt.Errorf("scenario %s action %d (%s): %w", sc.Name, i, a.Type, err)
		}
		log.Debugf("scenario %s: applied %s", sc.Name, a.Type)
	}
	res.Final = c.Snapshot()
	log.Infof("scenario %s: %d frames, final connection %s", sc.Name, res.Frames, res.Final.Connection)
	return res, nil
}

func apply(c *circuit.ParallelCircuit, a Action, res *Result) error {
	switch a.Type {
	case ActionSetVoltage:
		c.Battery().SetVoltage(a.Value)
	case ActionSetPlateWidth:
		return c.Capacitor().SetPlateWidth(a.Value)
	case ActionSetPlateSeparation:
		return c.Capacitor().SetPlateSeparation(a.Value)
	case ActionConnect:
		state, err := circuit.ParseConnectionState(a.Connection)
		if err != nil {
			return err
		}
		return c.SetConnection(state)
	case ActionDragSwitch:
		c.DragSwitch(a.Value)
	case ActionReleaseSwitch:
		c.ReleaseSwitch()
	case ActionStep:
		dt := time.Duration(a.DtMS) * time.Millisecond
		for i := 0; i < a.Steps; i++ {
			c.Step(dt)
		}
		res.Frames += a.Steps
	case ActionReset:
		c.Reset()
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}

// Verify compares the final snapshot with the expectations and reports
// every mismatch.
func Verify(sc *Scenario, s circuit.Snapshot) error {
	e := sc.Expect
	tol := e.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	var errs []error
	if e.Connection != "" {
		want, err := circuit.ParseConnectionState(e.Connection)
		if err != nil {
			return err
		}
		if want != s.Connection {
			errs = append(errs, fmt.Errorf("connection: want %s, got %s", want, s.Connection))
		}
	}
	check := func(name string, want *float64, got float64) {
		if want == nil {
			return
		}
		if !scalar.EqualWithinAbsOrRel(*want, got, e.MinAbs, tol) {
			errs = append(errs, fmt.Errorf("%s: want %g, got %g", name, *want, got))
		}
	}
	check("plate_voltage", e.PlateVoltage, s.PlateVoltage)
	check("plate_charge", e.PlateCharge, s.PlateCharge)
	check("capacitance", e.Capacitance, s.Capacitance)
	check("stored_energy", e.StoredEnergy, s.StoredEnergy)
	check("current_amplitude", e.CurrentAmplitude, s.CurrentAmplitude)
	return errors.Join(errs...)
}
