package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	coremetrics "github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
)

// PromSink exposes the latest circuit snapshot as Prometheus gauges and
// counts connection transitions.
type PromSink struct {
	plateVoltage *prometheus.GaugeVec
	plateCharge  *prometheus.GaugeVec
	energy       *prometheus.GaugeVec
	capacitance  *prometheus.GaugeVec
	efield       *prometheus.GaugeVec
	current      *prometheus.GaugeVec
	battery      *prometheus.GaugeVec
	connection   *prometheus.GaugeVec
	frames       *prometheus.CounterVec
	transitions  *prometheus.CounterVec
}

// NewPromSink registers the circuit metrics on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers the circuit metrics on reg. A nil
// registerer defaults to the global one. Metrics already registered by an
// earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gauge := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
	}
	s := &PromSink{
		plateVoltage: gauge("capacitor_plate_voltage_volts", "Voltage across the capacitor plates", "run_id"),
		plateCharge:  gauge("capacitor_plate_charge_coulombs", "Charge on the top capacitor plate", "run_id"),
		energy:       gauge("capacitor_stored_energy_joules", "Energy stored in the capacitor", "run_id"),
		capacitance:  gauge("capacitor_capacitance_farads", "Capacitance at the current plate geometry", "run_id"),
		efield:       gauge("capacitor_effective_efield_volts_per_metre", "Field between the plates", "run_id"),
		current:      gauge("circuit_current_amplitude_amperes", "Current through the capacitor leads", "run_id"),
		battery:      gauge("battery_voltage_volts", "Battery EMF", "run_id"),
		connection:   gauge("circuit_connection_state", "1 for the active switch connection", "run_id", "state"),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "circuit_frames_total",
			Help: "Number of simulation frames recorded",
		}, []string{"run_id"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "circuit_connection_transitions_total",
			Help: "Number of switch connection changes",
		}, []string{"run_id", "from", "to"}),
	}

	var err error
	for _, g := range []**prometheus.GaugeVec{
		&s.plateVoltage, &s.plateCharge, &s.energy, &s.capacitance,
		&s.efield, &s.current, &s.battery, &s.connection,
	} {
		if *g, err = register(reg, *g); err != nil {
			return nil, err
		}
	}
	if s.frames, err = register(reg, s.frames); err != nil {
		return nil, err
	}
	if s.transitions, err = register(reg, s.transitions); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSnapshot updates every gauge from the snapshot.
func (s *PromSink) RecordSnapshot(ev coremetrics.SnapshotEvent) error {
	snap := ev.Snapshot
	s.plateVoltage.WithLabelValues(ev.RunID).Set(snap.PlateVoltage)
	s.plateCharge.WithLabelValues(ev.RunID).Set(snap.PlateCharge)
	s.energy.WithLabelValues(ev.RunID).Set(snap.StoredEnergy)
	s.capacitance.WithLabelValues(ev.RunID).Set(snap.Capacitance)
	s.efield.WithLabelValues(ev.RunID).Set(snap.EffectiveEField)
	s.current.WithLabelValues(ev.RunID).Set(snap.CurrentAmplitude)
	s.battery.WithLabelValues(ev.RunID).Set(snap.BatteryVoltage)
	for _, st := range circuit.ConnectionStates {
		v := 0.0
		if st == snap.Connection {
			v = 1
		}
		s.connection.WithLabelValues(ev.RunID, st.String()).Set(v)
	}
	s.frames.WithLabelValues(ev.RunID).Inc()
	return nil
}

// RecordTransition counts a connection change.
func (s *PromSink) RecordTransition(ev coremetrics.TransitionEvent) error {
	s.transitions.WithLabelValues(ev.RunID, ev.From.String(), ev.To.String()).Inc()
	return nil
}
