package circuit

import "time"

// Snapshot is a copy of every observable quantity at one instant. It is a
// plain value and safe to hand to other goroutines.
type Snapshot struct {
	Elapsed                 time.Duration   `json:"elapsed_ns"`
	Connection              ConnectionState `json:"connection"`
	BatteryVoltage          float64         `json:"battery_voltage"`
	PlateWidth              float64         `json:"plate_width"`
	PlateSeparation         float64         `json:"plate_separation"`
	Capacitance             float64         `json:"capacitance"`
	PlateVoltage            float64         `json:"plate_voltage"`
	PlateCharge             float64         `json:"plate_charge"`
	StoredEnergy            float64         `json:"stored_energy"`
	EffectiveEField         float64         `json:"effective_efield"`
	CurrentAmplitude        float64         `json:"current_amplitude"`
	DisconnectedPlateCharge float64         `json:"disconnected_plate_charge"`
	SwitchAngle             float64         `json:"switch_angle"`
}

// Snapshot captures the current state.
func (c *ParallelCircuit) Snapshot() Snapshot {
	return Snapshot{
		Elapsed:                 c.elapsed,
		Connection:              c.connection.Get(),
		BatteryVoltage:          c.battery.Voltage(),
		PlateWidth:              c.capacitor.PlateWidth(),
		PlateSeparation:         c.capacitor.PlateSeparation(),
		Capacitance:             c.capacitor.Capacitance(),
		PlateVoltage:            c.capacitor.PlateVoltage(),
		PlateCharge:             c.capacitor.PlateCharge(),
		StoredEnergy:            c.capacitor.StoredEnergy(),
		EffectiveEField:         c.capacitor.EffectiveEField(),
		CurrentAmplitude:        c.currentAmplitude.Get(),
		DisconnectedPlateCharge: c.disconnectedPlateCharge.Get(),
		SwitchAngle:             c.switchAngle.Get(),
	}
}
