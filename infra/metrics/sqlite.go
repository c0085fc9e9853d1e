package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/phetsims/capacitor-lab-basics-sub000/core/circuit"
	coremetrics "github.com/phetsims/capacitor-lab-basics-sub000/core/metrics"
)

// SQLiteConfig locates the database file.
type SQLiteConfig struct {
	Path string `json:"path"`
}

// SQLiteSink persists every frame and transition so runs can be replayed
// and compared offline.
type SQLiteSink struct {
	db *sql.DB
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS circuit_snapshots (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT,
        ts INTEGER,
        elapsed_ns INTEGER,
        connection TEXT,
        battery_voltage REAL,
        plate_width REAL,
        plate_separation REAL,
        capacitance REAL,
        plate_voltage REAL,
        plate_charge REAL,
        stored_energy REAL,
        effective_efield REAL,
        current_amplitude REAL,
        disconnected_plate_charge REAL,
        switch_angle REAL
    );
    CREATE INDEX IF NOT EXISTS circuit_snapshots_run ON circuit_snapshots (run_id, elapsed_ns);
    CREATE TABLE IF NOT EXISTS circuit_transitions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT,
        ts INTEGER,
        elapsed_ns INTEGER,
        from_state TEXT,
        to_state TEXT
    );`

// NewSQLiteSink opens or creates the database at path and ensures schema.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteSink{db: db}, nil
}

// RecordSnapshot inserts one frame.
func (s *SQLiteSink) RecordSnapshot(ev coremetrics.SnapshotEvent) error {
	snap := ev.Snapshot
	_, err := s.db.Exec(`INSERT INTO circuit_snapshots (run_id, ts, elapsed_ns, connection,
        battery_voltage, plate_width, plate_separation, capacitance, plate_voltage, plate_charge,
        stored_energy, effective_efield, current_amplitude, disconnected_plate_charge, switch_angle)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.RunID, ev.Time.UnixNano(), int64(snap.Elapsed), snap.Connection.String(),
		snap.BatteryVoltage, snap.PlateWidth, snap.PlateSeparation, snap.Capacitance,
		snap.PlateVoltage, snap.PlateCharge, snap.StoredEnergy, snap.EffectiveEField,
		snap.CurrentAmplitude, snap.DisconnectedPlateCharge, snap.SwitchAngle)
	return err
}

// RecordTransition inserts one connection change.
func (s *SQLiteSink) RecordTransition(ev coremetrics.TransitionEvent) error {
	_, err := s.db.Exec(`INSERT INTO circuit_transitions (run_id, ts, elapsed_ns, from_state, to_state)
        VALUES (?, ?, ?, ?, ?)`,
		ev.RunID, ev.Time.UnixNano(), int64(ev.Elapsed), ev.From.String(), ev.To.String())
	return err
}

// Snapshots returns the frames of a run in simulation order.
func (s *SQLiteSink) Snapshots(ctx context.Context, runID string) ([]circuit.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT elapsed_ns, connection, battery_voltage, plate_width,
        plate_separation, capacitance, plate_voltage, plate_charge, stored_energy, effective_efield,
        current_amplitude, disconnected_plate_charge, switch_angle
        FROM circuit_snapshots WHERE run_id = ? ORDER BY elapsed_ns, id`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []circuit.Snapshot
	for rows.Next() {
		var (
			snap    circuit.Snapshot
			elapsed int64
			state   string
		)
		if err := rows.Scan(&elapsed, &state, &snap.BatteryVoltage, &snap.PlateWidth,
			&snap.PlateSeparation, &snap.Capacitance, &snap.PlateVoltage, &snap.PlateCharge,
			&snap.StoredEnergy, &snap.EffectiveEField, &snap.CurrentAmplitude,
			&snap.DisconnectedPlateCharge, &snap.SwitchAngle); err != nil {
			return nil, err
		}
		snap.Elapsed = time.Duration(elapsed)
		if snap.Connection, err = circuit.ParseConnectionState(state); err != nil {
			return nil, fmt.Errorf("row connection: %w", err)
		}
		res = append(res, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Transitions returns the connection changes of a run in order.
func (s *SQLiteSink) Transitions(ctx context.Context, runID string) ([]coremetrics.TransitionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ts, elapsed_ns, from_state, to_state
        FROM circuit_transitions WHERE run_id = ? ORDER BY elapsed_ns, id`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []coremetrics.TransitionEvent
	for rows.Next() {
		var (
			ts, elapsed int64
			from, to    string
		)
		if err := rows.Scan(&ts, &elapsed, &from, &to); err != nil {
			return nil, err
		}
		ev := coremetrics.TransitionEvent{RunID: runID, Elapsed: time.Duration(elapsed), Time: time.Unix(0, ts)}
		if ev.From, err = circuit.ParseConnectionState(from); err != nil {
			return nil, err
		}
		if ev.To, err = circuit.ParseConnectionState(to); err != nil {
			return nil, err
		}
		res = append(res, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error { return s.db.Close() }
