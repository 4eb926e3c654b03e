package fleet

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Assessment is a stored fleet sweep verdict for one machine.
type Assessment struct {
	MachineID    string    `json:"machine_id"`
	Health       float64   `json:"health"`
	PredictedRUL float64   `json:"predicted_rul"`
	Status       string    `json:"status"`
	RootCause    string    `json:"root_cause,omitempty"`
	AssessedAt   time.Time `json:"assessed_at"`
}

// FleetStore provides database access for the fleet module.
type FleetStore struct {
	db *sql.DB
}

// NewFleetStore creates a new FleetStore backed by the given database.
func NewFleetStore(db *sql.DB) *FleetStore {
	return &FleetStore{db: db}
}

// CountMachines returns the number of registered machines.
func (s *FleetStore) CountMachines(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fleet_machines`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count machines: %w", err)
	}
	return count, nil
}

// InsertMachine registers a machine. An empty MachineID gets a generated one.
func (s *FleetStore) InsertMachine(ctx context.Context, m MachineConfig) (MachineConfig, error) {
	if m.MachineID == "" {
		m.MachineID = "MCH-" + uuid.NewString()[:8]
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fleet_machines (
			machine_id, name, machine_type, location, base_health, degradation_rate, volatility
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.MachineID, m.Name, m.MachineType, m.Location,
		m.BaseHealth, m.DegradationRate, m.Volatility,
	)
	if err != nil {
		return MachineConfig{}, fmt.Errorf("insert machine: %w", err)
	}
	return m, nil
}

// GetMachine returns a machine by ID. Returns nil, nil if not found.
func (s *FleetStore) GetMachine(ctx context.Context, machineID string) (*MachineConfig, error) {
	var m MachineConfig
	err := s.db.QueryRowContext(ctx, `
		SELECT machine_id, name, machine_type, location, base_health, degradation_rate, volatility
		FROM fleet_machines WHERE machine_id = ?`,
		machineID,
	).Scan(
		&m.MachineID, &m.Name, &m.MachineType, &m.Location,
		&m.BaseHealth, &m.DegradationRate, &m.Volatility,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get machine: %w", err)
	}
	return &m, nil
}

// ListMachines returns all registered machines ordered by ID.
func (s *FleetStore) ListMachines(ctx context.Context) ([]MachineConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT machine_id, name, machine_type, location, base_health, degradation_rate, volatility
		FROM fleet_machines ORDER BY machine_id`)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	defer rows.Close()

	var machines []MachineConfig
	for rows.Next() {
		var m MachineConfig
		if err := rows.Scan(
			&m.MachineID, &m.Name, &m.MachineType, &m.Location,
			&m.BaseHealth, &m.DegradationRate, &m.Volatility,
		); err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		machines = append(machines, m)
	}
	return machines, rows.Err()
}

// DeleteMachine removes a machine and its assessments.
func (s *FleetStore) DeleteMachine(ctx context.Context, machineID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM fleet_assessments WHERE machine_id = ?`, machineID); err != nil {
		return fmt.Errorf("delete assessments: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM fleet_machines WHERE machine_id = ?`, machineID); err != nil {
		return fmt.Errorf("delete machine: %w", err)
	}
	return nil
}

// SaveAssessment records one sweep verdict.
func (s *FleetStore) SaveAssessment(ctx context.Context, a Assessment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fleet_assessments (machine_id, health, predicted_rul, status, root_cause, assessed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.MachineID, a.Health, a.PredictedRUL, a.Status, a.RootCause, a.AssessedAt,
	)
	if err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}
	return nil
}

// LatestAssessment returns the most recent verdict for a machine.
// Returns nil, nil if the machine has never been assessed.
func (s *FleetStore) LatestAssessment(ctx context.Context, machineID string) (*Assessment, error) {
	var a Assessment
	err := s.db.QueryRowContext(ctx, `
		SELECT machine_id, health, predicted_rul, status, root_cause, assessed_at
		FROM fleet_assessments WHERE machine_id = ?
		ORDER BY assessed_at DESC, id DESC LIMIT 1`,
		machineID,
	).Scan(&a.MachineID, &a.Health, &a.PredictedRUL, &a.Status, &a.RootCause, &a.AssessedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest assessment: %w", err)
	}
	return &a, nil
}

// PruneAssessments deletes verdicts older than the cutoff.
func (s *FleetStore) PruneAssessments(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM fleet_assessments WHERE assessed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune assessments: %w", err)
	}
	return res.RowsAffected()
}
