package fleet

import (
	"database/sql"

	"github.com/HerbHall/millwright/pkg/plugin"
)

func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create fleet machine registry tables",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS fleet_machines (
						machine_id TEXT PRIMARY KEY,
						name TEXT NOT NULL,
						machine_type TEXT NOT NULL,
						location TEXT NOT NULL,
						base_health REAL NOT NULL,
						degradation_rate REAL NOT NULL,
						volatility REAL NOT NULL,
						created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`,

					`CREATE TABLE IF NOT EXISTS fleet_assessments (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						machine_id TEXT NOT NULL REFERENCES fleet_machines(machine_id),
						health REAL NOT NULL,
						predicted_rul REAL NOT NULL,
						status TEXT NOT NULL,
						root_cause TEXT,
						assessed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`,
					`CREATE INDEX IF NOT EXISTS idx_fleet_assessments_machine_time
						ON fleet_assessments(machine_id, assessed_at)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
