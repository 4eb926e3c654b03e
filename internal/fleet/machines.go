// Package fleet tracks a population of machines: a SQLite-backed machine
// registry, a deterministic telemetry synthesizer for machines without live
// collectors, and an aggregated fleet overview built on predictor verdicts.
package fleet

// MachineConfig describes one registered machine and the parameters driving
// its synthesized telemetry.
type MachineConfig struct {
	MachineID       string  `json:"machine_id"`
	Name            string  `json:"name"`
	MachineType     string  `json:"machine_type"`
	Location        string  `json:"location"`
	BaseHealth      float64 `json:"base_health"`
	DegradationRate float64 `json:"degradation_rate"`
	Volatility      float64 `json:"volatility"`
}

// DefaultMachines is the demo fleet seeded on first start.
func DefaultMachines() []MachineConfig {
	return []MachineConfig{
		{
			MachineID:       "MCH-001",
			Name:            "CNC Milling Unit Alpha",
			MachineType:     "CNC Machine",
			Location:        "Bay A - Floor 2",
			BaseHealth:      87,
			DegradationRate: 0.02,
			Volatility:      0.5,
		},
		{
			MachineID:       "MCH-002",
			Name:            "Hydraulic Press Beta",
			MachineType:     "Hydraulic Press",
			Location:        "Bay B - Floor 1",
			BaseHealth:      54,
			DegradationRate: 0.08,
			Volatility:      1.5,
		},
		{
			MachineID:       "MCH-003",
			Name:            "Conveyor System Gamma",
			MachineType:     "Conveyor",
			Location:        "Assembly Line 3",
			BaseHealth:      28,
			DegradationRate: 0.15,
			Volatility:      2.0,
		},
		{
			MachineID:       "MCH-004",
			Name:            "Robotic Arm Delta",
			MachineType:     "Robot",
			Location:        "Cell 7 - Floor 3",
			BaseHealth:      92,
			DegradationRate: 0.01,
			Volatility:      0.3,
		},
		{
			MachineID:       "MCH-005",
			Name:            "Injection Molder Epsilon",
			MachineType:     "Injection Molder",
			Location:        "Plastics Bay",
			BaseHealth:      63,
			DegradationRate: 0.06,
			Volatility:      1.2,
		},
		{
			MachineID:       "MCH-006",
			Name:            "Lathe Machine Zeta",
			MachineType:     "Lathe",
			Location:        "Bay A - Floor 1",
			BaseHealth:      79,
			DegradationRate: 0.03,
			Volatility:      0.8,
		},
	}
}
