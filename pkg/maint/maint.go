// Package maint provides public SDK types for the Millwright decision engine.
// These are pure value objects: every derived entity is a function of a
// PredictionResult plus the SensorReading it was computed from, and none of
// them hold independent lifecycle state.
package maint

import "time"

// Machine health statuses produced by the predictor.
const (
	StatusNormal   = "NORMAL"
	StatusWarning  = "WARNING"
	StatusCritical = "CRITICAL"
)

// Per-sensor statuses produced by the diagnostic engine.
const (
	SensorNormal   = "NORMAL"
	SensorElevated = "ELEVATED"
	SensorWarning  = "WARNING"
	SensorCritical = "CRITICAL"
)

// Alert labels derived from health percentage.
const (
	AlertHealthy  = "Healthy"
	AlertWarning  = "Warning"
	AlertCritical = "Critical"
)

// Recommendation priorities, in rank order.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Risk change classifications produced by the what-if comparator.
const (
	RiskImproved  = "improved"
	RiskUnchanged = "unchanged"
	RiskWorsened  = "worsened"
)

// SensorReading is the inbound telemetry contract. Temperature, vibration
// and current are required; the remaining fields are optional and nil when
// the collector did not supply them.
type SensorReading struct {
	Temperature  float64  `json:"temperature"`             // °C
	Vibration    float64  `json:"vibration"`               // mm/s
	Current      float64  `json:"current"`                 // A
	Pressure     *float64 `json:"pressure,omitempty"`      // PSI
	RuntimeHours *int     `json:"runtime_hours,omitempty"` // total operating hours
	Cycle        *int     `json:"cycle,omitempty"`         // duty cycle number
	MachineID    string   `json:"machine_id,omitempty"`
}

// SensorAnalysis is the per-sensor classification with the thresholds used.
type SensorAnalysis struct {
	Value             float64 `json:"value"`
	Status            string  `json:"status"` // NORMAL, ELEVATED, WARNING, CRITICAL
	ThresholdWarning  float64 `json:"threshold_warning"`
	ThresholdCritical float64 `json:"threshold_critical"`
}

// PredictionResult is the engine's core verdict. Ephemeral: computed per
// call, never stored by the engine itself.
type PredictionResult struct {
	HealthStatus     string                    `json:"health_status"` // NORMAL, WARNING, CRITICAL
	PredictedRUL     float64                   `json:"predicted_rul"` // cycles/hours, [0, initial_rul]
	Confidence       float64                   `json:"confidence"`    // [0, 1]
	HealthPercentage float64                   `json:"health_percentage"`
	RiskLevel        string                    `json:"risk_level"`
	RootCause        string                    `json:"root_cause"`
	SensorAnalysis   map[string]SensorAnalysis `json:"sensor_analysis,omitempty"`
	Timestamp        time.Time                 `json:"timestamp"`
	Degraded         bool                      `json:"degraded,omitempty"` // heuristic fallback was used
}

// FailureTimeline extrapolates when the machine crosses the warning and
// critical health thresholds, interpreting predicted RUL as hours remaining.
type FailureTimeline struct {
	Now                   time.Time `json:"now"`
	EstimatedFailureTime  time.Time `json:"estimated_failure_time"`
	HoursRemaining        float64   `json:"hours_remaining"`
	DaysRemaining         float64   `json:"days_remaining"`
	WarningThresholdTime  time.Time `json:"warning_threshold_time"`
	CriticalThresholdTime time.Time `json:"critical_threshold_time"`
	ProgressPercent       float64   `json:"progress_percent"` // 0 = new, 100 = failed
}

// Recommendation is a single prioritized maintenance action.
type Recommendation struct {
	Priority           string  `json:"priority"` // urgent, high, medium, low
	Action             string  `json:"action"`
	Reason             string  `json:"reason"`
	EstimatedTimeHours float64 `json:"estimated_time_hours"`
	EstimatedCost      float64 `json:"estimated_cost"`
}

// FeatureContribution is an approximate attribution of one input feature to
// the verdict. The returned set is always the top 5 by magnitude and the
// contribution percentages always sum to 100.
type FeatureContribution struct {
	Feature             string  `json:"feature"`
	ContributionPercent float64 `json:"contribution_percent"`
	Impact              string  `json:"impact"` // "positive" or "negative"
}

// CostEstimate is the projected downtime cost for the current health tier.
type CostEstimate struct {
	DowntimeCostPerHour  float64 `json:"downtime_cost_per_hour"`
	EstimatedRepairHours float64 `json:"estimated_repair_hours"`
	EstimatedLoss        float64 `json:"estimated_loss"`
	Currency             string  `json:"currency"`
	IsHighCost           bool    `json:"is_high_cost"`
}

// EnhancedPrediction bundles the core verdict with the decision artifacts.
type EnhancedPrediction struct {
	PredictionResult
	FailureTimeline FailureTimeline       `json:"failure_timeline"`
	Recommendations []Recommendation      `json:"recommendations"`
	Contributions   []FeatureContribution `json:"feature_contributions"`
	CostEstimate    CostEstimate          `json:"cost_estimate"`
}

// ScenarioOutcome is one side of a what-if comparison.
type ScenarioOutcome struct {
	Temperature      float64 `json:"temperature"`
	Vibration        float64 `json:"vibration"`
	Current          float64 `json:"current"`
	RuntimeHours     int     `json:"runtime_hours"`
	HealthStatus     string  `json:"health_status"`
	HealthPercentage float64 `json:"health_percentage"`
	PredictedRUL     float64 `json:"predicted_rul"`
	RiskLevel        string  `json:"risk_level"`
}

// SimulationResult compares a baseline prediction against a perturbed one.
type SimulationResult struct {
	Original            ScenarioOutcome `json:"original"`
	Simulated           ScenarioOutcome `json:"simulated"`
	HealthChangePercent float64         `json:"health_change_percent"`
	RULChangeCycles     float64         `json:"rul_change_cycles"`
	RiskChange          string          `json:"risk_change"` // improved, unchanged, worsened
}

// FleetMachine is one machine's live status within the fleet overview.
type FleetMachine struct {
	MachineID        string    `json:"machine_id"`
	Name             string    `json:"name"`
	MachineType      string    `json:"machine_type"`
	Location         string    `json:"location"`
	HealthPercentage float64   `json:"health_percentage"`
	RiskLevel        string    `json:"risk_level"`
	PredictedRUL     float64   `json:"predicted_rul"`
	Status           string    `json:"status"` // healthy, warning, critical
	RootCause        string    `json:"root_cause,omitempty"`
	DaysToFailure    float64   `json:"days_to_failure"`
	LastUpdated      time.Time `json:"last_updated"`
}

// FleetStatus aggregates machine verdicts across the fleet.
type FleetStatus struct {
	Total     int            `json:"total"`
	Healthy   int            `json:"healthy"`
	Warning   int            `json:"warning"`
	Critical  int            `json:"critical"`
	AvgHealth float64        `json:"avg_health"`
	Machines  []FleetMachine `json:"machines"`
}

// SensorPoint is a single synthesized or observed telemetry sample.
type SensorPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Vibration   float64   `json:"vibration"`
	Current     float64   `json:"current"`
	HealthScore float64   `json:"health_score"`
}

// RiskLevelForHealth maps a health percentage to a coarse risk label:
// >70 low, >=40 medium, otherwise high.
func RiskLevelForHealth(healthPercentage float64) string {
	switch {
	case healthPercentage > 70:
		return "low"
	case healthPercentage >= 40:
		return "medium"
	default:
		return "high"
	}
}

// RiskLevelForStatus maps a health status to the risk label used by the
// classifier call path: NORMAL reads as "low", anything else as the
// lowercased status.
func RiskLevelForStatus(status string) string {
	switch status {
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	default:
		return "low"
	}
}

// PriorityRank orders recommendation priorities: urgent < high < medium < low.
// Unknown priorities sort last.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}
