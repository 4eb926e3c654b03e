package predictor

import "github.com/HerbHall/millwright/pkg/maint"

// Event topics the predictor consumes and emits.
const (
	// TopicReadingReceived carries a maint.SensorReading payload from any
	// telemetry source.
	TopicReadingReceived = "telemetry.reading.received"
	// TopicPredictionCompleted carries a PredictionEvent payload.
	TopicPredictionCompleted = "predictor.prediction.completed"
	// TopicAlertRaised carries an AlertEvent payload for WARNING and
	// CRITICAL verdicts.
	TopicAlertRaised = "predictor.alert.raised"
)

// PredictionEvent is the payload published on TopicPredictionCompleted.
type PredictionEvent struct {
	MachineID string                  `json:"machine_id,omitempty"`
	Reading   maint.SensorReading     `json:"reading"`
	Result    maint.PredictionResult  `json:"result"`
}

// AlertEvent is the payload published on TopicAlertRaised.
type AlertEvent struct {
	MachineID        string  `json:"machine_id,omitempty"`
	HealthStatus     string  `json:"health_status"`
	HealthPercentage float64 `json:"health_percentage"`
	RootCause        string  `json:"root_cause"`
}
