// Package roles defines typed contracts for module roles.
// Modules that fill a role (declared via PluginInfo.Roles) should implement
// the corresponding interface so callers can use type-safe access via
// PluginResolver.ResolveByRole followed by a type assertion.
package roles

import (
	"context"

	"github.com/HerbHall/millwright/pkg/maint"
)

// Role name constants match the strings used in PluginInfo.Roles.
const (
	RolePredictor = "predictor"
	RoleFleet     = "fleet"
)

// PredictorProvider is implemented by modules that turn telemetry into
// health verdicts and decision artifacts.
type PredictorProvider interface {
	// Predict produces the core verdict for one telemetry reading.
	Predict(ctx context.Context, reading maint.SensorReading) (maint.PredictionResult, error)

	// PredictEnhanced produces the core verdict plus failure timeline,
	// ranked recommendations, feature contributions, and cost estimate.
	PredictEnhanced(ctx context.Context, reading maint.SensorReading) (maint.EnhancedPrediction, error)

	// ModelStatus describes the loaded artifact (variant, version, features).
	ModelStatus() map[string]string
}

// FleetProvider is implemented by modules that track machine populations.
type FleetProvider interface {
	// Status returns the aggregated fleet overview.
	Status(ctx context.Context) (maint.FleetStatus, error)
}
