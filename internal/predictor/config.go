package predictor

import "time"

// Config controls the predictor module. All fields map from the "predictor"
// section of the config file.
type Config struct {
	// ArtifactDir is the directory holding the model bundle.
	ArtifactDir string `mapstructure:"artifact_dir"`
	// LoadTimeout bounds the artifact cold start.
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
	// StrictValidation rejects out-of-range telemetry instead of clamping it.
	StrictValidation bool `mapstructure:"strict_validation"`
	// DowntimeCostPerHour feeds the cost estimator.
	DowntimeCostPerHour float64 `mapstructure:"downtime_cost_per_hour"`
	// Currency labels cost estimates.
	Currency string `mapstructure:"currency"`
}

// DefaultConfig returns the predictor defaults.
func DefaultConfig() Config {
	return Config{
		ArtifactDir:         "models",
		LoadTimeout:         10 * time.Second,
		StrictValidation:    true,
		DowntimeCostPerHour: 5000,
		Currency:            "INR",
	}
}
