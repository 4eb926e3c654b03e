package fleet

import "time"

// Config controls the fleet module. All fields map from the "fleet" section
// of the config file.
type Config struct {
	// RefreshInterval is how often the background sweep re-assesses the fleet.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	// SeedDefaults registers the demo fleet when the registry is empty.
	SeedDefaults bool `mapstructure:"seed_defaults"`
	// GeneratorSeed fixes the telemetry synthesizer's RNG; 0 seeds from the clock.
	GeneratorSeed int64 `mapstructure:"generator_seed"`
	// HistorySpan is how far back synthesized history reaches.
	HistorySpan time.Duration `mapstructure:"history_span"`
	// HistoryInterval is the spacing between synthesized history points.
	HistoryInterval time.Duration `mapstructure:"history_interval"`
	// AssessmentRetention is how long sweep verdicts are kept.
	AssessmentRetention time.Duration `mapstructure:"assessment_retention"`
}

// DefaultConfig returns the fleet defaults.
func DefaultConfig() Config {
	return Config{
		RefreshInterval:     30 * time.Second,
		SeedDefaults:        true,
		HistorySpan:         24 * time.Hour,
		HistoryInterval:     30 * time.Minute,
		AssessmentRetention: 7 * 24 * time.Hour,
	}
}
