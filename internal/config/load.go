package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load builds the Viper instance backing the daemon configuration. Defaults
// are set here so every module sees a fully-populated tree even without a
// config file.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/millwright.db")
	v.SetDefault("metrics.listen", "")

	// Module defaults
	v.SetDefault("modules.predictor.artifact_dir", "models")
	v.SetDefault("modules.predictor.load_timeout", "10s")
	v.SetDefault("modules.predictor.strict_validation", true)
	v.SetDefault("modules.predictor.downtime_cost_per_hour", 5000)
	v.SetDefault("modules.predictor.currency", "INR")
	v.SetDefault("modules.fleet.refresh_interval", "30s")
	v.SetDefault("modules.fleet.seed_defaults", true)
	v.SetDefault("modules.fleet.history_span", "24h")
	v.SetDefault("modules.fleet.history_interval", "30m")
	v.SetDefault("modules.fleet.assessment_retention", "168h")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("millwright")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/millwright")
	}

	// Environment variable support: MW_LOGGING_LEVEL=debug
	v.SetEnvPrefix("MW")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
