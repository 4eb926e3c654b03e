package artifact

import "time"

// Metadata describes a trained artifact bundle. Persisted as
// model_metadata.json alongside the model files.
type Metadata struct {
	ModelVersion string    `json:"model_version"`
	Algorithm    string    `json:"algorithm"`
	FeatureNames []string  `json:"feature_names"`
	InitialRUL   float64   `json:"initial_rul"`
	TrainedAt    time.Time `json:"trained_at,omitempty"`
}

// DefaultMetadata returns the metadata assumed when an artifact ships
// without a metadata document.
func DefaultMetadata() Metadata {
	return Metadata{
		ModelVersion: "2.0",
		Algorithm:    "GradientBoosting",
		FeatureNames: []string{"temperature", "vibration", "current", "pressure", "runtime_hours"},
		InitialRUL:   150,
	}
}

// HasCycle reports whether the training features included a duty-cycle
// column instead of raw runtime hours.
func (m Metadata) HasCycle() bool {
	for _, name := range m.FeatureNames {
		if name == "cycle" {
			return true
		}
	}
	return false
}

// normalize fills in defaults for fields a hand-edited metadata file may omit.
func (m Metadata) normalize() Metadata {
	def := DefaultMetadata()
	if m.ModelVersion == "" {
		m.ModelVersion = def.ModelVersion
	}
	if m.Algorithm == "" {
		m.Algorithm = def.Algorithm
	}
	if len(m.FeatureNames) == 0 {
		m.FeatureNames = def.FeatureNames
	}
	if m.InitialRUL <= 0 {
		m.InitialRUL = def.InitialRUL
	}
	return m
}
