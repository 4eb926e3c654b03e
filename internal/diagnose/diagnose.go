// Package diagnose classifies individual sensors against fixed thresholds
// and explains degraded verdicts with ordered root-cause rules.
package diagnose

import (
	"math"

	"github.com/HerbHall/millwright/internal/validate"
	"github.com/HerbHall/millwright/pkg/maint"
)

// Thresholds holds the three-tier boundaries for one sensor. Values below
// Normal read as NORMAL, below Warning as ELEVATED, below Critical as
// WARNING, and everything else as CRITICAL.
type Thresholds struct {
	Normal   float64
	Warning  float64
	Critical float64
}

// SensorThresholds are the fixed per-sensor diagnostic boundaries.
var SensorThresholds = map[string]Thresholds{
	"temperature": {Normal: 65, Warning: 80, Critical: 95},
	"vibration":   {Normal: 3.5, Warning: 6.0, Critical: 8.0},
	"current":     {Normal: 15, Warning: 20, Critical: 28},
	"pressure":    {Normal: 110, Warning: 125, Critical: 150},
}

// AnalyzeSensor classifies a single value against the named sensor's
// thresholds. Unknown sensors classify as NORMAL with zero thresholds.
func AnalyzeSensor(sensor string, value float64) maint.SensorAnalysis {
	th := SensorThresholds[sensor]
	status := maint.SensorCritical
	switch {
	case value < th.Normal:
		status = maint.SensorNormal
	case value < th.Warning:
		status = maint.SensorElevated
	case value < th.Critical:
		status = maint.SensorWarning
	}
	return maint.SensorAnalysis{
		Value:             math.Round(value*100) / 100,
		Status:            status,
		ThresholdWarning:  th.Warning,
		ThresholdCritical: th.Critical,
	}
}

// Analyze classifies every monitored sensor in a validated reading.
func Analyze(in validate.Validated) map[string]maint.SensorAnalysis {
	return map[string]maint.SensorAnalysis{
		"temperature": AnalyzeSensor("temperature", in.Temperature),
		"vibration":   AnalyzeSensor("vibration", in.Vibration),
		"current":     AnalyzeSensor("current", in.Current),
		"pressure":    AnalyzeSensor("pressure", in.Pressure),
	}
}
