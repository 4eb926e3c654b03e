// Package validate checks and sanitizes raw telemetry before it reaches the
// prediction engine. Strict mode rejects out-of-range or non-finite values
// with a per-field error list; lax mode clamps them into their documented
// physical ranges instead.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/HerbHall/millwright/pkg/maint"
)

// Defaults substituted for absent optional fields.
const (
	DefaultPressure     = 100.0
	DefaultRuntimeHours = 0
)

// Range is the physical range of one sensor field.
type Range struct {
	Min  float64
	Max  float64
	Unit string
}

// SensorRanges documents the accepted physical range per field.
var SensorRanges = map[string]Range{
	"temperature":   {Min: -50, Max: 200, Unit: "°C"},
	"vibration":     {Min: 0, Max: 20, Unit: "mm/s"},
	"current":       {Min: 0, Max: 50, Unit: "A"},
	"pressure":      {Min: 0, Max: 300, Unit: "PSI"},
	"runtime_hours": {Min: 0, Max: 100000, Unit: "hours"},
	"cycle":         {Min: 0, Max: 1000, Unit: "cycles"},
}

// ValidationError reports every offending field from a strict-mode check.
type ValidationError struct {
	Fields []string // one message per offending field
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid sensor values: %s", strings.Join(e.Fields, "; "))
}

// Validated is a sanitized reading with optional-field defaults resolved.
// Cycle stays nil when the collector did not supply one; the feature mapper
// decides whether to estimate it.
type Validated struct {
	Temperature  float64
	Vibration    float64
	Current      float64
	Pressure     float64
	RuntimeHours int
	Cycle        *int
	MachineID    string
}

// Reading validates a raw SensorReading. In strict mode any NaN, Infinity,
// or out-of-range value fails with a ValidationError naming every offending
// field. In lax mode values are clamped into range instead (NaN clamps to
// the range minimum).
func Reading(r maint.SensorReading, strict bool) (Validated, error) {
	type field struct {
		name  string
		value float64
	}
	fields := []field{
		{"temperature", r.Temperature},
		{"vibration", r.Vibration},
		{"current", r.Current},
	}
	if r.Pressure != nil {
		fields = append(fields, field{"pressure", *r.Pressure})
	}
	if r.RuntimeHours != nil {
		fields = append(fields, field{"runtime_hours", float64(*r.RuntimeHours)})
	}
	if r.Cycle != nil {
		fields = append(fields, field{"cycle", float64(*r.Cycle)})
	}

	var errs []string
	for _, f := range fields {
		if math.IsNaN(f.value) {
			errs = append(errs, fmt.Sprintf("%s cannot be NaN", f.name))
			continue
		}
		if math.IsInf(f.value, 0) {
			errs = append(errs, fmt.Sprintf("%s cannot be Infinity", f.name))
			continue
		}
		rng := SensorRanges[f.name]
		if f.value < rng.Min || f.value > rng.Max {
			errs = append(errs, fmt.Sprintf("%s must be between %g and %g %s", f.name, rng.Min, rng.Max, rng.Unit))
		}
	}
	if len(errs) > 0 && strict {
		return Validated{}, &ValidationError{Fields: errs}
	}

	out := Validated{
		Temperature:  clampField("temperature", r.Temperature),
		Vibration:    clampField("vibration", r.Vibration),
		Current:      clampField("current", r.Current),
		Pressure:     DefaultPressure,
		RuntimeHours: DefaultRuntimeHours,
		MachineID:    r.MachineID,
	}
	if r.Pressure != nil {
		out.Pressure = clampField("pressure", *r.Pressure)
	}
	if r.RuntimeHours != nil {
		out.RuntimeHours = int(clampField("runtime_hours", float64(*r.RuntimeHours)))
	}
	if r.Cycle != nil {
		c := int(clampField("cycle", float64(*r.Cycle)))
		out.Cycle = &c
	}
	return out, nil
}

// clampField clamps a value into its documented range. NaN and -Inf clamp to
// the range minimum, +Inf to the maximum, so lax mode never propagates
// non-finite values into the engine.
func clampField(name string, value float64) float64 {
	rng := SensorRanges[name]
	if math.IsNaN(value) || math.IsInf(value, -1) {
		return rng.Min
	}
	if math.IsInf(value, 1) {
		return rng.Max
	}
	return math.Max(rng.Min, math.Min(rng.Max, value))
}

// AlertStatus maps a health percentage to an alert label:
// >70 Healthy, 40–70 Warning (boundaries inclusive), <40 Critical.
func AlertStatus(healthPercentage float64) string {
	switch {
	case healthPercentage > 70:
		return maint.AlertHealthy
	case healthPercentage >= 40:
		return maint.AlertWarning
	default:
		return maint.AlertCritical
	}
}

// HealthPercentage computes 100·rul/initialRUL with both terms clamped to
// their valid ranges. initialRUL must be positive.
func HealthPercentage(predictedRUL, initialRUL float64) (float64, error) {
	if initialRUL <= 0 {
		return 0, fmt.Errorf("initial RUL must be greater than 0, got %g", initialRUL)
	}
	rul := math.Max(0, math.Min(initialRUL, predictedRUL))
	health := rul / initialRUL * 100
	return math.Max(0, math.Min(100, health)), nil
}
