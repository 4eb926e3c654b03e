package diagnose

import (
	"strings"

	"github.com/HerbHall/millwright/internal/validate"
	"github.com/HerbHall/millwright/pkg/maint"
)

// Canned messages returned when no specific rule explains the verdict.
const (
	MessageHealthy    = "No issues detected - machine operating normally"
	MessageMonitoring = "Monitoring recommended - elevated sensor readings"
	MessageMultiple   = "Multiple degradation factors - comprehensive inspection recommended"
	MessageEarlyWear  = "Early wear indicators - schedule preventive maintenance"
)

type rule struct {
	match func(in validate.Validated) bool
	text  string
}

// Single-sensor rules, most severe tier first so only the highest tier per
// sensor fires.
var singleRules = []rule{
	{func(in validate.Validated) bool { return in.Vibration > 5 },
		"Severe bearing degradation - abnormal vibration pattern"},
	{func(in validate.Validated) bool { return in.Vibration > 3.5 },
		"Bearing wear detected - vibration above baseline"},
	{func(in validate.Validated) bool { return in.Vibration > 2.5 },
		"Minor mechanical imbalance - early stage wear"},
	{func(in validate.Validated) bool { return in.Temperature > 85 },
		"Critical thermal overload - cooling system failure likely"},
	{func(in validate.Validated) bool { return in.Temperature > 75 },
		"Thermal stress detected - check cooling and lubrication"},
	{func(in validate.Validated) bool { return in.Temperature > 65 },
		"Elevated temperature - monitor cooling efficiency"},
	{func(in validate.Validated) bool { return in.Current > 24 },
		"Severe electrical overload - motor windings at risk"},
	{func(in validate.Validated) bool { return in.Current > 20 },
		"Electrical imbalance - possible winding degradation"},
	{func(in validate.Validated) bool { return in.Current > 18 },
		"Increased power consumption - mechanical resistance building"},
	{func(in validate.Validated) bool { return in.Pressure > 130 },
		"High pressure detected - check for blockages or valve issues"},
}

// Compound rules describe interacting stresses. They fire in addition to the
// single-sensor rules and are listed ahead of them in the result.
var compoundRules = []rule{
	{func(in validate.Validated) bool { return in.Vibration > 4 && in.Temperature > 75 },
		"[WARNING] Combined thermal-mechanical stress detected"},
	{func(in validate.Validated) bool { return in.Current > 20 && in.Temperature > 75 },
		"[WARNING] Overload condition - high current causing thermal buildup"},
}

// Per-sensor tier groups: within a group only the first match fires.
var tierGroups = [][]int{
	{0, 1, 2}, // vibration
	{3, 4, 5}, // temperature
	{6, 7, 8}, // current
	{9},       // pressure
}

// RootCause explains a verdict. Healthy machines get a fixed all-clear
// message. Degraded machines collect the highest firing tier per sensor,
// with compound rules inserted at the front, joined by " | ". A positive
// limit marks the compact call path: it truncates to the top causes and,
// when no rule fires, reports early wear (or the comprehensive-inspection
// message below 40% health) instead of the monitoring advisory.
func RootCause(in validate.Validated, healthStatus string, healthPercentage float64, limit int) string {
	if healthStatus == maint.StatusNormal {
		return MessageHealthy
	}

	var causes []string
	for _, group := range tierGroups {
		for _, idx := range group {
			if singleRules[idx].match(in) {
				causes = append(causes, singleRules[idx].text)
				break
			}
		}
	}

	// Compound conditions lead the list: interaction effects matter more
	// than any single reading. Each match is pushed to the front, so the
	// last-listed compound ends up first.
	for _, r := range compoundRules {
		if r.match(in) {
			causes = append([]string{r.text}, causes...)
		}
	}

	if len(causes) == 0 {
		if limit > 0 {
			if healthPercentage < 40 {
				return MessageMultiple
			}
			return MessageEarlyWear
		}
		return MessageMonitoring
	}
	if limit > 0 && len(causes) > limit {
		causes = causes[:limit]
	}
	return strings.Join(causes, " | ")
}
