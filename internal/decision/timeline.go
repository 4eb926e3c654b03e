// Package decision derives maintenance planning artifacts from a health
// verdict: failure timelines, ranked recommendations, feature contributions,
// downtime cost estimates, and what-if scenario comparisons.
package decision

import (
	"math"
	"time"

	"github.com/HerbHall/millwright/pkg/maint"
)

// Health tiers used by the timeline extrapolation.
const (
	warningHealthThreshold  = 70.0
	criticalHealthThreshold = 40.0
)

// maxHorizon caps extrapolated threshold crossings. Linear extrapolation a
// year out is noise, not a forecast.
const maxHorizon = 365 * 24 * time.Hour

// Timeline extrapolates when health crosses the warning and critical
// thresholds, treating predicted RUL as hours remaining and assuming a
// constant degradation rate.
func Timeline(healthPercentage, predictedRUL float64, now time.Time) maint.FailureTimeline {
	hoursRemaining := math.Max(0, predictedRUL)
	rate := (100 - healthPercentage) / math.Max(hoursRemaining, 1)
	rate = math.Max(rate, 0.01)

	var hoursToWarning, hoursToCritical float64
	switch {
	case healthPercentage >= warningHealthThreshold:
		hoursToWarning = (healthPercentage - warningHealthThreshold) / rate
		hoursToCritical = (healthPercentage - criticalHealthThreshold) / rate
	case healthPercentage >= criticalHealthThreshold:
		hoursToWarning = 0
		hoursToCritical = (healthPercentage - criticalHealthThreshold) / rate
	default:
		hoursToWarning = 0
		hoursToCritical = 0
	}

	return maint.FailureTimeline{
		Now:                   now,
		EstimatedFailureTime:  now.Add(capHorizon(hoursRemaining)),
		HoursRemaining:        round2(hoursRemaining),
		DaysRemaining:         round2(hoursRemaining / 24),
		WarningThresholdTime:  now.Add(capHorizon(hoursToWarning)),
		CriticalThresholdTime: now.Add(capHorizon(hoursToCritical)),
		ProgressPercent:       round2(100 - healthPercentage),
	}
}

func capHorizon(hours float64) time.Duration {
	d := time.Duration(hours * float64(time.Hour))
	if d > maxHorizon {
		return maxHorizon
	}
	return d
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
