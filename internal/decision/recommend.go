package decision

import (
	"fmt"
	"sort"

	"github.com/HerbHall/millwright/internal/validate"
	"github.com/HerbHall/millwright/pkg/maint"
)

// Recommendations builds the prioritized action list for a verdict. Rules
// fire independently and accumulate; the result is sorted urgent first.
// An empty rule set yields the routine-monitoring recommendation.
func Recommendations(in validate.Validated, healthPercentage, predictedRUL float64) []maint.Recommendation {
	var recs []maint.Recommendation

	if in.Vibration > 6 {
		priority := maint.PriorityHigh
		if in.Vibration > 8 {
			priority = maint.PriorityUrgent
		}
		recs = append(recs, maint.Recommendation{
			Priority:           priority,
			Action:             "Lubricate bearings and check shaft alignment",
			Reason:             fmt.Sprintf("Vibration level (%.1f mm/s) exceeds normal range", in.Vibration),
			EstimatedTimeHours: 2.0,
			EstimatedCost:      5000,
		})
	} else if in.Vibration > 4.5 {
		recs = append(recs, maint.Recommendation{
			Priority:           maint.PriorityMedium,
			Action:             "Schedule bearing inspection",
			Reason:             fmt.Sprintf("Vibration level (%.1f mm/s) trending upward", in.Vibration),
			EstimatedTimeHours: 1.0,
			EstimatedCost:      2000,
		})
	}

	if in.Temperature > 85 {
		priority := maint.PriorityHigh
		if in.Temperature > 95 {
			priority = maint.PriorityUrgent
		}
		recs = append(recs, maint.Recommendation{
			Priority:           priority,
			Action:             "Check cooling system and reduce operational load by 15%",
			Reason:             fmt.Sprintf("Temperature (%.1f°C) above safe operating limit", in.Temperature),
			EstimatedTimeHours: 3.0,
			EstimatedCost:      8000,
		})
	} else if in.Temperature > 75 {
		recs = append(recs, maint.Recommendation{
			Priority:           maint.PriorityMedium,
			Action:             "Clean air filters and check coolant levels",
			Reason:             fmt.Sprintf("Temperature (%.1f°C) elevated above baseline", in.Temperature),
			EstimatedTimeHours: 1.5,
			EstimatedCost:      3000,
		})
	}

	if in.Current > 22 {
		recs = append(recs, maint.Recommendation{
			Priority:           maint.PriorityHigh,
			Action:             "Reduce load by 10% and check for mechanical binding",
			Reason:             fmt.Sprintf("Current draw (%.1f A) indicates overload", in.Current),
			EstimatedTimeHours: 2.0,
			EstimatedCost:      4000,
		})
	}

	if in.Temperature > 80 && in.Current > 20 {
		recs = append(recs, maint.Recommendation{
			Priority:           maint.PriorityUrgent,
			Action:             "Immediate load reduction and thermal inspection required",
			Reason:             "Combined thermal and electrical stress detected",
			EstimatedTimeHours: 4.0,
			EstimatedCost:      12000,
		})
	}

	daysRemaining := predictedRUL / 24
	switch {
	case daysRemaining < 3:
		recs = append(recs, maint.Recommendation{
			Priority:           maint.PriorityUrgent,
			Action:             "Schedule emergency maintenance within 24-48 hours",
			Reason:             fmt.Sprintf("Predicted failure in %.1f days", daysRemaining),
			EstimatedTimeHours: 8.0,
			EstimatedCost:      25000,
		})
	case daysRemaining < 7:
		recs = append(recs, maint.Recommendation{
			Priority:           maint.PriorityHigh,
			Action:             "Schedule preventive maintenance within 3-5 days",
			Reason:             fmt.Sprintf("Predicted failure in %.1f days", daysRemaining),
			EstimatedTimeHours: 6.0,
			EstimatedCost:      15000,
		})
	case daysRemaining < 14:
		recs = append(recs, maint.Recommendation{
			Priority:           maint.PriorityMedium,
			Action:             "Plan maintenance window for next week",
			Reason:             fmt.Sprintf("Predicted failure in %.1f days", daysRemaining),
			EstimatedTimeHours: 4.0,
			EstimatedCost:      10000,
		})
	}

	if healthPercentage < 30 {
		recs = append(recs, maint.Recommendation{
			Priority:           maint.PriorityUrgent,
			Action:             "Consider immediate machine shutdown for full inspection",
			Reason:             fmt.Sprintf("Machine health critically low (%.1f%%)", healthPercentage),
			EstimatedTimeHours: 12.0,
			EstimatedCost:      35000,
		})
	}

	if len(recs) == 0 {
		recs = append(recs, maint.Recommendation{
			Priority:           maint.PriorityLow,
			Action:             "Continue normal operation with routine monitoring",
			Reason:             "All parameters within normal range",
			EstimatedTimeHours: 0.5,
			EstimatedCost:      1000,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return maint.PriorityRank(recs[i].Priority) < maint.PriorityRank(recs[j].Priority)
	})
	return recs
}
