package decision

import "github.com/HerbHall/millwright/pkg/maint"

// Default cost parameters, overridable via module config.
const (
	DefaultDowntimeCostPerHour = 5000.0
	DefaultCurrency            = "INR"
	highCostThreshold          = 50000.0
)

// Cost estimates the downtime loss for the current health tier. Repair time
// and parts cost step with how degraded the machine already is.
func Cost(healthPercentage float64, downtimeCostPerHour float64, currency string) maint.CostEstimate {
	if downtimeCostPerHour <= 0 {
		downtimeCostPerHour = DefaultDowntimeCostPerHour
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	var repairHours float64
	switch {
	case healthPercentage < 30:
		repairHours = 12
	case healthPercentage < 50:
		repairHours = 8
	case healthPercentage < 70:
		repairHours = 4
	default:
		repairHours = 2
	}

	var partsCost float64
	switch {
	case healthPercentage < 40:
		partsCost = 50000
	case healthPercentage < 60:
		partsCost = 25000
	default:
		partsCost = 10000
	}

	loss := downtimeCostPerHour*repairHours + partsCost
	return maint.CostEstimate{
		DowntimeCostPerHour:  downtimeCostPerHour,
		EstimatedRepairHours: repairHours,
		EstimatedLoss:        loss,
		Currency:             currency,
		IsHighCost:           loss > highCostThreshold,
	}
}
