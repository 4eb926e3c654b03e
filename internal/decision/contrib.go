package decision

import (
	"math"
	"sort"

	"github.com/HerbHall/millwright/internal/validate"
	"github.com/HerbHall/millwright/pkg/maint"
)

// maxContributions bounds the attribution list.
const maxContributions = 5

// Contributions approximates how much each input feature drove the verdict.
// Each feature's raw weight is a fixed importance scaled by its normalized
// deviation; the results are renormalized so the top entries sum to 100 and
// sorted by magnitude descending.
func Contributions(in validate.Validated) []maint.FeatureContribution {
	type raw struct {
		feature  string
		weight   float64
		negative bool
	}

	entries := []raw{
		{
			feature:  "temperature",
			weight:   math.Abs(math.Min((in.Temperature-50)/50, 1)) * 35,
			negative: in.Temperature > 75,
		},
		{
			feature:  "vibration",
			weight:   math.Abs(math.Min(in.Vibration/10, 1)) * 30,
			negative: in.Vibration > 5,
		},
		{
			feature:  "current",
			weight:   math.Abs(math.Min((in.Current-10)/15, 1)) * 20,
			negative: in.Current > 20,
		},
		{
			feature:  "runtime_hours",
			weight:   math.Abs(math.Min(float64(in.RuntimeHours)/10000, 1)) * 10,
			negative: in.RuntimeHours > 5000,
		},
		{
			feature:  "pressure",
			weight:   math.Abs(in.Pressure-100) / 50 * 5,
			negative: in.Pressure < 90 || in.Pressure > 120,
		},
	}

	var total float64
	for _, e := range entries {
		total += e.weight
	}

	out := make([]maint.FeatureContribution, 0, len(entries))
	for _, e := range entries {
		pct := 100.0 / float64(len(entries)) // all weights zero: attribute evenly
		if total > 0 {
			pct = e.weight / total * 100
		}
		impact := "positive"
		if e.negative {
			impact = "negative"
		}
		out = append(out, maint.FeatureContribution{
			Feature:             e.feature,
			ContributionPercent: round2(pct),
			Impact:              impact,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ContributionPercent > out[j].ContributionPercent
	})
	if len(out) > maxContributions {
		out = out[:maxContributions]
	}
	return out
}
