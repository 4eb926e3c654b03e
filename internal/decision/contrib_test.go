package decision

import (
	"math"
	"testing"

	"github.com/HerbHall/millwright/internal/validate"
)

func TestContributions_SumToHundred(t *testing.T) {
	t.Parallel()

	inputs := []validate.Validated{
		{Temperature: 88, Vibration: 8.5, Current: 25, Pressure: 135, RuntimeHours: 6000},
		{Temperature: 60, Vibration: 2, Current: 12, Pressure: 100, RuntimeHours: 100},
		{Temperature: 100, Vibration: 0.1, Current: 30, Pressure: 95, RuntimeHours: 9000},
	}
	for _, in := range inputs {
		contribs := Contributions(in)
		if len(contribs) == 0 || len(contribs) > 5 {
			t.Fatalf("got %d contributions, want 1..5", len(contribs))
		}
		var sum float64
		for _, c := range contribs {
			sum += c.ContributionPercent
		}
		if math.Abs(sum-100) > 0.1 {
			t.Errorf("contributions sum = %v, want 100 (input %+v)", sum, in)
		}
	}
}

func TestContributions_SortedByMagnitude(t *testing.T) {
	t.Parallel()

	contribs := Contributions(validate.Validated{
		Temperature: 88, Vibration: 8.5, Current: 25, Pressure: 135, RuntimeHours: 6000,
	})
	for i := 1; i < len(contribs); i++ {
		if contribs[i].ContributionPercent > contribs[i-1].ContributionPercent {
			t.Errorf("contributions not sorted descending: %+v", contribs)
			break
		}
	}
}

func TestContributions_ImpactDirection(t *testing.T) {
	t.Parallel()

	contribs := Contributions(validate.Validated{
		Temperature: 88, Vibration: 8.5, Current: 25, Pressure: 135, RuntimeHours: 6000,
	})
	byFeature := map[string]string{}
	for _, c := range contribs {
		byFeature[c.Feature] = c.Impact
	}
	for _, feature := range []string{"temperature", "vibration", "current", "runtime_hours", "pressure"} {
		if byFeature[feature] != "negative" {
			t.Errorf("%s impact = %q, want negative for a stressed machine", feature, byFeature[feature])
		}
	}

	contribs = Contributions(validate.Validated{
		Temperature: 60, Vibration: 2, Current: 12, Pressure: 100, RuntimeHours: 100,
	})
	for _, c := range contribs {
		if c.Impact != "positive" {
			t.Errorf("%s impact = %q, want positive for a healthy machine", c.Feature, c.Impact)
		}
	}
}

func TestContributions_AllZeroWeightsSplitEvenly(t *testing.T) {
	t.Parallel()

	// Every deviation term is exactly zero at these readings.
	contribs := Contributions(validate.Validated{
		Temperature: 50, Vibration: 0, Current: 10, Pressure: 100, RuntimeHours: 0,
	})
	for _, c := range contribs {
		if c.ContributionPercent != 20 {
			t.Errorf("%s = %v, want 20 for all-zero weights", c.Feature, c.ContributionPercent)
		}
	}
}
