package decision

import (
	"github.com/HerbHall/millwright/internal/validate"
	"github.com/HerbHall/millwright/pkg/maint"
)

// riskChangeTolerance is how far health may move before the scenario counts
// as improved or worsened rather than unchanged.
const riskChangeTolerance = 5.0

// Scenario is a baseline reading plus the perturbations to apply.
// BasePressure is nil when the caller supplied no pressure; an explicit
// zero is a legal reading and is kept as-is.
type Scenario struct {
	BaseTemperature  float64
	BaseVibration    float64
	BaseCurrent      float64
	BasePressure     *float64
	BaseRuntimeHours int

	TemperatureDelta float64 // added to temperature, °C
	LoadDeltaPercent float64 // percent load change; scales current and vibration
	RuntimeDelta     int     // added runtime hours
}

// PredictFunc produces a verdict for one validated reading. Injected so the
// comparator stays decoupled from the engine.
type PredictFunc func(in validate.Validated) maint.PredictionResult

// Simulate runs the predictor on the baseline and the perturbed scenario and
// compares the outcomes. Load changes scale current fully and vibration at
// half strength. A prediction function that is deterministic for identical
// inputs guarantees a zero-delta scenario reports "unchanged".
func Simulate(predict PredictFunc, sc Scenario) maint.SimulationResult {
	base := scenarioReading(sc, false)
	perturbed := scenarioReading(sc, true)

	baseResult := predict(base)
	simResult := predict(perturbed)

	healthChange := simResult.HealthPercentage - baseResult.HealthPercentage
	riskChange := maint.RiskUnchanged
	switch {
	case healthChange > riskChangeTolerance:
		riskChange = maint.RiskImproved
	case healthChange < -riskChangeTolerance:
		riskChange = maint.RiskWorsened
	}

	return maint.SimulationResult{
		Original:            outcome(base, baseResult),
		Simulated:           outcome(perturbed, simResult),
		HealthChangePercent: round2(healthChange),
		RULChangeCycles:     round2(simResult.PredictedRUL - baseResult.PredictedRUL),
		RiskChange:          riskChange,
	}
}

func scenarioReading(sc Scenario, perturbed bool) validate.Validated {
	pressure := validate.DefaultPressure
	if sc.BasePressure != nil {
		pressure = *sc.BasePressure
	}
	v := validate.Validated{
		Temperature:  sc.BaseTemperature,
		Vibration:    sc.BaseVibration,
		Current:      sc.BaseCurrent,
		Pressure:     pressure,
		RuntimeHours: sc.BaseRuntimeHours,
	}
	if !perturbed {
		return v
	}
	v.Temperature += sc.TemperatureDelta
	v.Current *= 1 + sc.LoadDeltaPercent/100
	v.Vibration *= 1 + sc.LoadDeltaPercent/200
	v.RuntimeHours += sc.RuntimeDelta
	if v.RuntimeHours < 0 {
		v.RuntimeHours = 0
	}
	return v
}

func outcome(in validate.Validated, result maint.PredictionResult) maint.ScenarioOutcome {
	return maint.ScenarioOutcome{
		Temperature:      round2(in.Temperature),
		Vibration:        round2(in.Vibration),
		Current:          round2(in.Current),
		RuntimeHours:     in.RuntimeHours,
		HealthStatus:     result.HealthStatus,
		HealthPercentage: round2(result.HealthPercentage),
		PredictedRUL:     round2(result.PredictedRUL),
		RiskLevel:        result.RiskLevel,
	}
}
