package artifact

import (
	"math"

	"github.com/HerbHall/millwright/internal/validate"
)

// Kind identifies the feature layout a loaded model was trained on.
type Kind int

const (
	// KindNone means no model artifact is available.
	KindNone Kind = iota
	// KindThreeFeature maps readings to [temperature, vibration, current].
	KindThreeFeature
	// KindFiveFeature maps readings to [temperature, vibration, current,
	// pressure, cycle-or-runtime].
	KindFiveFeature
	// KindFourteenFeature projects three sensors onto the 14 synthetic
	// turbofan channels a legacy model was trained on.
	KindFourteenFeature
)

func (k Kind) String() string {
	switch k {
	case KindThreeFeature:
		return "three_feature"
	case KindFiveFeature:
		return "five_feature"
	case KindFourteenFeature:
		return "fourteen_feature_projection"
	default:
		return "none"
	}
}

// Schema binds a feature kind to its mapping parameters. The mapping from a
// validated reading to a model input vector is total: every kind accepts
// every reading.
type Schema struct {
	Kind Kind
	// HasCycle selects the fifth column for KindFiveFeature: a duty-cycle
	// count when true, raw runtime hours when false.
	HasCycle bool
}

// SchemaFor picks the schema matching a model's declared feature count.
// Unrecognized counts fall back to the three-feature layout.
func SchemaFor(nFeatures int, meta Metadata) (Schema, bool) {
	switch nFeatures {
	case 3:
		return Schema{Kind: KindThreeFeature}, true
	case 5:
		return Schema{Kind: KindFiveFeature, HasCycle: meta.HasCycle()}, true
	case 14:
		return Schema{Kind: KindFourteenFeature}, true
	default:
		return Schema{Kind: KindThreeFeature}, false
	}
}

// EstimateCycle derives a duty-cycle count from runtime hours when the
// collector did not report one, assuming one duty cycle per 8-hour shift.
func EstimateCycle(runtimeHours int) int {
	return runtimeHours / 8
}

// Vector maps a validated reading into the model input layout.
func (s Schema) Vector(in validate.Validated) []float64 {
	switch s.Kind {
	case KindFiveFeature:
		fifth := float64(in.RuntimeHours)
		if s.HasCycle {
			cycle := EstimateCycle(in.RuntimeHours)
			if in.Cycle != nil {
				cycle = *in.Cycle
			}
			fifth = float64(cycle)
		}
		return []float64{in.Temperature, in.Vibration, in.Current, in.Pressure, fifth}
	case KindFourteenFeature:
		return projectFourteen(in.Temperature, in.Vibration, in.Current)
	default:
		return []float64{in.Temperature, in.Vibration, in.Current}
	}
}

// Synthetic channel parameters for the legacy 14-feature projection. Each
// channel is base + slope * degradation, where degradation blends normalized
// sensor stress.
var fourteenChannels = [14]struct {
	base  float64
	slope float64
}{
	{579.5, 1.2},  // s2
	{1417.0, 12},  // s3
	{1201.0, 19},  // s4
	{282.9, 0.1},  // s7
	{2228.0, 2},   // s8
	{8525.0, 10},  // s9
	{42.9, 0.6},   // s11
	{266.4, 0.2},  // s12
	{2335.0, 1},   // s13
	{8066.0, 2},   // s14
	{9.33, 0.1},   // s15
	{348.0, 2},    // s17
	{20.8, 1},     // s20
	{12.5, 0.5},   // s21
}

func projectFourteen(temperature, vibration, current float64) []float64 {
	tempDeg := clip01((temperature - 40) / 60)
	vibDeg := clip01((vibration - 0.5) / 7.5)
	curDeg := clip01((current - 10) / 15)
	degradation := 0.4*vibDeg + 0.35*tempDeg + 0.25*curDeg

	out := make([]float64, len(fourteenChannels))
	for i, ch := range fourteenChannels {
		out[i] = ch.base + ch.slope*degradation
	}
	return out
}

func clip01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
