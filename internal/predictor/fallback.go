package predictor

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/HerbHall/millwright/internal/diagnose"
	"github.com/HerbHall/millwright/internal/validate"
	"github.com/HerbHall/millwright/pkg/maint"
)

// FallbackReason labels why the heuristic path ran instead of the model.
type FallbackReason string

const (
	// ReasonArtifactMissing means no artifact files were found at startup.
	ReasonArtifactMissing FallbackReason = "artifact_missing"
	// ReasonArtifactCorrupt means artifact files existed but failed to load.
	ReasonArtifactCorrupt FallbackReason = "artifact_corrupt"
	// ReasonInferenceFailure means the loaded model rejected this reading.
	ReasonInferenceFailure FallbackReason = "inference_failure"
)

// healthFallback is the model-free verdict: a weighted risk score over
// sensor deviations, blended with duty-cycle progress when known. Jitter is
// seeded from the reading itself so identical inputs always produce
// identical verdicts.
func (e *Engine) healthFallback(in validate.Validated, now time.Time, reason FallbackReason) maint.PredictionResult {
	fallbacksTotal.WithLabelValues(string(reason)).Inc()

	risk := (in.Temperature-50)/50*0.25 +
		(in.Vibration-2)/8*0.35 +
		(in.Current-10)/20*0.25 +
		(in.Pressure-90)/60*0.15
	if in.Cycle != nil {
		risk = risk*0.7 + math.Min(1, float64(*in.Cycle)/150)*0.3
	}
	risk = clamp(risk, 0, 1)

	rng := rand.New(rand.NewSource(inputSeed(in)))
	initial := e.initialRUL()

	var status string
	var rul float64
	switch {
	case risk < 0.3:
		status = maint.StatusNormal
		rul = initial*(1-risk*0.3) + e.jitter(rng, 10)
	case risk < 0.6:
		status = maint.StatusWarning
		rul = initial*(0.6-risk*0.3) + e.jitter(rng, 15)
	default:
		status = maint.StatusCritical
		rul = initial*(0.3-risk*0.3) + e.jitter(rng, 10)
	}
	rul = clamp(rul, 0, initial)
	health := clamp(rul/initial*100, 0, 100)

	return maint.PredictionResult{
		HealthStatus:     status,
		PredictedRUL:     round2(rul),
		Confidence:       round2(1 - risk*0.5),
		HealthPercentage: round2(health),
		RiskLevel:        maint.RiskLevelForStatus(status),
		RootCause:        diagnose.RootCause(in, status, health, 0),
		SensorAnalysis:   diagnose.Analyze(in),
		Timestamp:        now,
		Degraded:         true,
	}
}

// rulFallback is the model-free regression estimate used by the RUL-only
// call path. It weights vibration hardest since it is the strongest leading
// indicator of mechanical failure.
func (e *Engine) rulFallback(in validate.Validated, now time.Time, reason FallbackReason) maint.PredictionResult {
	fallbacksTotal.WithLabelValues(string(reason)).Inc()

	tempNorm := clamp((in.Temperature-20)/80, 0, 1)
	vibNorm := clamp(in.Vibration/10, 0, 1)
	curNorm := clamp((in.Current-5)/25, 0, 1)
	degradation := 0.35*tempNorm + 0.40*vibNorm + 0.25*curNorm

	rng := rand.New(rand.NewSource(inputSeed(in)))
	initial := e.initialRUL()
	rul := clamp(initial*(1-degradation)+e.jitter(rng, 5), 0, initial)
	health := clamp(rul/initial*100, 0, 100)
	status := statusForHealth(health)
	confidence := clamp(0.85+e.jitter(rng, 0.05), 0.5, 0.99)

	return maint.PredictionResult{
		HealthStatus:     status,
		PredictedRUL:     round2(rul),
		Confidence:       round2(confidence),
		HealthPercentage: round2(health),
		RiskLevel:        maint.RiskLevelForHealth(health),
		RootCause:        diagnose.RootCause(in, status, health, rulRootCauseLimit),
		SensorAnalysis:   diagnose.Analyze(in),
		Timestamp:        now,
		Degraded:         true,
	}
}

// jitter draws a value in [-amplitude, amplitude] scaled by the engine's
// jitter setting.
func (e *Engine) jitter(rng *rand.Rand, amplitude float64) float64 {
	return (rng.Float64()*2 - 1) * amplitude * e.jitterScale
}

// inputSeed hashes the reading into an RNG seed so fallback jitter is a pure
// function of the input.
func inputSeed(in validate.Validated) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%.6f|%.6f|%.6f|%.6f|%d", in.Temperature, in.Vibration, in.Current, in.Pressure, in.RuntimeHours)
	if in.Cycle != nil {
		fmt.Fprintf(h, "|%d", *in.Cycle)
	}
	return int64(h.Sum64())
}
