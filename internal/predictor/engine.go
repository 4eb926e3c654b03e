// Package predictor turns validated telemetry into health verdicts. The
// engine prefers the loaded model artifact and falls back to a physics-based
// heuristic when no model is available or inference fails; fallback results
// are flagged Degraded, never errors.
package predictor

import (
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/HerbHall/millwright/internal/artifact"
	"github.com/HerbHall/millwright/internal/diagnose"
	"github.com/HerbHall/millwright/internal/validate"
	"github.com/HerbHall/millwright/pkg/maint"
)

// rulRootCauseLimit truncates root-cause lists on the RUL-only call path,
// which feeds compact fleet views.
const rulRootCauseLimit = 2

// Engine computes verdicts. Immutable after construction; safe for
// concurrent use.
type Engine struct {
	arts          *artifact.Set // nil when running heuristic-only
	missingReason FallbackReason
	logger        *zap.Logger
	now           func() time.Time
	jitterScale   float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithoutJitter disables the heuristic fallback's deterministic jitter.
func WithoutJitter() Option {
	return func(e *Engine) { e.jitterScale = 0 }
}

// WithMissingReason records why no artifact is loaded, for logs and metrics.
func WithMissingReason(reason FallbackReason) Option {
	return func(e *Engine) { e.missingReason = reason }
}

// NewEngine builds an engine around an artifact set. A nil set is valid and
// routes every prediction through the heuristic fallback.
func NewEngine(arts *artifact.Set, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		arts:          arts,
		missingReason: ReasonArtifactMissing,
		logger:        logger,
		now:           time.Now,
		jitterScale:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// initialRUL is the RUL scale for clamping and health conversion.
func (e *Engine) initialRUL() float64 {
	if e.arts != nil && e.arts.Meta.InitialRUL > 0 {
		return e.arts.Meta.InitialRUL
	}
	return artifact.DefaultMetadata().InitialRUL
}

// Predict produces the full health verdict: classifier status when the
// artifact carries one, regression-derived status otherwise, heuristic
// fallback when neither works.
func (e *Engine) Predict(in validate.Validated) maint.PredictionResult {
	start := time.Now()
	res, mode := e.predictHealth(in)
	observeInference(mode, time.Since(start))
	predictionsTotal.WithLabelValues(mode, res.HealthStatus).Inc()
	return res
}

// PredictRUL produces the regression-only verdict used by fleet sweeps:
// status derives from health tiers and confidence from per-tree spread.
func (e *Engine) PredictRUL(in validate.Validated) maint.PredictionResult {
	start := time.Now()
	res, mode := e.predictRUL(in)
	observeInference(mode, time.Since(start))
	predictionsTotal.WithLabelValues(mode, res.HealthStatus).Inc()
	return res
}

func (e *Engine) predictHealth(in validate.Validated) (maint.PredictionResult, string) {
	now := e.now()

	preds, vec, reason := e.modelOutputs(in)
	if reason != "" {
		return e.healthFallback(in, now, reason), modeFallback
	}

	initial := e.initialRUL()
	rul := clamp(stat.Mean(preds, nil), 0, initial)
	health := clamp(rul/initial*100, 0, 100)

	var status string
	var confidence float64
	if e.arts.HasClassifier() {
		class, proba, err := e.arts.Classifier.PredictClass(vec)
		if err != nil {
			e.logger.Warn("classifier inference failed, using heuristic fallback", zap.Error(err))
			return e.healthFallback(in, now, ReasonInferenceFailure), modeFallback
		}
		status = classStatus(class)
		confidence = maxOf(proba)
	} else {
		status = statusForHealth(health)
		confidence = treeConfidence(preds)
	}

	res := maint.PredictionResult{
		HealthStatus:     status,
		PredictedRUL:     round2(rul),
		Confidence:       round2(confidence),
		HealthPercentage: round2(health),
		RiskLevel:        maint.RiskLevelForStatus(status),
		RootCause:        diagnose.RootCause(in, status, health, 0),
		SensorAnalysis:   diagnose.Analyze(in),
		Timestamp:        now,
	}
	return res, modeModel
}

func (e *Engine) predictRUL(in validate.Validated) (maint.PredictionResult, string) {
	now := e.now()

	preds, _, reason := e.modelOutputs(in)
	if reason != "" {
		return e.rulFallback(in, now, reason), modeFallback
	}

	initial := e.initialRUL()
	rul := clamp(stat.Mean(preds, nil), 0, initial)
	health := clamp(rul/initial*100, 0, 100)
	status := statusForHealth(health)

	res := maint.PredictionResult{
		HealthStatus:     status,
		PredictedRUL:     round2(rul),
		Confidence:       round2(treeConfidence(preds)),
		HealthPercentage: round2(health),
		RiskLevel:        maint.RiskLevelForHealth(health),
		RootCause:        diagnose.RootCause(in, status, health, rulRootCauseLimit),
		SensorAnalysis:   diagnose.Analyze(in),
		Timestamp:        now,
	}
	return res, modeModel
}

// modelOutputs maps the reading through the feature schema and scaler and
// returns every tree's regression output. A non-empty reason means the model
// path is unusable for this reading.
func (e *Engine) modelOutputs(in validate.Validated) (preds, vec []float64, reason FallbackReason) {
	if e.arts == nil || e.arts.Regressor == nil {
		return nil, nil, e.missingReason
	}

	vec = e.arts.Schema.Vector(in)
	if e.arts.Scaler != nil {
		scaled, err := e.arts.Scaler.Transform(vec)
		if err != nil {
			e.logger.Warn("feature scaling failed, using heuristic fallback", zap.Error(err))
			return nil, nil, ReasonInferenceFailure
		}
		vec = scaled
	}

	preds, err := e.arts.Regressor.TreePredictions(vec)
	if err != nil {
		e.logger.Warn("regressor inference failed, using heuristic fallback", zap.Error(err))
		return nil, nil, ReasonInferenceFailure
	}
	return preds, vec, ""
}

// classStatus maps classifier class indices to health statuses.
func classStatus(class int) string {
	switch class {
	case 0:
		return maint.StatusNormal
	case 1:
		return maint.StatusWarning
	default:
		return maint.StatusCritical
	}
}

// statusForHealth maps a health percentage to a status using the alert tiers.
func statusForHealth(health float64) string {
	switch {
	case health > 70:
		return maint.StatusNormal
	case health >= 40:
		return maint.StatusWarning
	default:
		return maint.StatusCritical
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func maxOf(values []float64) float64 {
	best := 0.0
	for _, v := range values {
		if v > best {
			best = v
		}
	}
	return best
}
