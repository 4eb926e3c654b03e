package predictor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/millwright/internal/artifact"
	"github.com/HerbHall/millwright/internal/decision"
	"github.com/HerbHall/millwright/internal/validate"
	"github.com/HerbHall/millwright/pkg/maint"
	"github.com/HerbHall/millwright/pkg/plugin"
	"github.com/HerbHall/millwright/pkg/roles"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin           = (*Module)(nil)
	_ plugin.HealthChecker    = (*Module)(nil)
	_ plugin.Validator        = (*Module)(nil)
	_ plugin.EventSubscriber  = (*Module)(nil)
	_ roles.PredictorProvider = (*Module)(nil)
)

// Module wraps the prediction engine as a Millwright module. It loads the
// model artifact at startup, answers prediction calls from other modules,
// and reacts to telemetry events on the bus.
type Module struct {
	mu     sync.RWMutex
	cfg    Config
	logger *zap.Logger
	bus    plugin.EventBus
	engine *Engine
	arts   *artifact.Set
}

// New creates the predictor module.
func New() *Module {
	return &Module{}
}

// Info implements plugin.Plugin.
func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "predictor",
		Version:     "1.0.0",
		Description: "Predictive maintenance decision engine",
		Required:    true,
		Roles:       []string{roles.RolePredictor},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

// Init implements plugin.Plugin.
func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus

	cfg := DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal predictor config: %w", err)
		}
	}
	m.cfg = cfg
	return nil
}

// ValidateConfig implements plugin.Validator.
func (m *Module) ValidateConfig() error {
	if m.cfg.ArtifactDir == "" {
		return errors.New("predictor: artifact_dir must not be empty")
	}
	if m.cfg.LoadTimeout <= 0 {
		return errors.New("predictor: load_timeout must be positive")
	}
	if m.cfg.DowntimeCostPerHour < 0 {
		return errors.New("predictor: downtime_cost_per_hour must not be negative")
	}
	return nil
}

// Start implements plugin.Plugin. It warms the model artifact; a missing or
// corrupt artifact degrades to the heuristic engine instead of failing.
func (m *Module) Start(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, m.cfg.LoadTimeout)
	defer cancel()

	arts, err := artifact.Load(loadCtx, m.cfg.ArtifactDir)
	opts := []Option{}
	switch {
	case err == nil:
		m.logger.Info("model artifact loaded",
			zap.String("variant", arts.Schema.Kind.String()),
			zap.String("model_version", arts.Meta.ModelVersion),
			zap.String("algorithm", arts.Meta.Algorithm),
			zap.Bool("classifier", arts.HasClassifier()),
			zap.Bool("schema_guessed", arts.SchemaGuessed),
		)
	case errors.Is(err, artifact.ErrMissing):
		m.logger.Warn("no model artifact found, running heuristic fallback",
			zap.String("dir", m.cfg.ArtifactDir))
		arts = nil
		opts = append(opts, WithMissingReason(ReasonArtifactMissing))
	case errors.Is(err, artifact.ErrCorrupt):
		m.logger.Error("model artifact corrupt, running heuristic fallback", zap.Error(err))
		arts = nil
		opts = append(opts, WithMissingReason(ReasonArtifactCorrupt))
	default:
		return fmt.Errorf("load model artifact: %w", err)
	}

	m.mu.Lock()
	m.arts = arts
	m.engine = NewEngine(arts, m.logger, opts...)
	m.mu.Unlock()
	return nil
}

// Stop implements plugin.Plugin.
func (m *Module) Stop(ctx context.Context) error {
	return nil
}

// Subscriptions implements plugin.EventSubscriber.
func (m *Module) Subscriptions() []plugin.Subscription {
	return []plugin.Subscription{
		{Topic: TopicReadingReceived, Handler: m.onReading},
	}
}

// onReading predicts on bus telemetry and republishes the verdict.
func (m *Module) onReading(ctx context.Context, event plugin.Event) {
	reading, ok := event.Payload.(maint.SensorReading)
	if !ok {
		m.logger.Warn("ignoring telemetry event with unexpected payload",
			zap.String("topic", event.Topic),
			zap.String("source", event.Source))
		return
	}

	result, err := m.Predict(ctx, reading)
	if err != nil {
		m.logger.Warn("prediction from telemetry event failed",
			zap.String("machine_id", reading.MachineID),
			zap.Error(err))
		return
	}

	m.publish(ctx, TopicPredictionCompleted, PredictionEvent{
		MachineID: reading.MachineID,
		Reading:   reading,
		Result:    result,
	})
	if result.HealthStatus != maint.StatusNormal {
		m.publish(ctx, TopicAlertRaised, AlertEvent{
			MachineID:        reading.MachineID,
			HealthStatus:     result.HealthStatus,
			HealthPercentage: result.HealthPercentage,
			RootCause:        result.RootCause,
		})
	}
}

func (m *Module) publish(ctx context.Context, topic string, payload any) {
	if m.bus == nil {
		return
	}
	m.bus.PublishAsync(ctx, plugin.Event{
		Topic:     topic,
		Source:    "predictor",
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// Predict implements roles.PredictorProvider.
func (m *Module) Predict(ctx context.Context, reading maint.SensorReading) (maint.PredictionResult, error) {
	in, err := validate.Reading(reading, m.cfg.StrictValidation)
	if err != nil {
		return maint.PredictionResult{}, err
	}
	return m.getEngine().Predict(in), nil
}

// PredictRUL runs the regression-only call path used by fleet sweeps.
func (m *Module) PredictRUL(ctx context.Context, reading maint.SensorReading) (maint.PredictionResult, error) {
	in, err := validate.Reading(reading, m.cfg.StrictValidation)
	if err != nil {
		return maint.PredictionResult{}, err
	}
	return m.getEngine().PredictRUL(in), nil
}

// PredictEnhanced implements roles.PredictorProvider.
func (m *Module) PredictEnhanced(ctx context.Context, reading maint.SensorReading) (maint.EnhancedPrediction, error) {
	in, err := validate.Reading(reading, m.cfg.StrictValidation)
	if err != nil {
		return maint.EnhancedPrediction{}, err
	}

	engine := m.getEngine()
	core := engine.Predict(in)
	return maint.EnhancedPrediction{
		PredictionResult: core,
		FailureTimeline:  decision.Timeline(core.HealthPercentage, core.PredictedRUL, core.Timestamp),
		Recommendations:  decision.Recommendations(in, core.HealthPercentage, core.PredictedRUL),
		Contributions:    decision.Contributions(in),
		CostEstimate:     decision.Cost(core.HealthPercentage, m.cfg.DowntimeCostPerHour, m.cfg.Currency),
	}, nil
}

// PredictBatch predicts every reading in order. Readings that fail
// validation abort the batch; model availability does not.
func (m *Module) PredictBatch(ctx context.Context, readings []maint.SensorReading) ([]maint.PredictionResult, error) {
	results := make([]maint.PredictionResult, 0, len(readings))
	for i, reading := range readings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := m.Predict(ctx, reading)
		if err != nil {
			return nil, fmt.Errorf("reading %d: %w", i, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Simulate runs a what-if scenario through the engine twice and compares the
// outcomes.
func (m *Module) Simulate(ctx context.Context, sc decision.Scenario) (maint.SimulationResult, error) {
	engine := m.getEngine()
	return decision.Simulate(engine.Predict, sc), nil
}

// ModelStatus implements roles.PredictorProvider.
func (m *Module) ModelStatus() map[string]string {
	m.mu.RLock()
	arts := m.arts
	m.mu.RUnlock()

	if arts == nil {
		return map[string]string{
			"model_loaded": "false",
			"variant":      artifact.KindNone.String(),
			"mode":         "heuristic_fallback",
		}
	}
	return map[string]string{
		"model_loaded":   "true",
		"variant":        arts.Schema.Kind.String(),
		"model_version":  arts.Meta.ModelVersion,
		"algorithm":      arts.Meta.Algorithm,
		"features":       strings.Join(arts.Meta.FeatureNames, ","),
		"initial_rul":    strconv.FormatFloat(arts.Meta.InitialRUL, 'f', -1, 64),
		"classifier":     strconv.FormatBool(arts.HasClassifier()),
		"schema_guessed": strconv.FormatBool(arts.SchemaGuessed),
	}
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(ctx context.Context) plugin.HealthStatus {
	m.mu.RLock()
	arts := m.arts
	engine := m.engine
	m.mu.RUnlock()

	if engine == nil {
		return plugin.HealthStatus{Status: "unhealthy", Message: "engine not started"}
	}
	if arts == nil {
		return plugin.HealthStatus{
			Status:  "degraded",
			Message: "no model artifact, heuristic fallback active",
			Details: m.ModelStatus(),
		}
	}
	return plugin.HealthStatus{Status: "healthy", Details: m.ModelStatus()}
}

func (m *Module) getEngine() *Engine {
	m.mu.RLock()
	engine := m.engine
	m.mu.RUnlock()
	if engine == nil {
		// Predict called before Start: serve heuristics rather than panic.
		engine = NewEngine(nil, m.logger)
	}
	return engine
}
