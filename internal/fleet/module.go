package fleet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/HerbHall/millwright/internal/decision"
	"github.com/HerbHall/millwright/internal/validate"
	"github.com/HerbHall/millwright/pkg/maint"
	"github.com/HerbHall/millwright/pkg/plugin"
	"github.com/HerbHall/millwright/pkg/roles"
)

// Fleet status tiers by health percentage.
const (
	healthyTierMin = 70.0
	warningTierMin = 40.0
)

// ErrMachineNotFound is returned for lookups of unregistered machines.
var ErrMachineNotFound = errors.New("machine not found")

// Compile-time interface guards.
var (
	_ plugin.Plugin        = (*Module)(nil)
	_ plugin.HealthChecker = (*Module)(nil)
	_ roles.FleetProvider  = (*Module)(nil)
)

// rulPredictor is the slice of the predictor module the fleet sweep needs.
type rulPredictor interface {
	PredictRUL(ctx context.Context, reading maint.SensorReading) (maint.PredictionResult, error)
}

// MachineDetail is the drill-down view for one machine.
type MachineDetail struct {
	Machine         MachineConfig          `json:"machine"`
	Current         maint.FleetMachine     `json:"current"`
	History         []maint.SensorPoint    `json:"history"`
	Recommendations []maint.Recommendation `json:"recommendations"`
}

// Module tracks the machine population and aggregates predictor verdicts
// into a fleet overview on a fixed cadence.
type Module struct {
	mu        sync.RWMutex
	cfg       Config
	logger    *zap.Logger
	bus       plugin.EventBus
	resolver  plugin.PluginResolver
	store     *FleetStore
	gen       *Generator
	predictor rulPredictor

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates the fleet module.
func New() *Module {
	return &Module{}
}

// Info implements plugin.Plugin.
func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:         "fleet",
		Version:      "1.0.0",
		Description:  "Machine fleet registry and health overview",
		Dependencies: []string{"predictor"},
		Roles:        []string{roles.RoleFleet},
		APIVersion:   plugin.APIVersionCurrent,
	}
}

// Init implements plugin.Plugin.
func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus
	m.resolver = deps.Plugins

	cfg := DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal fleet config: %w", err)
		}
	}
	m.cfg = cfg

	if deps.Store == nil {
		return errors.New("fleet: requires a store")
	}
	if err := deps.Store.Migrate(ctx, "fleet", migrations()); err != nil {
		return fmt.Errorf("fleet migrations: %w", err)
	}
	m.store = NewFleetStore(deps.Store.DB())
	m.gen = NewGenerator(time.Now(), m.cfg.GeneratorSeed)

	if m.cfg.SeedDefaults {
		if err := m.seedDefaults(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) seedDefaults(ctx context.Context) error {
	count, err := m.store.CountMachines(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, mc := range DefaultMachines() {
		if _, err := m.store.InsertMachine(ctx, mc); err != nil {
			return err
		}
	}
	m.logger.Info("seeded default fleet", zap.Int("machines", len(DefaultMachines())))
	return nil
}

// Start implements plugin.Plugin. It resolves the predictor and launches the
// background sweep.
func (m *Module) Start(ctx context.Context) error {
	for _, p := range m.resolver.ResolveByRole(roles.RolePredictor) {
		if rp, ok := p.(rulPredictor); ok {
			m.predictor = rp
			break
		}
	}
	if m.predictor == nil {
		return errors.New("fleet: no predictor module available")
	}

	sweepCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.wg.Add(1)
	go m.sweepLoop(sweepCtx)
	return nil
}

// Stop implements plugin.Plugin.
func (m *Module) Stop(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	return nil
}

func (m *Module) sweepLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.RefreshInterval)
	defer ticker.Stop()

	m.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *Module) sweep(ctx context.Context) {
	status, err := m.Status(ctx)
	if err != nil {
		m.logger.Warn("fleet sweep failed", zap.Error(err))
		return
	}

	fleetAvgHealth.Set(status.AvgHealth)
	fleetMachines.WithLabelValues("healthy").Set(float64(status.Healthy))
	fleetMachines.WithLabelValues("warning").Set(float64(status.Warning))
	fleetMachines.WithLabelValues("critical").Set(float64(status.Critical))

	if m.bus != nil {
		m.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicSnapshotCompleted,
			Source:    "fleet",
			Timestamp: time.Now(),
			Payload:   status,
		})
	}

	if m.cfg.AssessmentRetention > 0 {
		cutoff := time.Now().Add(-m.cfg.AssessmentRetention)
		if _, err := m.store.PruneAssessments(ctx, cutoff); err != nil {
			m.logger.Warn("assessment prune failed", zap.Error(err))
		}
	}
}

// Status implements roles.FleetProvider. Every registered machine gets a
// fresh synthesized reading and a predictor verdict.
func (m *Module) Status(ctx context.Context) (maint.FleetStatus, error) {
	machines, err := m.store.ListMachines(ctx)
	if err != nil {
		return maint.FleetStatus{}, err
	}

	now := time.Now()
	status := maint.FleetStatus{Total: len(machines), Machines: make([]maint.FleetMachine, 0, len(machines))}
	healths := make([]float64, 0, len(machines))

	for _, mc := range machines {
		fm, err := m.assess(ctx, mc, now)
		if err != nil {
			m.logger.Warn("machine assessment failed",
				zap.String("machine_id", mc.MachineID),
				zap.Error(err))
			continue
		}
		switch fm.Status {
		case "healthy":
			status.Healthy++
		case "warning":
			status.Warning++
		default:
			status.Critical++
		}
		healths = append(healths, fm.HealthPercentage)
		status.Machines = append(status.Machines, fm)
	}

	if len(healths) > 0 {
		status.AvgHealth = round2(stat.Mean(healths, nil))
	}
	return status, nil
}

func (m *Module) assess(ctx context.Context, mc MachineConfig, now time.Time) (maint.FleetMachine, error) {
	sample := m.gen.Sample(mc, now)
	verdict, err := m.predictor.PredictRUL(ctx, maint.SensorReading{
		Temperature: sample.Temperature,
		Vibration:   sample.Vibration,
		Current:     sample.Current,
		MachineID:   mc.MachineID,
	})
	if err != nil {
		return maint.FleetMachine{}, err
	}

	tier := "critical"
	switch {
	case verdict.HealthPercentage >= healthyTierMin:
		tier = "healthy"
	case verdict.HealthPercentage >= warningTierMin:
		tier = "warning"
	}

	fm := maint.FleetMachine{
		MachineID:        mc.MachineID,
		Name:             mc.Name,
		MachineType:      mc.MachineType,
		Location:         mc.Location,
		HealthPercentage: verdict.HealthPercentage,
		RiskLevel:        verdict.RiskLevel,
		PredictedRUL:     verdict.PredictedRUL,
		Status:           tier,
		RootCause:        verdict.RootCause,
		DaysToFailure:    round2(verdict.PredictedRUL / 24),
		LastUpdated:      now,
	}

	if err := m.store.SaveAssessment(ctx, Assessment{
		MachineID:    mc.MachineID,
		Health:       verdict.HealthPercentage,
		PredictedRUL: verdict.PredictedRUL,
		Status:       tier,
		RootCause:    verdict.RootCause,
		AssessedAt:   now,
	}); err != nil {
		m.logger.Warn("assessment save failed",
			zap.String("machine_id", mc.MachineID),
			zap.Error(err))
	}
	return fm, nil
}

// MachineDetail returns the drill-down view: live verdict, synthesized
// history, and recommendations derived from the current reading.
func (m *Module) MachineDetail(ctx context.Context, machineID string) (MachineDetail, error) {
	mc, err := m.store.GetMachine(ctx, machineID)
	if err != nil {
		return MachineDetail{}, err
	}
	if mc == nil {
		return MachineDetail{}, fmt.Errorf("%w: %s", ErrMachineNotFound, machineID)
	}

	now := time.Now()
	current, err := m.assess(ctx, *mc, now)
	if err != nil {
		return MachineDetail{}, err
	}

	sample := m.gen.Sample(*mc, now)
	recs := decision.Recommendations(validate.Validated{
		Temperature:  sample.Temperature,
		Vibration:    sample.Vibration,
		Current:      sample.Current,
		Pressure:     validate.DefaultPressure,
		RuntimeHours: validate.DefaultRuntimeHours,
		MachineID:    mc.MachineID,
	}, current.HealthPercentage, current.PredictedRUL)

	return MachineDetail{
		Machine:         *mc,
		Current:         current,
		History:         m.gen.History(*mc, now, m.cfg.HistorySpan, m.cfg.HistoryInterval),
		Recommendations: recs,
	}, nil
}

// Recommendations derives maintenance actions for a machine from its last
// stored assessment, without synthesizing fresh telemetry. Sensor values are
// reconstructed from the stored health score; a machine that has never been
// assessed falls back to its configured base health.
func (m *Module) Recommendations(ctx context.Context, machineID string) ([]maint.Recommendation, error) {
	mc, err := m.store.GetMachine(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if mc == nil {
		return nil, fmt.Errorf("%w: %s", ErrMachineNotFound, machineID)
	}

	health := mc.BaseHealth
	rul := health * 1.5
	latest, err := m.store.LatestAssessment(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		health = latest.Health
		rul = latest.PredictedRUL
	}

	return decision.Recommendations(validate.Validated{
		Temperature:  65 + (100-health)*0.3,
		Vibration:    3 + (100-health)*0.05,
		Current:      15 + (100-health)*0.1,
		Pressure:     validate.DefaultPressure,
		RuntimeHours: validate.DefaultRuntimeHours,
		MachineID:    machineID,
	}, health, rul), nil
}

// RegisterMachine adds a machine to the registry.
func (m *Module) RegisterMachine(ctx context.Context, mc MachineConfig) (MachineConfig, error) {
	registered, err := m.store.InsertMachine(ctx, mc)
	if err != nil {
		return MachineConfig{}, err
	}
	if m.bus != nil {
		m.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicMachineRegistered,
			Source:    "fleet",
			Timestamp: time.Now(),
			Payload:   registered,
		})
	}
	return registered, nil
}

// RemoveMachine deletes a machine and its stored assessments.
func (m *Module) RemoveMachine(ctx context.Context, machineID string) error {
	mc, err := m.store.GetMachine(ctx, machineID)
	if err != nil {
		return err
	}
	if mc == nil {
		return fmt.Errorf("%w: %s", ErrMachineNotFound, machineID)
	}
	if err := m.store.DeleteMachine(ctx, machineID); err != nil {
		return err
	}
	if m.bus != nil {
		m.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicMachineRemoved,
			Source:    "fleet",
			Timestamp: time.Now(),
			Payload:   machineID,
		})
	}
	return nil
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(ctx context.Context) plugin.HealthStatus {
	count, err := m.store.CountMachines(ctx)
	if err != nil {
		return plugin.HealthStatus{Status: "unhealthy", Message: err.Error()}
	}
	return plugin.HealthStatus{
		Status:  "healthy",
		Details: map[string]string{"machines": fmt.Sprintf("%d", count)},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
