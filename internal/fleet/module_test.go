package fleet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/millwright/internal/config"
	"github.com/HerbHall/millwright/internal/store"
	"github.com/HerbHall/millwright/pkg/maint"
	"github.com/HerbHall/millwright/pkg/plugin"
	"github.com/HerbHall/millwright/pkg/plugin/plugintest"
	"github.com/HerbHall/millwright/pkg/roles"
)

func TestContract(t *testing.T) {
	plugintest.TestPluginContract(t,
		func() plugin.Plugin { return New() },
		func(t *testing.T) plugin.Dependencies {
			s, err := store.New(":memory:")
			if err != nil {
				t.Fatalf("open store: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return plugin.Dependencies{
				Logger:  zap.NewNop(),
				Store:   s,
				Plugins: &stubResolver{},
			}
		})
}

// stubPredictorModule returns canned verdicts keyed by machine ID.
type stubPredictorModule struct {
	healthByMachine map[string]float64
}

func (s *stubPredictorModule) Info() plugin.PluginInfo {
	return plugin.PluginInfo{Name: "predictor", Roles: []string{roles.RolePredictor}}
}
func (s *stubPredictorModule) Init(ctx context.Context, deps plugin.Dependencies) error { return nil }
func (s *stubPredictorModule) Start(ctx context.Context) error                          { return nil }
func (s *stubPredictorModule) Stop(ctx context.Context) error                           { return nil }

func (s *stubPredictorModule) PredictRUL(ctx context.Context, reading maint.SensorReading) (maint.PredictionResult, error) {
	health, ok := s.healthByMachine[reading.MachineID]
	if !ok {
		health = 90
	}
	return maint.PredictionResult{
		HealthStatus:     maint.StatusNormal,
		HealthPercentage: health,
		PredictedRUL:     health * 1.2,
		RiskLevel:        maint.RiskLevelForHealth(health),
		RootCause:        "No issues detected - machine operating normally",
		Timestamp:        time.Now(),
	}, nil
}

type stubResolver struct {
	plugins []plugin.Plugin
}

func (r *stubResolver) Resolve(name string) (plugin.Plugin, bool) {
	for _, p := range r.plugins {
		if p.Info().Name == name {
			return p, true
		}
	}
	return nil, false
}

func (r *stubResolver) ResolveByRole(role string) []plugin.Plugin {
	var out []plugin.Plugin
	for _, p := range r.plugins {
		for _, have := range p.Info().Roles {
			if have == role {
				out = append(out, p)
			}
		}
	}
	return out
}

// newTestModule initializes a fleet module against an in-memory store with
// default seeding disabled and a fixed generator seed.
func newTestModule(t *testing.T, pred *stubPredictorModule) *Module {
	t.Helper()

	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	v := viper.New()
	v.Set("seed_defaults", false)
	v.Set("generator_seed", 42)

	m := New()
	deps := plugin.Dependencies{
		Config:  config.New(v),
		Logger:  zap.NewNop(),
		Store:   s,
		Plugins: &stubResolver{plugins: []plugin.Plugin{pred}},
	}
	if err := m.Init(context.Background(), deps); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return m
}

func TestModule_InfoDependsOnPredictor(t *testing.T) {
	t.Parallel()

	info := New().Info()
	if info.Name != "fleet" {
		t.Errorf("Name = %q, want fleet", info.Name)
	}
	if len(info.Dependencies) != 1 || info.Dependencies[0] != "predictor" {
		t.Errorf("Dependencies = %v, want [predictor]", info.Dependencies)
	}
	if len(info.Roles) != 1 || info.Roles[0] != roles.RoleFleet {
		t.Errorf("Roles = %v, want [%s]", info.Roles, roles.RoleFleet)
	}
}

func TestModule_InitSeedsDefaultFleet(t *testing.T) {
	t.Parallel()

	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	m := New()
	deps := plugin.Dependencies{
		Logger:  zap.NewNop(),
		Store:   s,
		Plugins: &stubResolver{},
	}
	if err := m.Init(context.Background(), deps); err != nil {
		t.Fatalf("Init: %v", err)
	}

	count, err := m.store.CountMachines(context.Background())
	if err != nil {
		t.Fatalf("CountMachines: %v", err)
	}
	if count != len(DefaultMachines()) {
		t.Errorf("seeded %d machines, want %d", count, len(DefaultMachines()))
	}

	// A second Init over the same store must not duplicate the fleet.
	m2 := New()
	if err := m2.Init(context.Background(), deps); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	count, err = m2.store.CountMachines(context.Background())
	if err != nil {
		t.Fatalf("CountMachines: %v", err)
	}
	if count != len(DefaultMachines()) {
		t.Errorf("after re-init %d machines, want %d", count, len(DefaultMachines()))
	}
}

func TestModule_StartRequiresPredictor(t *testing.T) {
	t.Parallel()

	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	v := viper.New()
	v.Set("seed_defaults", false)

	m := New()
	deps := plugin.Dependencies{
		Config:  config.New(v),
		Logger:  zap.NewNop(),
		Store:   s,
		Plugins: &stubResolver{},
	}
	if err := m.Init(context.Background(), deps); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := m.Start(context.Background()); err == nil {
		t.Error("Start succeeded without a predictor module")
	}
}

func TestModule_StatusCountsTiers(t *testing.T) {
	t.Parallel()

	pred := &stubPredictorModule{healthByMachine: map[string]float64{
		"MCH-A": 85,
		"MCH-B": 55,
		"MCH-C": 20,
	}}
	m := newTestModule(t, pred)
	ctx := context.Background()
	for _, id := range []string{"MCH-A", "MCH-B", "MCH-C"} {
		if _, err := m.RegisterMachine(ctx, MachineConfig{
			MachineID: id, Name: id, MachineType: "CNC", Location: "Bay T", BaseHealth: 80,
		}); err != nil {
			t.Fatalf("RegisterMachine %s: %v", id, err)
		}
	}
	m.predictor = pred

	status, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Total != 3 {
		t.Errorf("Total = %d, want 3", status.Total)
	}
	if status.Healthy != 1 || status.Warning != 1 || status.Critical != 1 {
		t.Errorf("tiers = %d/%d/%d, want 1/1/1",
			status.Healthy, status.Warning, status.Critical)
	}
	wantAvg := (85.0 + 55.0 + 20.0) / 3
	if status.AvgHealth != round2(wantAvg) {
		t.Errorf("AvgHealth = %v, want %v", status.AvgHealth, round2(wantAvg))
	}

	// Assessments are persisted as a side effect of the sweep.
	latest, err := m.store.LatestAssessment(ctx, "MCH-C")
	if err != nil {
		t.Fatalf("LatestAssessment: %v", err)
	}
	if latest == nil || latest.Status != "critical" {
		t.Errorf("latest assessment = %+v, want critical tier", latest)
	}
}

func TestModule_MachineDetail(t *testing.T) {
	t.Parallel()

	pred := &stubPredictorModule{healthByMachine: map[string]float64{"MCH-D": 45}}
	m := newTestModule(t, pred)
	ctx := context.Background()
	if _, err := m.RegisterMachine(ctx, MachineConfig{
		MachineID: "MCH-D", Name: "Compressor", MachineType: "Compressor",
		Location: "Bay U", BaseHealth: 50, Volatility: 1,
	}); err != nil {
		t.Fatalf("RegisterMachine: %v", err)
	}
	m.predictor = pred

	detail, err := m.MachineDetail(ctx, "MCH-D")
	if err != nil {
		t.Fatalf("MachineDetail: %v", err)
	}
	if detail.Machine.MachineID != "MCH-D" {
		t.Errorf("Machine.MachineID = %q, want MCH-D", detail.Machine.MachineID)
	}
	if detail.Current.Status != "warning" {
		t.Errorf("Current.Status = %q, want warning", detail.Current.Status)
	}
	if detail.Current.DaysToFailure != round2(45*1.2/24) {
		t.Errorf("DaysToFailure = %v, want %v", detail.Current.DaysToFailure, round2(45*1.2/24))
	}
	if len(detail.History) == 0 {
		t.Error("History is empty")
	}
	if len(detail.Recommendations) == 0 {
		t.Error("Recommendations is empty")
	}
}

func TestModule_MachineDetailUnknownID(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &stubPredictorModule{})
	_, err := m.MachineDetail(context.Background(), "MCH-MISSING")
	if !errors.Is(err, ErrMachineNotFound) {
		t.Errorf("err = %v, want ErrMachineNotFound", err)
	}
}

func TestModule_RecommendationsFromStoredHealth(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &stubPredictorModule{})
	ctx := context.Background()
	if _, err := m.RegisterMachine(ctx, MachineConfig{
		MachineID: "MCH-E", Name: "Mill", MachineType: "Mill",
		Location: "Bay S", BaseHealth: 90,
	}); err != nil {
		t.Fatalf("RegisterMachine: %v", err)
	}

	// Never assessed: derived from base health, which is healthy.
	recs, err := m.Recommendations(ctx, "MCH-E")
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("Recommendations returned nothing")
	}

	// A stored critical assessment changes the derived sensor picture.
	if err := m.store.SaveAssessment(ctx, Assessment{
		MachineID: "MCH-E", Health: 20, PredictedRUL: 30,
		Status: "critical", AssessedAt: time.Now(),
	}); err != nil {
		t.Fatalf("SaveAssessment: %v", err)
	}
	recs, err = m.Recommendations(ctx, "MCH-E")
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if recs[0].Priority != maint.PriorityUrgent {
		t.Errorf("top priority = %q, want urgent for health 20", recs[0].Priority)
	}

	if _, err := m.Recommendations(ctx, "MCH-GONE"); !errors.Is(err, ErrMachineNotFound) {
		t.Errorf("err = %v, want ErrMachineNotFound", err)
	}
}

func TestModule_RemoveMachine(t *testing.T) {
	t.Parallel()

	m := newTestModule(t, &stubPredictorModule{})
	ctx := context.Background()
	registered, err := m.RegisterMachine(ctx, MachineConfig{
		Name: "Grinder", MachineType: "Grinder", Location: "Bay V", BaseHealth: 70,
	})
	if err != nil {
		t.Fatalf("RegisterMachine: %v", err)
	}
	if registered.MachineID == "" {
		t.Fatal("RegisterMachine did not assign an ID")
	}

	if err := m.RemoveMachine(ctx, registered.MachineID); err != nil {
		t.Fatalf("RemoveMachine: %v", err)
	}
	if err := m.RemoveMachine(ctx, registered.MachineID); !errors.Is(err, ErrMachineNotFound) {
		t.Errorf("second remove err = %v, want ErrMachineNotFound", err)
	}
}
