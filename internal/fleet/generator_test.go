package fleet

import (
	"math"
	"testing"
	"time"
)

var genEpoch = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestGenerator_HealthBounds(t *testing.T) {
	t.Parallel()

	g := NewGenerator(genEpoch, 1)
	for _, mc := range DefaultMachines() {
		for hours := 0; hours < 24*30; hours += 6 {
			at := genEpoch.Add(time.Duration(hours) * time.Hour)
			s := g.Sample(mc, at)
			if s.Health < minSimHealth || s.Health > maxSimHealth {
				t.Fatalf("%s health %v out of [%v, %v] at %v",
					mc.MachineID, s.Health, minSimHealth, maxSimHealth, at)
			}
		}
	}
}

func TestGenerator_DegradedMachineRunsHotter(t *testing.T) {
	t.Parallel()

	g := NewGenerator(genEpoch, 1)
	healthy := MachineConfig{BaseHealth: 95, DegradationRate: 0, Volatility: 0}
	failing := MachineConfig{BaseHealth: 10, DegradationRate: 0, Volatility: 0}

	at := genEpoch.Add(time.Hour)
	hs := g.Sample(healthy, at)
	fs := g.Sample(failing, at)

	// Noise amplitude is at most ±4°C, far below the 38°C health-driven gap.
	if fs.Temperature <= hs.Temperature {
		t.Errorf("failing machine temp %v <= healthy machine temp %v", fs.Temperature, hs.Temperature)
	}
	if fs.Vibration <= hs.Vibration {
		t.Errorf("failing machine vibration %v <= healthy %v", fs.Vibration, hs.Vibration)
	}
	if fs.Current <= hs.Current {
		t.Errorf("failing machine current %v <= healthy %v", fs.Current, hs.Current)
	}
}

func TestGenerator_SeededReproducibility(t *testing.T) {
	t.Parallel()

	mc := DefaultMachines()[1]
	at := genEpoch.Add(3 * time.Hour)

	a := NewGenerator(genEpoch, 42).Sample(mc, at)
	b := NewGenerator(genEpoch, 42).Sample(mc, at)
	if a != b {
		t.Errorf("samples differ for identical seeds: %+v vs %+v", a, b)
	}
}

func TestGenerator_HistorySpanAndSpacing(t *testing.T) {
	t.Parallel()

	g := NewGenerator(genEpoch, 7)
	mc := DefaultMachines()[0]
	end := genEpoch.Add(48 * time.Hour)

	points := g.History(mc, end, 24*time.Hour, time.Hour)
	if len(points) != 25 {
		t.Fatalf("got %d points, want 25 for 24h at 1h spacing", len(points))
	}
	if !points[0].Timestamp.Equal(end.Add(-24 * time.Hour)) {
		t.Errorf("first point at %v, want %v", points[0].Timestamp, end.Add(-24*time.Hour))
	}
	if !points[len(points)-1].Timestamp.Equal(end) {
		t.Errorf("last point at %v, want %v", points[len(points)-1].Timestamp, end)
	}
	for _, p := range points {
		if p.HealthScore < minSimHealth || p.HealthScore > maxSimHealth {
			t.Errorf("history health %v out of bounds at %v", p.HealthScore, p.Timestamp)
		}
	}
}

func TestGenerator_HistoryDriftsSlowly(t *testing.T) {
	t.Parallel()

	g := NewGenerator(genEpoch, 11)
	mc := MachineConfig{BaseHealth: 50, DegradationRate: 0, Volatility: 1}
	end := genEpoch.Add(48 * time.Hour)

	points := g.History(mc, end, 24*time.Hour, 30*time.Minute)
	// With no degradation, adjacent points differ by at most the noise band
	// (±1 each side) plus the cyclic movement over 30 minutes, which is under
	// 0.1 on the slow history clock.
	for i := 1; i < len(points); i++ {
		diff := math.Abs(points[i].HealthScore - points[i-1].HealthScore)
		if diff > 2.15 {
			t.Errorf("adjacent health jump %v at %v, want slow drift",
				diff, points[i].Timestamp)
		}
	}
}

func TestGenerator_HistorySensorNoiseIsQuiet(t *testing.T) {
	t.Parallel()

	g := NewGenerator(genEpoch, 13)
	// Zero volatility pins health to the base, isolating sensor noise.
	mc := MachineConfig{BaseHealth: 50, DegradationRate: 0, Volatility: 0}
	end := genEpoch.Add(48 * time.Hour)

	points := g.History(mc, end, 24*time.Hour, time.Hour)
	for _, p := range points {
		if p.HealthScore != 50 {
			t.Fatalf("health = %v, want pinned 50", p.HealthScore)
		}
		if d := math.Abs(p.Temperature - 62.5); d > 2.5 {
			t.Errorf("temperature noise %v exceeds ±2.5 at %v", d, p.Timestamp)
		}
		if d := math.Abs(p.Vibration - 3.3); d > 0.25 {
			t.Errorf("vibration noise %v exceeds ±0.25 at %v", d, p.Timestamp)
		}
		if d := math.Abs(p.Current - 16); d > 0.75 {
			t.Errorf("current noise %v exceeds ±0.75 at %v", d, p.Timestamp)
		}
	}
}

func TestDefaultMachines(t *testing.T) {
	t.Parallel()

	machines := DefaultMachines()
	if len(machines) != 6 {
		t.Fatalf("got %d default machines, want 6", len(machines))
	}
	seen := map[string]bool{}
	for _, m := range machines {
		if m.MachineID == "" || m.Name == "" || m.Location == "" {
			t.Errorf("machine %+v has empty identity fields", m)
		}
		if seen[m.MachineID] {
			t.Errorf("duplicate machine ID %q", m.MachineID)
		}
		seen[m.MachineID] = true
		if m.BaseHealth < minSimHealth || m.BaseHealth > maxSimHealth {
			t.Errorf("%s base health %v out of simulated range", m.MachineID, m.BaseHealth)
		}
	}
}
