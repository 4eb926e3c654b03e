package fleet

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/HerbHall/millwright/pkg/maint"
)

// Health bounds for synthesized machines. Nothing reads as brand new or
// completely dead.
const (
	minSimHealth = 5.0
	maxSimHealth = 98.0
)

// Sample is one synthesized live telemetry point.
type Sample struct {
	Temperature float64
	Vibration   float64
	Current     float64
	Health      float64
}

// Generator synthesizes plausible telemetry for registered machines. Each
// machine degrades linearly from its base health with a cyclic component and
// bounded noise on top.
type Generator struct {
	epoch time.Time
	mu    sync.Mutex
	rng   *rand.Rand
}

// NewGenerator creates a generator. The epoch anchors degradation: machines
// drift down from their base health as time passes since the epoch.
func NewGenerator(epoch time.Time, seed int64) *Generator {
	if seed == 0 {
		seed = epoch.UnixNano()
	}
	return &Generator{
		epoch: epoch,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (g *Generator) rand() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

// Sample synthesizes the machine's telemetry at the given instant.
func (g *Generator) Sample(m MachineConfig, at time.Time) Sample {
	elapsedMinutes := at.Sub(g.epoch).Minutes()
	degradation := m.DegradationRate * (elapsedMinutes / 10)

	ts := float64(at.Unix())
	cyclic := (math.Sin(ts/30) + math.Cos(ts/45)) * m.Volatility * 3
	noise := (g.rand() - 0.5) * m.Volatility * 4

	health := clampHealth(m.BaseHealth - degradation + cyclic + noise)
	healthFactor := (100 - health) / 100

	return Sample{
		Temperature: 40 + healthFactor*45 + (g.rand()-0.5)*8,
		Vibration:   0.3 + healthFactor*6 + (g.rand()-0.5)*0.8,
		Current:     10 + healthFactor*12 + (g.rand()-0.5)*2,
		Health:      health,
	}
}

// History synthesizes a backfilled telemetry series ending at end, one point
// per interval. The cyclic term runs on a much slower clock than live
// samples so hourly trends stay visible.
func (g *Generator) History(m MachineConfig, end time.Time, span, interval time.Duration) []maint.SensorPoint {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	var points []maint.SensorPoint
	for t := end.Add(-span); !t.After(end); t = t.Add(interval) {
		elapsedMinutes := t.Sub(g.epoch).Minutes()
		degradation := m.DegradationRate * (elapsedMinutes / 10)

		tsec := float64(t.Unix())
		cyclic := (math.Sin(tsec/30000) + math.Cos(tsec/45000)) * m.Volatility
		noise := (g.rand() - 0.5) * m.Volatility * 2

		health := clampHealth(m.BaseHealth - degradation + cyclic + noise)
		healthFactor := (100 - health) / 100

		points = append(points, maint.SensorPoint{
			Timestamp:   t,
			Temperature: 40 + healthFactor*45 + (g.rand()-0.5)*5,
			Vibration:   0.3 + healthFactor*6 + (g.rand()-0.5)*0.5,
			Current:     10 + healthFactor*12 + (g.rand()-0.5)*1.5,
			HealthScore: health,
		})
	}
	return points
}

func clampHealth(h float64) float64 {
	return math.Max(minSimHealth, math.Min(maxSimHealth, h))
}
