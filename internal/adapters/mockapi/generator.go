package mockapi

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Generator appends a random sample to a session on every tick, simulating a
// device that is recording.
type Generator struct {
	backend  *Backend
	interval time.Duration
	rng      *rand.Rand
}

func NewGenerator(b *Backend, interval time.Duration, seed int64) *Generator {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Generator{backend: b, interval: interval, rng: rand.New(rand.NewSource(seed))}
}

// Sample draws one reading: position, acceleration in m/s², rotation in deg/s and
// four DAC voltages.
func (g *Generator) Sample() [13]float64 {
	return [13]float64{
		round2(g.uniform(-90, 90)),
		round2(g.uniform(-180, 180)),
		g.uniform(100, 1000),
		g.uniform(-10, 10), g.uniform(-10, 10), g.uniform(-10, 10),
		g.uniform(-500, 500), g.uniform(-500, 500), g.uniform(-500, 500),
		g.uniform(0, 5), g.uniform(0, 5), g.uniform(0, 5), g.uniform(0, 5),
	}
}

// Run records samples into the session until ctx is done or limit samples were
// written. A limit of zero means no limit.
func (g *Generator) Run(ctx context.Context, sessionID int64, limit int) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for n := 0; limit == 0 || n < limit; n++ {
		if _, err := g.backend.Record(sessionID, g.Sample()); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
