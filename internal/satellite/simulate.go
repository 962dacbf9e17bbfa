package satellite

import (
	"math/rand"
	"sync"
	"time"
)

// Simulator generates plausible readings locally, used when no feed URL is
// configured and for demo installs. Value ranges match what the real feed
// reports for mature rubber stands.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewSimulator(rng *rand.Rand) *Simulator {
	return &Simulator{rng: rng, now: time.Now}
}

func (s *Simulator) AnalyzeBlock(blockID int64) (*Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	between := func(lo, hi float64) float64 {
		return lo + s.rng.Float64()*(hi-lo)
	}

	return &Reading{
		BlockID:       blockID,
		Date:          s.now().UTC(),
		NDVI:          between(0.35, 0.85),
		NDWI:          between(0.10, 0.40),
		NBR:           between(0.20, 0.70),
		CanopyDensity: between(60, 95),
		HealthScore:   between(0.60, 0.95),
		Temperature:   between(22, 32),
		Rainfall:      between(100, 300),
		SoilMoisture:  between(40, 80),
	}, nil
}
