package satellite

import (
	"math/rand"
	"testing"
)

func TestSimulator_ReadingsInRange(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(42)))

	for i := 0; i < 50; i++ {
		r, err := sim.AnalyzeBlock(int64(i + 1))
		if err != nil {
			t.Fatal(err)
		}
		if r.BlockID != int64(i+1) {
			t.Errorf("BlockID = %d, want %d", r.BlockID, i+1)
		}
		if r.NDVI < 0.35 || r.NDVI > 0.85 {
			t.Errorf("NDVI = %v out of range", r.NDVI)
		}
		if r.HealthScore < 0.60 || r.HealthScore > 0.95 {
			t.Errorf("HealthScore = %v out of range", r.HealthScore)
		}
		if r.Temperature < 22 || r.Temperature > 32 {
			t.Errorf("Temperature = %v out of range", r.Temperature)
		}
		if r.Rainfall < 100 || r.Rainfall > 300 {
			t.Errorf("Rainfall = %v out of range", r.Rainfall)
		}
		if r.SoilMoisture < 40 || r.SoilMoisture > 80 {
			t.Errorf("SoilMoisture = %v out of range", r.SoilMoisture)
		}
		if flags := ValidateReading(r); len(flags) > 0 {
			t.Errorf("simulated reading flagged: %v", flags)
		}
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	a := NewSimulator(rand.New(rand.NewSource(7)))
	b := NewSimulator(rand.New(rand.NewSource(7)))

	ra, err := a.AnalyzeBlock(1)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := b.AnalyzeBlock(1)
	if err != nil {
		t.Fatal(err)
	}
	if ra.NDVI != rb.NDVI || ra.HealthScore != rb.HealthScore {
		t.Error("same seed must produce the same reading sequence")
	}
}

func TestValidateReading(t *testing.T) {
	tests := []struct {
		name  string
		r     Reading
		flags int
	}{
		{
			name:  "clean reading",
			r:     Reading{NDVI: 0.7, HealthScore: 0.8, CanopyDensity: 80, Temperature: 27, Rainfall: 200, SoilMoisture: 60},
			flags: 0,
		},
		{
			name:  "ndvi above one",
			r:     Reading{NDVI: 1.2, HealthScore: 0.8, CanopyDensity: 80, Temperature: 27, Rainfall: 200, SoilMoisture: 60},
			flags: 1,
		},
		{
			name:  "negative rainfall and bad moisture",
			r:     Reading{NDVI: 0.7, HealthScore: 0.8, CanopyDensity: 80, Temperature: 27, Rainfall: -5, SoilMoisture: 120},
			flags: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateReading(&tt.r); len(got) != tt.flags {
				t.Errorf("ValidateReading() = %v, want %d flags", got, tt.flags)
			}
		})
	}
}
