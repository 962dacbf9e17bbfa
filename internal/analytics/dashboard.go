package analytics

import (
	"math"

	"github.com/lakmal/heveatrack/internal/models"
)

// FallbackHealthScore stands in for the fleet average when no health
// observations exist yet.
const FallbackHealthScore = 0.75

// EntityCounts are supplied by the record store.
type EntityCounts struct {
	Estates       int
	Blocks        int
	ActiveWorkers int
	TotalArea     float64
	TotalTrees    int64
}

// DashboardStats is the top-level overview payload.
type DashboardStats struct {
	TotalEstates  int     `json:"totalEstates"`
	TotalBlocks   int     `json:"totalBlocks"`
	TotalWorkers  int     `json:"totalWorkers"`
	TotalArea     float64 `json:"totalArea"`
	TotalTrees    int64   `json:"totalTrees"`
	AverageYield  float64 `json:"averageYield"`
	HealthIndex   int     `json:"healthIndex"`
	ActiveWorkers int     `json:"activeWorkers"`
}

// ComposeDashboardStats combines entity counts with the trailing-30-day
// tapping records and trailing-7-day health metrics, both already filtered by
// the store. Average yield is the flat mean over all records in the window,
// not a mean of daily means. The health index is the flat mean health score
// scaled to 0-100 and rounded, using the 0.75 fallback when no metrics exist.
func ComposeDashboardStats(counts EntityCounts, recentRecords []models.TappingRecord, recentMetrics []models.HealthMetric) DashboardStats {
	var avgYield float64
	if len(recentRecords) > 0 {
		var total float64
		for _, r := range recentRecords {
			total += r.LatexYield
		}
		avgYield = total / float64(len(recentRecords))
	}

	avgHealth := FallbackHealthScore
	if len(recentMetrics) > 0 {
		var total float64
		for _, m := range recentMetrics {
			total += m.HealthScore
		}
		avgHealth = total / float64(len(recentMetrics))
	}

	return DashboardStats{
		TotalEstates:  counts.Estates,
		TotalBlocks:   counts.Blocks,
		TotalWorkers:  counts.ActiveWorkers,
		TotalArea:     counts.TotalArea,
		TotalTrees:    counts.TotalTrees,
		AverageYield:  Round2(avgYield),
		HealthIndex:   int(math.Round(avgHealth * 100)),
		ActiveWorkers: counts.ActiveWorkers,
	}
}

type MonthlyYield struct {
	Month      string  `json:"month"`
	AvgYield   float64 `json:"avgYield"`
	TotalYield float64 `json:"totalYield"`
}

type MonthlyRainfall struct {
	Month    string  `json:"month"`
	Rainfall float64 `json:"rainfall"`
}

// DashboardTrends carries the monthly chart series for the overview page.
type DashboardTrends struct {
	YieldTrends  []MonthlyYield    `json:"yieldTrends"`
	RainfallData []MonthlyRainfall `json:"rainfallData"`
	HealthTrends []MonthlyHealth   `json:"healthTrends"`
}

// ComposeDashboardTrends buckets the supplied six-month record and metric sets
// by calendar month. Rainfall is the mean of recorded health-observation
// rainfall per month; months with no rainfall readings are omitted along with
// every other sparse series.
func ComposeDashboardTrends(records []models.TappingRecord, metrics []models.HealthMetric) DashboardTrends {
	yieldObs := make([]Observation, len(records))
	for i, r := range records {
		yieldObs[i] = Observation{Date: r.Date, Value: r.LatexYield}
	}

	var trends DashboardTrends
	for _, b := range BucketBy(yieldObs, Month) {
		trends.YieldTrends = append(trends.YieldTrends, MonthlyYield{
			Month:      b.Key,
			AvgYield:   b.Mean(),
			TotalYield: b.Sum(),
		})
	}

	var rainObs []Observation
	for _, m := range metrics {
		if m.Rainfall.Valid {
			rainObs = append(rainObs, Observation{Date: m.Date, Value: m.Rainfall.Float64})
		}
	}
	for _, b := range BucketBy(rainObs, Month) {
		trends.RainfallData = append(trends.RainfallData, MonthlyRainfall{
			Month:    b.Key,
			Rainfall: b.Mean(),
		})
	}

	trends.HealthTrends = MonthlyTrend(metrics)
	return trends
}
