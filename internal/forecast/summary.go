package forecast

import (
	"math"

	"github.com/lakmal/heveatrack/internal/models"
)

// StatusDistribution counts forecasts per alert band. All three bands are
// always present.
type StatusDistribution struct {
	Green  int `json:"green"`
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

// Summary aggregates recently generated forecasts.
type Summary struct {
	TotalPredictions   int                    `json:"totalPredictions"`
	AvgPredictedYield  float64                `json:"avgPredictedYield"`
	AvgConfidence      float64                `json:"avgConfidence"`
	StatusDistribution StatusDistribution     `json:"statusDistribution"`
	RecentPredictions  []models.YieldForecast `json:"recentPredictions"`
}

// Summarize reduces a forecast set, most recent first, to its summary. Empty
// input produces zero averages, never NaN. Up to ten forecasts are echoed
// back for display.
func Summarize(forecasts []models.YieldForecast) Summary {
	s := Summary{TotalPredictions: len(forecasts)}

	var totalYield, totalConfidence float64
	for _, f := range forecasts {
		totalYield += f.PredictedYield
		totalConfidence += f.Confidence
		switch f.Status {
		case models.StatusGreen:
			s.StatusDistribution.Green++
		case models.StatusYellow:
			s.StatusDistribution.Yellow++
		case models.StatusRed:
			s.StatusDistribution.Red++
		}
	}
	if len(forecasts) > 0 {
		s.AvgPredictedYield = math.Round(totalYield/float64(len(forecasts))*100) / 100
		s.AvgConfidence = math.Round(totalConfidence/float64(len(forecasts))*100) / 100
	}

	s.RecentPredictions = forecasts
	if len(s.RecentPredictions) > 10 {
		s.RecentPredictions = s.RecentPredictions[:10]
	}
	if s.RecentPredictions == nil {
		s.RecentPredictions = []models.YieldForecast{}
	}
	return s
}
