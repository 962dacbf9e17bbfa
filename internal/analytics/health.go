package analytics

import (
	"time"

	"github.com/lakmal/heveatrack/internal/models"
)

// SummaryWindowDays is the lookback for the fleet health snapshot.
const SummaryWindowDays = 7

// DefaultPeriod is used when a trend request names no lookback period.
const DefaultPeriod = "3months"

// PeriodStart maps a period label to the start of its lookback window,
// measured from now. Unknown labels fall back to the default period.
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case "1month":
		return now.AddDate(0, -1, 0)
	case "3months":
		return now.AddDate(0, -3, 0)
	case "6months":
		return now.AddDate(0, -6, 0)
	case "1year":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -3, 0)
	}
}

type MonthlyHealth struct {
	Month     string  `json:"month"`
	AvgHealth float64 `json:"avgHealth"`
}

// MonthlyTrend averages health scores per calendar month. Months without
// observations are omitted.
func MonthlyTrend(metrics []models.HealthMetric) []MonthlyHealth {
	obs := make([]Observation, len(metrics))
	for i, m := range metrics {
		obs[i] = Observation{Date: m.Date, Value: m.HealthScore}
	}

	buckets := BucketBy(obs, Month)
	trend := make([]MonthlyHealth, len(buckets))
	for i, b := range buckets {
		trend[i] = MonthlyHealth{Month: b.Key, AvgHealth: b.Mean()}
	}
	return trend
}

// LatestPerBlock picks each block's most recent observation from the given
// set. Two observations on the same date tie-break on highest ID, which the
// store assigns monotonically, so the choice never depends on input order.
func LatestPerBlock(metrics []models.HealthMetric) []models.HealthMetric {
	latest := make(map[int64]models.HealthMetric)
	var order []int64
	for _, m := range metrics {
		cur, ok := latest[m.BlockID]
		if !ok {
			latest[m.BlockID] = m
			order = append(order, m.BlockID)
			continue
		}
		curDate, date := models.DateOnly(cur.Date), models.DateOnly(m.Date)
		if date.After(curDate) || (date.Equal(curDate) && m.ID > cur.ID) {
			latest[m.BlockID] = m
		}
	}

	snapshot := make([]models.HealthMetric, 0, len(order))
	for _, blockID := range order {
		snapshot = append(snapshot, latest[blockID])
	}
	return snapshot
}

// HealthSummary is the fleet-wide health overview.
type HealthSummary struct {
	TotalBlocks    int                   `json:"totalBlocks"`
	AvgHealthScore float64               `json:"avgHealthScore"`
	HealthyBlocks  int                   `json:"healthyBlocks"`
	WarningBlocks  int                   `json:"warningBlocks"`
	CriticalBlocks int                   `json:"criticalBlocks"`
	LatestMetrics  []models.HealthMetric `json:"latestMetrics"`
}

// ComputeHealthSummary reduces a filtered metric set to the fleet summary:
// one latest observation per block, the average of those scores (0 when the
// set is empty), and dense band counts.
func ComputeHealthSummary(metrics []models.HealthMetric) HealthSummary {
	snapshot := LatestPerBlock(metrics)

	summary := HealthSummary{
		TotalBlocks:   len(snapshot),
		LatestMetrics: snapshot,
	}
	if summary.LatestMetrics == nil {
		summary.LatestMetrics = []models.HealthMetric{}
	}

	var total float64
	for _, m := range snapshot {
		total += m.HealthScore
		switch HealthBand(m.HealthScore) {
		case HealthHealthy:
			summary.HealthyBlocks++
		case HealthWarning:
			summary.WarningBlocks++
		case HealthCritical:
			summary.CriticalBlocks++
		}
	}
	if len(snapshot) > 0 {
		summary.AvgHealthScore = Round2(total / float64(len(snapshot)))
	}
	return summary
}
