package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/lakmal/heveatrack/internal/models"
)

// DefaultRankingSize is how many workers the by-worker ranking keeps.
const DefaultRankingSize = 10

// TrendWindowDays is the trailing window for the daily yield trend.
const TrendWindowDays = 30

type WorkerYield struct {
	WorkerID    int64   `json:"workerId"`
	WorkerName  string  `json:"workerName,omitempty"`
	TotalYield  float64 `json:"totalYield"`
	AvgYield    float64 `json:"avgYield"`
	RecordCount int     `json:"recordCount"`
}

type DailyYield struct {
	Date        string  `json:"date"`
	TotalYield  float64 `json:"totalYield"`
	RecordCount int     `json:"recordCount"`
}

type QualityCount struct {
	Category string `json:"qualityCategory"`
	Count    int    `json:"count"`
}

// YieldAnalytics is the combined read-side payload for tapping analytics.
type YieldAnalytics struct {
	YieldByWorker       []WorkerYield  `json:"yieldByWorker"`
	DailyTrend          []DailyYield   `json:"dailyTrend"`
	QualityDistribution []QualityCount `json:"qualityDistribution"`
}

// Round2 rounds half away from zero at two decimals, the rounding used for
// all kg and percentage figures.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// YieldByWorker ranks workers by total yield over the given records, which the
// caller has already filtered. names decorates entries with worker names and
// may be nil. Workers with no records are absent rather than listed with zero.
// Ties on total yield order by ascending worker ID so the ranking is stable.
func YieldByWorker(records []models.TappingRecord, names map[int64]string, topN int) []WorkerYield {
	if topN <= 0 {
		topN = DefaultRankingSize
	}

	totals := make(map[int64]*WorkerYield)
	var order []int64
	for _, r := range records {
		w, ok := totals[r.WorkerID]
		if !ok {
			w = &WorkerYield{WorkerID: r.WorkerID, WorkerName: names[r.WorkerID]}
			totals[r.WorkerID] = w
			order = append(order, r.WorkerID)
		}
		w.TotalYield += r.LatexYield
		w.RecordCount++
	}

	ranked := make([]WorkerYield, 0, len(order))
	for _, id := range order {
		w := totals[id]
		w.AvgYield = w.TotalYield / float64(w.RecordCount)
		ranked = append(ranked, *w)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalYield != ranked[j].TotalYield {
			return ranked[i].TotalYield > ranked[j].TotalYield
		}
		return ranked[i].WorkerID < ranked[j].WorkerID
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// DailyTrend buckets records from the trailing 30-day window ending at now
// into per-day totals. Days without records do not appear.
func DailyTrend(records []models.TappingRecord, now time.Time) []DailyYield {
	cutoff := models.DateOnly(now).AddDate(0, 0, -TrendWindowDays)

	byDay := make(map[string]*DailyYield)
	for _, r := range records {
		if models.DateOnly(r.Date).Before(cutoff) {
			continue
		}
		key := BucketKey(r.Date, Day)
		d, ok := byDay[key]
		if !ok {
			d = &DailyYield{Date: key}
			byDay[key] = d
		}
		d.TotalYield += r.LatexYield
		d.RecordCount++
	}

	trend := make([]DailyYield, 0, len(byDay))
	for _, d := range byDay {
		trend = append(trend, *d)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })
	return trend
}

// QualityDistribution counts records per quality band. All four bands are
// always emitted, zero counts included.
func QualityDistribution(records []models.TappingRecord) []QualityCount {
	counts := make(map[string]int, len(QualityBands))
	for _, r := range records {
		counts[QualityBand(r.Quality)]++
	}
	dist := make([]QualityCount, 0, len(QualityBands))
	for _, band := range QualityBands {
		dist = append(dist, QualityCount{Category: band, Count: counts[band]})
	}
	return dist
}

// ComputeYieldAnalytics combines the ranking, trend, and distribution over one
// already-filtered record set. Empty input yields empty ranking and trend but
// a dense all-zero distribution.
func ComputeYieldAnalytics(records []models.TappingRecord, names map[int64]string, now time.Time) YieldAnalytics {
	return YieldAnalytics{
		YieldByWorker:       YieldByWorker(records, names, DefaultRankingSize),
		DailyTrend:          DailyTrend(records, now),
		QualityDistribution: QualityDistribution(records),
	}
}

// RollingAverage recomputes a worker's rolling average yield from their most
// recent records; the caller limits and orders the slice. Returns 0 when
// there are no records.
func RollingAverage(records []models.TappingRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var total float64
	for _, r := range records {
		total += r.LatexYield
	}
	return total / float64(len(records))
}

// WorkerPerformance is the 30-day analytics report for one worker.
type WorkerPerformance struct {
	TotalRecords        int                    `json:"totalRecords"`
	TotalYield          float64                `json:"totalYield"`
	AverageYield        float64                `json:"averageYield"`
	AverageQuality      float64                `json:"averageQuality"`
	QualityDistribution []QualityCount         `json:"qualityDistribution"`
	RecentRecords       []models.TappingRecord `json:"recentRecords"`
}

// ComputeWorkerPerformance summarises one worker's already-filtered records,
// most recent first. Up to ten records are echoed back for display.
func ComputeWorkerPerformance(records []models.TappingRecord) WorkerPerformance {
	perf := WorkerPerformance{
		TotalRecords:        len(records),
		QualityDistribution: QualityDistribution(records),
	}

	var totalQuality float64
	for _, r := range records {
		perf.TotalYield += r.LatexYield
		totalQuality += r.Quality
	}
	if len(records) > 0 {
		perf.AverageYield = Round2(perf.TotalYield / float64(len(records)))
		perf.AverageQuality = Round2(totalQuality / float64(len(records)))
	}
	perf.TotalYield = Round2(perf.TotalYield)

	perf.RecentRecords = records
	if len(perf.RecentRecords) > 10 {
		perf.RecentRecords = perf.RecentRecords[:10]
	}
	return perf
}
