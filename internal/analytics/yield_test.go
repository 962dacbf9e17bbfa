package analytics

import (
	"testing"
	"time"

	"github.com/lakmal/heveatrack/internal/models"
)

func record(workerID int64, d time.Time, yield, quality float64) models.TappingRecord {
	return models.TappingRecord{WorkerID: workerID, Date: d, LatexYield: yield, Quality: quality}
}

func TestYieldByWorker_Ranking(t *testing.T) {
	d := date(2024, time.June, 1)
	records := []models.TappingRecord{
		record(1, d, 10, 85),
		record(2, d, 30, 85),
		record(1, d, 15, 85),
		record(3, d, 20, 85),
	}
	names := map[int64]string{1: "Kumara", 2: "Bandara", 3: "Silva"}

	ranked := YieldByWorker(records, names, 10)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 workers, got %d", len(ranked))
	}
	if ranked[0].WorkerID != 2 || ranked[1].WorkerID != 1 || ranked[2].WorkerID != 3 {
		t.Errorf("ranking order = %d, %d, %d, want 2, 1, 3",
			ranked[0].WorkerID, ranked[1].WorkerID, ranked[2].WorkerID)
	}
	if ranked[1].TotalYield != 25 || ranked[1].RecordCount != 2 {
		t.Errorf("worker 1 total = %v count = %d, want 25 and 2", ranked[1].TotalYield, ranked[1].RecordCount)
	}
	if ranked[1].AvgYield != 12.5 {
		t.Errorf("worker 1 avg = %v, want 12.5", ranked[1].AvgYield)
	}
	if ranked[0].WorkerName != "Bandara" {
		t.Errorf("worker name = %q, want Bandara", ranked[0].WorkerName)
	}
}

func TestYieldByWorker_TieBreaksOnWorkerID(t *testing.T) {
	d := date(2024, time.June, 1)
	records := []models.TappingRecord{
		record(7, d, 20, 85),
		record(3, d, 20, 85),
	}

	ranked := YieldByWorker(records, nil, 10)
	if ranked[0].WorkerID != 3 || ranked[1].WorkerID != 7 {
		t.Errorf("tie order = %d, %d, want 3, 7", ranked[0].WorkerID, ranked[1].WorkerID)
	}
}

func TestYieldByWorker_Truncation(t *testing.T) {
	d := date(2024, time.June, 1)
	var records []models.TappingRecord
	for i := int64(1); i <= 15; i++ {
		records = append(records, record(i, d, float64(i), 85))
	}

	ranked := YieldByWorker(records, nil, 10)
	if len(ranked) != 10 {
		t.Fatalf("expected 10 workers after truncation, got %d", len(ranked))
	}
	if ranked[0].WorkerID != 15 {
		t.Errorf("top worker = %d, want 15", ranked[0].WorkerID)
	}
}

func TestDailyTrend_WindowAndOrder(t *testing.T) {
	now := date(2024, time.June, 30)
	records := []models.TappingRecord{
		record(1, date(2024, time.June, 29), 10, 85),
		record(1, date(2024, time.June, 10), 5, 85),
		record(1, date(2024, time.June, 29), 7, 85),
		record(1, date(2024, time.April, 1), 99, 85), // outside 30-day window
	}

	trend := DailyTrend(records, now)
	if len(trend) != 2 {
		t.Fatalf("expected 2 days, got %d", len(trend))
	}
	if trend[0].Date != "2024-06-10" || trend[1].Date != "2024-06-29" {
		t.Errorf("trend order = %q, %q", trend[0].Date, trend[1].Date)
	}
	if trend[1].TotalYield != 17 || trend[1].RecordCount != 2 {
		t.Errorf("day total = %v count = %d, want 17 and 2", trend[1].TotalYield, trend[1].RecordCount)
	}
}

func TestQualityDistribution_Dense(t *testing.T) {
	d := date(2024, time.June, 1)
	records := []models.TappingRecord{
		record(1, d, 10, 95),
		record(1, d, 10, 85),
		record(1, d, 10, 92),
	}

	dist := QualityDistribution(records)
	if len(dist) != 4 {
		t.Fatalf("expected 4 bands, got %d", len(dist))
	}
	want := map[string]int{QualityExcellent: 2, QualityGood: 1, QualityFair: 0, QualityPoor: 0}
	for _, qc := range dist {
		if qc.Count != want[qc.Category] {
			t.Errorf("band %q count = %d, want %d", qc.Category, qc.Count, want[qc.Category])
		}
	}
}

func TestComputeYieldAnalytics_Empty(t *testing.T) {
	got := ComputeYieldAnalytics(nil, nil, date(2024, time.June, 1))
	if len(got.YieldByWorker) != 0 {
		t.Errorf("expected empty ranking, got %d entries", len(got.YieldByWorker))
	}
	if len(got.DailyTrend) != 0 {
		t.Errorf("expected empty trend, got %d entries", len(got.DailyTrend))
	}
	if len(got.QualityDistribution) != 4 {
		t.Errorf("expected dense zero distribution, got %d bands", len(got.QualityDistribution))
	}
	for _, qc := range got.QualityDistribution {
		if qc.Count != 0 {
			t.Errorf("band %q count = %d, want 0", qc.Category, qc.Count)
		}
	}
}

func TestRollingAverage(t *testing.T) {
	d := date(2024, time.June, 1)
	records := []models.TappingRecord{
		record(1, d, 10, 85),
		record(1, d, 20, 85),
		record(1, d, 30, 85),
	}
	if got := RollingAverage(records); got != 20 {
		t.Errorf("RollingAverage() = %v, want 20", got)
	}
	if got := RollingAverage(nil); got != 0 {
		t.Errorf("RollingAverage(nil) = %v, want 0", got)
	}
}

func TestComputeWorkerPerformance(t *testing.T) {
	d := date(2024, time.June, 1)
	var records []models.TappingRecord
	for i := 0; i < 12; i++ {
		records = append(records, record(1, d.AddDate(0, 0, -i), 10.5, 80))
	}

	perf := ComputeWorkerPerformance(records)
	if perf.TotalRecords != 12 {
		t.Errorf("TotalRecords = %d, want 12", perf.TotalRecords)
	}
	if perf.TotalYield != 126 {
		t.Errorf("TotalYield = %v, want 126", perf.TotalYield)
	}
	if perf.AverageYield != 10.5 {
		t.Errorf("AverageYield = %v, want 10.5", perf.AverageYield)
	}
	if perf.AverageQuality != 80 {
		t.Errorf("AverageQuality = %v, want 80", perf.AverageQuality)
	}
	if len(perf.RecentRecords) != 10 {
		t.Errorf("RecentRecords = %d, want 10", len(perf.RecentRecords))
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.006, 1.01},
		{1.004, 1.0},
		{-1.006, -1.01},
		{745.0, 745.0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
