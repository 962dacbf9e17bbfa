package ingest_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lakmal/heveatrack/internal/ingest"
	"github.com/lakmal/heveatrack/internal/models"
	"github.com/lakmal/heveatrack/internal/satellite"
	"github.com/lakmal/heveatrack/internal/store"

	_ "modernc.org/sqlite"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	s := store.New(db)
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}
	return s
}

func seedBlock(t *testing.T, s *store.Store) models.Block {
	t.Helper()
	estate := models.Estate{Name: "Galaha Estate", Location: "{}", TotalArea: 120, District: "Kandy", Established: 1952}
	if err := s.CreateEstate(&estate); err != nil {
		t.Fatal(err)
	}
	block := models.Block{EstateID: estate.ID, Name: "Block A1", Area: 12.5, TreeCount: 500, PlantingYear: 2010, CloneType: "RRIC 121", SoilType: "Red Yellow Podzolic"}
	if err := s.CreateBlock(&block); err != nil {
		t.Fatal(err)
	}
	return block
}

type stubAnalyzer struct {
	reading *satellite.Reading
	err     error
}

func (a *stubAnalyzer) AnalyzeBlock(blockID int64) (*satellite.Reading, error) {
	if a.err != nil {
		return nil, a.err
	}
	r := *a.reading
	r.BlockID = blockID
	return &r, nil
}

func TestAnalyzeBlock(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	block := seedBlock(t, s)

	analyzer := &stubAnalyzer{reading: &satellite.Reading{
		Date:        time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC),
		NDVI:        0.72,
		HealthScore: 0.85,
		Rainfall:    220,
	}}

	metric, err := ingest.AnalyzeBlock(s, analyzer, block.ID)
	if err != nil {
		t.Fatal(err)
	}
	if metric.ID == 0 {
		t.Error("metric was not persisted")
	}
	if !metric.Date.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("metric date = %v, want the calendar day", metric.Date)
	}

	stored, err := s.GetLatestHealthMetric(block.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored == nil || stored.HealthScore != 0.85 {
		t.Errorf("stored metric = %+v", stored)
	}

	got, err := s.GetBlock(block.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.HealthScore.Float64 != 0.85 {
		t.Errorf("block health score = %v, want 0.85", got.HealthScore.Float64)
	}
}

func TestAnalyzeBlock_AnalyzerError(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	block := seedBlock(t, s)

	analyzer := &stubAnalyzer{err: errors.New("feed down")}
	if _, err := ingest.AnalyzeBlock(s, analyzer, block.ID); err == nil {
		t.Fatal("expected error when the analyzer fails")
	}

	stored, err := s.GetLatestHealthMetric(block.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored != nil {
		t.Error("no metric must be stored when analysis fails")
	}
}

func TestUpdateWorkerRollingAverage(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	block := seedBlock(t, s)

	worker := models.Worker{Name: "Kumara Perera", JoinDate: time.Now(), IsActive: true}
	if err := s.CreateWorker(&worker); err != nil {
		t.Fatal(err)
	}

	// 35 records: only the most recent 30 participate in the average.
	// Yields 1..35 by date, so the window is 6..35 with mean 20.5.
	for i := 1; i <= 35; i++ {
		r := models.TappingRecord{
			WorkerID:   worker.ID,
			BlockID:    block.ID,
			Date:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			LatexYield: float64(i),
			Quality:    85,
		}
		if err := s.InsertTappingRecord(&r); err != nil {
			t.Fatal(err)
		}
	}

	avg, err := ingest.UpdateWorkerRollingAverage(s, worker.ID)
	if err != nil {
		t.Fatal(err)
	}
	if avg != 20.5 {
		t.Errorf("rolling average = %v, want 20.5", avg)
	}

	got, err := s.GetWorker(worker.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.AverageYield.Valid || got.AverageYield.Float64 != 20.5 {
		t.Errorf("persisted average = %+v, want 20.5", got.AverageYield)
	}
}

func TestUpdateWorkerRollingAverage_NoRecords(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedBlock(t, s)

	worker := models.Worker{Name: "New Tapper", JoinDate: time.Now(), IsActive: true}
	if err := s.CreateWorker(&worker); err != nil {
		t.Fatal(err)
	}

	avg, err := ingest.UpdateWorkerRollingAverage(s, worker.ID)
	if err != nil {
		t.Fatal(err)
	}
	if avg != 0 {
		t.Errorf("rolling average = %v, want 0 for no records", avg)
	}
}
