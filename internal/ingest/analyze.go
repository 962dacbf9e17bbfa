package ingest

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/lakmal/heveatrack/internal/analytics"
	"github.com/lakmal/heveatrack/internal/metrics"
	"github.com/lakmal/heveatrack/internal/models"
	"github.com/lakmal/heveatrack/internal/satellite"
	"github.com/lakmal/heveatrack/internal/store"
)

// RollingWindowRecords is how many of a worker's most recent records feed
// their rolling average. Records, not days.
const RollingWindowRecords = 30

// AnalyzeBlock runs the satellite analyzer for one block, stores the result
// as a health metric, and refreshes the block's cached health score. The
// stored metric is returned.
func AnalyzeBlock(st *store.Store, analyzer satellite.Analyzer, blockID int64) (*models.HealthMetric, error) {
	reading, err := analyzer.AnalyzeBlock(blockID)
	if err != nil {
		return nil, fmt.Errorf("analyze block %d: %w", blockID, err)
	}

	if flags := satellite.ValidateReading(reading); len(flags) > 0 {
		log.Printf("ingest: block %d reading flagged: %v", blockID, flags)
	}

	metric := &models.HealthMetric{
		BlockID:       blockID,
		Date:          models.DateOnly(reading.Date),
		NDVI:          reading.NDVI,
		NDWI:          sql.NullFloat64{Float64: reading.NDWI, Valid: true},
		NBR:           sql.NullFloat64{Float64: reading.NBR, Valid: true},
		CanopyDensity: sql.NullFloat64{Float64: reading.CanopyDensity, Valid: true},
		HealthScore:   reading.HealthScore,
		Temperature:   sql.NullFloat64{Float64: reading.Temperature, Valid: true},
		Rainfall:      sql.NullFloat64{Float64: reading.Rainfall, Valid: true},
		SoilMoisture:  sql.NullFloat64{Float64: reading.SoilMoisture, Valid: true},
	}
	if err := st.InsertHealthMetric(metric); err != nil {
		return nil, fmt.Errorf("store metric for block %d: %w", blockID, err)
	}
	if err := st.UpdateBlockHealthScore(blockID, reading.HealthScore); err != nil {
		return nil, fmt.Errorf("update block %d health score: %w", blockID, err)
	}

	metrics.AnalysesStored.WithLabelValues("satellite").Inc()
	return metric, nil
}

// UpdateWorkerRollingAverage recomputes a worker's rolling average over their
// most recent records and writes it back to the worker row. Called whenever a
// new tapping record lands.
func UpdateWorkerRollingAverage(st *store.Store, workerID int64) (float64, error) {
	recent, err := st.GetRecentRecordsForWorker(workerID, RollingWindowRecords)
	if err != nil {
		return 0, fmt.Errorf("recent records for worker %d: %w", workerID, err)
	}

	avg := analytics.RollingAverage(recent)
	if err := st.UpdateWorkerAverageYield(workerID, avg); err != nil {
		return 0, fmt.Errorf("update worker %d average: %w", workerID, err)
	}
	return avg, nil
}
