package store

import (
	"database/sql"
	"time"

	"github.com/lakmal/heveatrack/internal/models"
)

// ForecastFilters narrows forecast listings.
type ForecastFilters struct {
	Status *models.AlertStatus
	Since  *time.Time
	Limit  int
	Offset int
}

const forecastColumns = `id, block_id, predicted_yield, confidence, factors, generated_at, prediction_period, status`

// InsertYieldForecast persists a new forecast row and assigns its identity.
// Forecast rows are never updated afterwards.
func (s *Store) InsertYieldForecast(f *models.YieldForecast) error {
	res, err := s.db.Exec(`
		INSERT INTO yield_forecasts (block_id, predicted_yield, confidence, factors, generated_at, prediction_period, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.BlockID, f.PredictedYield, f.Confidence, f.FactorsJSON, f.GeneratedAt, f.PredictionPeriod, f.Status)
	if err != nil {
		return err
	}
	f.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetYieldForecast(id int64) (*models.YieldForecast, error) {
	row := s.db.QueryRow(`SELECT `+forecastColumns+` FROM yield_forecasts WHERE id = ?`, id)

	var f models.YieldForecast
	err := row.Scan(&f.ID, &f.BlockID, &f.PredictedYield, &f.Confidence, &f.FactorsJSON, &f.GeneratedAt, &f.PredictionPeriod, &f.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListYieldForecasts returns forecasts matching the filters, most recently
// generated first.
func (s *Store) ListYieldForecasts(filters ForecastFilters) ([]models.YieldForecast, error) {
	query := `SELECT ` + forecastColumns + ` FROM yield_forecasts WHERE 1=1`
	var args []any
	if filters.Status != nil {
		query += ` AND status = ?`
		args = append(args, *filters.Status)
	}
	if filters.Since != nil {
		query += ` AND generated_at >= ?`
		args = append(args, *filters.Since)
	}
	query += ` ORDER BY generated_at DESC, id DESC`
	if filters.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filters.Limit, filters.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forecasts []models.YieldForecast
	for rows.Next() {
		var f models.YieldForecast
		if err := rows.Scan(&f.ID, &f.BlockID, &f.PredictedYield, &f.Confidence, &f.FactorsJSON, &f.GeneratedAt, &f.PredictionPeriod, &f.Status); err != nil {
			return nil, err
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, rows.Err()
}

// ListForecastsForBlock returns a block's forecasts, most recent first.
func (s *Store) ListForecastsForBlock(blockID int64, limit int) ([]models.YieldForecast, error) {
	rows, err := s.db.Query(`
		SELECT `+forecastColumns+` FROM yield_forecasts
		WHERE block_id = ?
		ORDER BY generated_at DESC, id DESC
		LIMIT ?
	`, blockID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forecasts []models.YieldForecast
	for rows.Next() {
		var f models.YieldForecast
		if err := rows.Scan(&f.ID, &f.BlockID, &f.PredictedYield, &f.Confidence, &f.FactorsJSON, &f.GeneratedAt, &f.PredictionPeriod, &f.Status); err != nil {
			return nil, err
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, rows.Err()
}

func (s *Store) CountYieldForecasts(filters ForecastFilters) (int, error) {
	query := `SELECT COUNT(*) FROM yield_forecasts WHERE 1=1`
	var args []any
	if filters.Status != nil {
		query += ` AND status = ?`
		args = append(args, *filters.Status)
	}
	if filters.Since != nil {
		query += ` AND generated_at >= ?`
		args = append(args, *filters.Since)
	}

	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) DeleteYieldForecast(id int64) error {
	_, err := s.db.Exec(`DELETE FROM yield_forecasts WHERE id = ?`, id)
	return err
}
