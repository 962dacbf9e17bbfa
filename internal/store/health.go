package store

import (
	"database/sql"
	"time"

	"github.com/lakmal/heveatrack/internal/models"
)

// HealthFilters narrows health metric listings. Nil fields mean no
// constraint; Limit <= 0 means no limit.
type HealthFilters struct {
	Start   *time.Time
	End     *time.Time
	BlockID *int64
	Limit   int
}

const healthColumns = `id, block_id, date, ndvi, ndwi, nbr, canopy_density, health_score, temperature, rainfall, soil_moisture, created_at`

func (s *Store) InsertHealthMetric(m *models.HealthMetric) error {
	res, err := s.db.Exec(`
		INSERT INTO health_metrics (block_id, date, ndvi, ndwi, nbr, canopy_density, health_score, temperature, rainfall, soil_moisture)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.BlockID, models.DateOnly(m.Date), m.NDVI, m.NDWI, m.NBR, m.CanopyDensity, m.HealthScore, m.Temperature, m.Rainfall, m.SoilMoisture)
	if err != nil {
		return err
	}
	m.ID, err = res.LastInsertId()
	return err
}

// ListHealthMetrics returns metrics matching the filters, most recent date
// first (ascending re-ordering belongs to the aggregation layer).
func (s *Store) ListHealthMetrics(f HealthFilters) ([]models.HealthMetric, error) {
	query := `SELECT ` + healthColumns + ` FROM health_metrics WHERE 1=1`
	var args []any
	if f.BlockID != nil {
		query += ` AND block_id = ?`
		args = append(args, *f.BlockID)
	}
	if f.Start != nil {
		query += ` AND date >= ?`
		args = append(args, models.DateOnly(*f.Start))
	}
	if f.End != nil {
		query += ` AND date <= ?`
		args = append(args, models.DateOnly(*f.End))
	}
	query += ` ORDER BY date DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []models.HealthMetric
	for rows.Next() {
		var m models.HealthMetric
		if err := rows.Scan(&m.ID, &m.BlockID, &m.Date, &m.NDVI, &m.NDWI, &m.NBR, &m.CanopyDensity, &m.HealthScore, &m.Temperature, &m.Rainfall, &m.SoilMoisture, &m.CreatedAt); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// GetLatestHealthMetric returns a block's most recent metric, or nil when the
// block has none.
func (s *Store) GetLatestHealthMetric(blockID int64) (*models.HealthMetric, error) {
	row := s.db.QueryRow(`
		SELECT `+healthColumns+` FROM health_metrics
		WHERE block_id = ?
		ORDER BY date DESC, id DESC
		LIMIT 1
	`, blockID)

	var m models.HealthMetric
	err := row.Scan(&m.ID, &m.BlockID, &m.Date, &m.NDVI, &m.NDWI, &m.NBR, &m.CanopyDensity, &m.HealthScore, &m.Temperature, &m.Rainfall, &m.SoilMoisture, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
