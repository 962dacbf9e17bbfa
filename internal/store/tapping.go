package store

import (
	"database/sql"
	"time"

	"github.com/lakmal/heveatrack/internal/models"
)

// TappingFilters narrows tapping record listings. Nil fields mean no
// constraint; Limit <= 0 means no limit.
type TappingFilters struct {
	Start    *time.Time
	End      *time.Time
	WorkerID *int64
	BlockID  *int64
	Limit    int
	Offset   int
}

const tappingColumns = `id, worker_id, block_id, date, latex_yield, quality, weather_condition, tapping_time, notes, created_at`

func (s *Store) InsertTappingRecord(r *models.TappingRecord) error {
	res, err := s.db.Exec(`
		INSERT INTO tapping_records (worker_id, block_id, date, latex_yield, quality, weather_condition, tapping_time, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.WorkerID, r.BlockID, models.DateOnly(r.Date), r.LatexYield, r.Quality, r.WeatherCondition, r.TappingTime, r.Notes)
	if err != nil {
		return err
	}
	r.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetTappingRecord(id int64) (*models.TappingRecord, error) {
	row := s.db.QueryRow(`SELECT `+tappingColumns+` FROM tapping_records WHERE id = ?`, id)
	r, err := scanTappingRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListTappingRecords returns records matching the filters, most recent date
// first.
func (s *Store) ListTappingRecords(f TappingFilters) ([]models.TappingRecord, error) {
	query := `SELECT ` + tappingColumns + ` FROM tapping_records WHERE 1=1`
	var args []any
	if f.Start != nil {
		query += ` AND date >= ?`
		args = append(args, models.DateOnly(*f.Start))
	}
	if f.End != nil {
		query += ` AND date <= ?`
		args = append(args, models.DateOnly(*f.End))
	}
	if f.WorkerID != nil {
		query += ` AND worker_id = ?`
		args = append(args, *f.WorkerID)
	}
	if f.BlockID != nil {
		query += ` AND block_id = ?`
		args = append(args, *f.BlockID)
	}
	query += ` ORDER BY date DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TappingRecord
	for rows.Next() {
		r, err := scanTappingRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// CountTappingRecords counts records matching the date/worker/block filters,
// ignoring limit and offset.
func (s *Store) CountTappingRecords(f TappingFilters) (int, error) {
	query := `SELECT COUNT(*) FROM tapping_records WHERE 1=1`
	var args []any
	if f.Start != nil {
		query += ` AND date >= ?`
		args = append(args, models.DateOnly(*f.Start))
	}
	if f.End != nil {
		query += ` AND date <= ?`
		args = append(args, models.DateOnly(*f.End))
	}
	if f.WorkerID != nil {
		query += ` AND worker_id = ?`
		args = append(args, *f.WorkerID)
	}
	if f.BlockID != nil {
		query += ` AND block_id = ?`
		args = append(args, *f.BlockID)
	}

	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetRecentRecordsForWorker returns a worker's most recent records, newest
// first, capped at limit.
func (s *Store) GetRecentRecordsForWorker(workerID int64, limit int) ([]models.TappingRecord, error) {
	rows, err := s.db.Query(`
		SELECT `+tappingColumns+` FROM tapping_records
		WHERE worker_id = ?
		ORDER BY date DESC, id DESC
		LIMIT ?
	`, workerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TappingRecord
	for rows.Next() {
		r, err := scanTappingRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func (s *Store) UpdateTappingRecord(r *models.TappingRecord) error {
	_, err := s.db.Exec(`
		UPDATE tapping_records SET worker_id = ?, block_id = ?, date = ?, latex_yield = ?, quality = ?, weather_condition = ?, tapping_time = ?, notes = ?
		WHERE id = ?
	`, r.WorkerID, r.BlockID, models.DateOnly(r.Date), r.LatexYield, r.Quality, r.WeatherCondition, r.TappingTime, r.Notes, r.ID)
	return err
}

func (s *Store) DeleteTappingRecord(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tapping_records WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTappingRecord(row rowScanner) (*models.TappingRecord, error) {
	var r models.TappingRecord
	err := row.Scan(&r.ID, &r.WorkerID, &r.BlockID, &r.Date, &r.LatexYield, &r.Quality, &r.WeatherCondition, &r.TappingTime, &r.Notes, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
