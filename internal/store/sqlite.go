package store

import (
	"database/sql"

	"github.com/lakmal/heveatrack/internal/models"
)

// Store is the persistent record store for all plantation entities. The
// analytics core never touches the database directly; everything goes through
// these methods.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// --- Estates ---

func (s *Store) CreateEstate(e *models.Estate) error {
	res, err := s.db.Exec(`
		INSERT INTO estates (name, location, total_area, district, established, description)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Name, e.Location, e.TotalArea, e.District, e.Established, e.Description)
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetEstate(id int64) (*models.Estate, error) {
	row := s.db.QueryRow(`
		SELECT id, name, location, total_area, district, established, description, created_at
		FROM estates WHERE id = ?
	`, id)

	var e models.Estate
	err := row.Scan(&e.ID, &e.Name, &e.Location, &e.TotalArea, &e.District, &e.Established, &e.Description, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) ListEstates() ([]models.Estate, error) {
	rows, err := s.db.Query(`
		SELECT id, name, location, total_area, district, established, description, created_at
		FROM estates ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var estates []models.Estate
	for rows.Next() {
		var e models.Estate
		if err := rows.Scan(&e.ID, &e.Name, &e.Location, &e.TotalArea, &e.District, &e.Established, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		estates = append(estates, e)
	}
	return estates, rows.Err()
}

func (s *Store) UpdateEstate(e *models.Estate) error {
	_, err := s.db.Exec(`
		UPDATE estates SET name = ?, location = ?, total_area = ?, district = ?, established = ?, description = ?
		WHERE id = ?
	`, e.Name, e.Location, e.TotalArea, e.District, e.Established, e.Description, e.ID)
	return err
}

func (s *Store) DeleteEstate(id int64) error {
	_, err := s.db.Exec(`DELETE FROM estates WHERE id = ?`, id)
	return err
}

// --- Blocks ---

func (s *Store) CreateBlock(b *models.Block) error {
	if !b.HealthScore.Valid {
		b.HealthScore = sql.NullFloat64{Float64: 0.75, Valid: true}
	}
	res, err := s.db.Exec(`
		INSERT INTO blocks (estate_id, name, area, tree_count, planting_year, clone_type, soil_type, geometry, health_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.EstateID, b.Name, b.Area, b.TreeCount, b.PlantingYear, b.CloneType, b.SoilType, b.Geometry, b.HealthScore)
	if err != nil {
		return err
	}
	b.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetBlock(id int64) (*models.Block, error) {
	row := s.db.QueryRow(`
		SELECT id, estate_id, name, area, tree_count, planting_year, clone_type, soil_type, geometry, health_score, created_at
		FROM blocks WHERE id = ?
	`, id)

	var b models.Block
	err := row.Scan(&b.ID, &b.EstateID, &b.Name, &b.Area, &b.TreeCount, &b.PlantingYear, &b.CloneType, &b.SoilType, &b.Geometry, &b.HealthScore, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBlocks returns all blocks, or only one estate's when estateID is
// non-nil, ordered by name.
func (s *Store) ListBlocks(estateID *int64) ([]models.Block, error) {
	query := `
		SELECT id, estate_id, name, area, tree_count, planting_year, clone_type, soil_type, geometry, health_score, created_at
		FROM blocks`
	var args []any
	if estateID != nil {
		query += ` WHERE estate_id = ?`
		args = append(args, *estateID)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.Block
	for rows.Next() {
		var b models.Block
		if err := rows.Scan(&b.ID, &b.EstateID, &b.Name, &b.Area, &b.TreeCount, &b.PlantingYear, &b.CloneType, &b.SoilType, &b.Geometry, &b.HealthScore, &b.CreatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (s *Store) UpdateBlock(b *models.Block) error {
	_, err := s.db.Exec(`
		UPDATE blocks SET estate_id = ?, name = ?, area = ?, tree_count = ?, planting_year = ?, clone_type = ?, soil_type = ?, geometry = ?, health_score = ?
		WHERE id = ?
	`, b.EstateID, b.Name, b.Area, b.TreeCount, b.PlantingYear, b.CloneType, b.SoilType, b.Geometry, b.HealthScore, b.ID)
	return err
}

func (s *Store) UpdateBlockHealthScore(blockID int64, score float64) error {
	_, err := s.db.Exec(`UPDATE blocks SET health_score = ? WHERE id = ?`, score, blockID)
	return err
}

func (s *Store) DeleteBlock(id int64) error {
	_, err := s.db.Exec(`DELETE FROM blocks WHERE id = ?`, id)
	return err
}

// --- Workers ---

func (s *Store) CreateWorker(w *models.Worker) error {
	res, err := s.db.Exec(`
		INSERT INTO workers (name, photo, contact_number, assigned_block_id, join_date, is_active, average_yield)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, w.Name, w.Photo, w.ContactNumber, w.AssignedBlockID, w.JoinDate, w.IsActive, w.AverageYield)
	if err != nil {
		return err
	}
	w.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetWorker(id int64) (*models.Worker, error) {
	row := s.db.QueryRow(`
		SELECT id, name, photo, contact_number, assigned_block_id, join_date, is_active, average_yield, created_at
		FROM workers WHERE id = ?
	`, id)

	var w models.Worker
	err := row.Scan(&w.ID, &w.Name, &w.Photo, &w.ContactNumber, &w.AssignedBlockID, &w.JoinDate, &w.IsActive, &w.AverageYield, &w.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorkers returns workers ordered by name, optionally only active ones.
func (s *Store) ListWorkers(activeOnly bool) ([]models.Worker, error) {
	query := `
		SELECT id, name, photo, contact_number, assigned_block_id, join_date, is_active, average_yield, created_at
		FROM workers`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []models.Worker
	for rows.Next() {
		var w models.Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.Photo, &w.ContactNumber, &w.AssignedBlockID, &w.JoinDate, &w.IsActive, &w.AverageYield, &w.CreatedAt); err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (s *Store) UpdateWorker(w *models.Worker) error {
	_, err := s.db.Exec(`
		UPDATE workers SET name = ?, photo = ?, contact_number = ?, assigned_block_id = ?, join_date = ?, is_active = ?, average_yield = ?
		WHERE id = ?
	`, w.Name, w.Photo, w.ContactNumber, w.AssignedBlockID, w.JoinDate, w.IsActive, w.AverageYield, w.ID)
	return err
}

// UpdateWorkerAverageYield persists the recomputed rolling average back onto
// the worker row.
func (s *Store) UpdateWorkerAverageYield(workerID int64, avg float64) error {
	_, err := s.db.Exec(`UPDATE workers SET average_yield = ? WHERE id = ?`, avg, workerID)
	return err
}

func (s *Store) DeleteWorker(id int64) error {
	_, err := s.db.Exec(`DELETE FROM workers WHERE id = ?`, id)
	return err
}

// --- Entity counts and sums for the dashboard ---

func (s *Store) CountEstates() (int, error) {
	return s.countRow(`SELECT COUNT(*) FROM estates`)
}

func (s *Store) CountBlocks() (int, error) {
	return s.countRow(`SELECT COUNT(*) FROM blocks`)
}

func (s *Store) CountActiveWorkers() (int, error) {
	return s.countRow(`SELECT COUNT(*) FROM workers WHERE is_active = TRUE`)
}

func (s *Store) SumBlockArea() (float64, error) {
	var v sql.NullFloat64
	if err := s.db.QueryRow(`SELECT SUM(area) FROM blocks`).Scan(&v); err != nil {
		return 0, err
	}
	return v.Float64, nil
}

func (s *Store) SumBlockTrees() (int64, error) {
	var v sql.NullInt64
	if err := s.db.QueryRow(`SELECT SUM(tree_count) FROM blocks`).Scan(&v); err != nil {
		return 0, err
	}
	return v.Int64, nil
}

func (s *Store) countRow(query string) (int, error) {
	var n int
	if err := s.db.QueryRow(query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
