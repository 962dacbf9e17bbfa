package store

import (
	"fmt"
	"log"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS estates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    location TEXT NOT NULL,
    total_area REAL NOT NULL,
    district TEXT NOT NULL,
    established INTEGER NOT NULL,
    description TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS blocks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    estate_id INTEGER NOT NULL REFERENCES estates(id),
    name TEXT NOT NULL,
    area REAL NOT NULL,
    tree_count INTEGER NOT NULL DEFAULT 0,
    planting_year INTEGER NOT NULL,
    clone_type TEXT NOT NULL,
    soil_type TEXT NOT NULL,
    geometry TEXT NOT NULL,
    health_score REAL DEFAULT 0.75,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS workers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    photo TEXT,
    contact_number TEXT,
    assigned_block_id INTEGER REFERENCES blocks(id),
    join_date DATETIME NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    average_yield REAL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tapping_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    worker_id INTEGER NOT NULL REFERENCES workers(id),
    block_id INTEGER NOT NULL REFERENCES blocks(id),
    date DATE NOT NULL,
    latex_yield REAL NOT NULL,
    quality REAL NOT NULL,
    weather_condition TEXT,
    tapping_time TEXT,
    notes TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS health_metrics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    block_id INTEGER NOT NULL REFERENCES blocks(id),
    date DATE NOT NULL,
    ndvi REAL NOT NULL,
    ndwi REAL,
    nbr REAL,
    canopy_density REAL,
    health_score REAL NOT NULL,
    temperature REAL,
    rainfall REAL,
    soil_moisture REAL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS yield_forecasts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    block_id INTEGER NOT NULL REFERENCES blocks(id),
    predicted_yield REAL NOT NULL,
    confidence REAL NOT NULL,
    factors TEXT NOT NULL,
    generated_at DATETIME NOT NULL,
    prediction_period TEXT NOT NULL DEFAULT 'monthly',
    status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_blocks_estate ON blocks(estate_id);
CREATE INDEX IF NOT EXISTS idx_tapping_worker_date ON tapping_records(worker_id, date);
CREATE INDEX IF NOT EXISTS idx_tapping_block_date ON tapping_records(block_id, date);
CREATE INDEX IF NOT EXISTS idx_tapping_date ON tapping_records(date);
CREATE INDEX IF NOT EXISTS idx_health_block_date ON health_metrics(block_id, date);
CREATE INDEX IF NOT EXISTS idx_health_date ON health_metrics(date);
CREATE INDEX IF NOT EXISTS idx_forecasts_block ON yield_forecasts(block_id, generated_at);
CREATE INDEX IF NOT EXISTS idx_forecasts_generated ON yield_forecasts(generated_at);
`,
	},
	{
		Version:     2,
		Description: "Index forecasts by status for filtered listings",
		SQL: `
CREATE INDEX IF NOT EXISTS idx_forecasts_status ON yield_forecasts(status, generated_at);
`,
	},
}

func (s *Store) Migrate() error {
	if err := s.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := s.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		log.Printf("migrations: applying %d - %s", m.Version, m.Description)
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

func (s *Store) ensureMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (s *Store) getAppliedMigrations() (map[int]bool, error) {
	rows, err := s.db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
