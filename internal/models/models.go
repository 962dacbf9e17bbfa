package models

import (
	"database/sql"
	"time"
)

// DateOnly truncates t to its UTC calendar day. Every date stored or bucketed
// by the system goes through this, so two aggregations over the same input
// always land on the same calendar unit.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Estate struct {
	ID          int64
	Name        string
	Location    string  // JSON object with lat/lng
	TotalArea   float64 // hectares
	District    string
	Established int
	Description sql.NullString
	CreatedAt   time.Time
}

type Block struct {
	ID           int64
	EstateID     int64
	Name         string
	Area         float64 // hectares
	TreeCount    int64
	PlantingYear int
	CloneType    string // rubber clone variety
	SoilType     string
	Geometry     string // GeoJSON polygon, stored opaque
	HealthScore  sql.NullFloat64
	CreatedAt    time.Time
}

type Worker struct {
	ID              int64
	Name            string
	Photo           sql.NullString
	ContactNumber   sql.NullString
	AssignedBlockID sql.NullInt64
	JoinDate        time.Time
	IsActive        bool
	AverageYield    sql.NullFloat64 // rolling mean over the 30 most recent records
	CreatedAt       time.Time
}

type TappingRecord struct {
	ID               int64
	WorkerID         int64
	BlockID          int64
	Date             time.Time
	LatexYield       float64 // kg
	Quality          float64 // percentage 0-100
	WeatherCondition sql.NullString
	TappingTime      sql.NullString // HH:MM when recorded
	Notes            sql.NullString
	CreatedAt        time.Time
}

type HealthMetric struct {
	ID            int64
	BlockID       int64
	Date          time.Time
	NDVI          float64
	NDWI          sql.NullFloat64
	NBR           sql.NullFloat64
	CanopyDensity sql.NullFloat64 // percent
	HealthScore   float64         // 0-1
	Temperature   sql.NullFloat64 // celsius
	Rainfall      sql.NullFloat64 // mm
	SoilMoisture  sql.NullFloat64 // percent
	CreatedAt     time.Time
}

// AlertStatus is the tri-state classification of a yield forecast.
type AlertStatus string

const (
	StatusGreen  AlertStatus = "green"
	StatusYellow AlertStatus = "yellow"
	StatusRed    AlertStatus = "red"
)

// YieldForecast rows are append-only: each prediction request creates a new
// row and none is ever updated.
type YieldForecast struct {
	ID               int64
	BlockID          int64
	PredictedYield   float64 // kg/ha/month, 2 decimals
	Confidence       float64 // percent, capped at 95
	FactorsJSON      string  // snapshot of the exact feature vector used
	GeneratedAt      time.Time
	PredictionPeriod string // "monthly"
	Status           AlertStatus
}
