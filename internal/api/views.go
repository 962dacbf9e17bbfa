package api

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lakmal/heveatrack/internal/models"
)

// JSON shapes for stored entities. Nullable columns become omitted fields
// rather than leaking sql.Null* structs into responses.

type estateView struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Location    json.RawMessage `json:"location"`
	TotalArea   float64         `json:"totalArea"`
	District    string          `json:"district"`
	Established int             `json:"established"`
	Description string          `json:"description,omitempty"`
}

type blockView struct {
	ID           int64           `json:"id"`
	EstateID     int64           `json:"estateId"`
	Name         string          `json:"name"`
	Area         float64         `json:"area"`
	TreeCount    int64           `json:"treeCount"`
	PlantingYear int             `json:"plantingYear"`
	CloneType    string          `json:"cloneType"`
	SoilType     string          `json:"soilType"`
	Geometry     json.RawMessage `json:"geometry"`
	HealthScore  *float64        `json:"healthScore,omitempty"`
}

type workerView struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Photo           string   `json:"photo,omitempty"`
	ContactNumber   string   `json:"contactNumber,omitempty"`
	AssignedBlockID *int64   `json:"assignedBlockId,omitempty"`
	JoinDate        string   `json:"joinDate"`
	IsActive        bool     `json:"isActive"`
	AverageYield    *float64 `json:"averageYield,omitempty"`
}

type tappingRecordView struct {
	ID               int64   `json:"id"`
	WorkerID         int64   `json:"workerId"`
	BlockID          int64   `json:"blockId"`
	Date             string  `json:"date"`
	LatexYield       float64 `json:"latexYield"`
	Quality          float64 `json:"quality"`
	WeatherCondition string  `json:"weatherCondition,omitempty"`
	TappingTime      string  `json:"tappingTime,omitempty"`
	Notes            string  `json:"notes,omitempty"`
}

type healthMetricView struct {
	ID            int64    `json:"id"`
	BlockID       int64    `json:"blockId"`
	Date          string   `json:"date"`
	NDVI          float64  `json:"ndvi"`
	NDWI          *float64 `json:"ndwi,omitempty"`
	NBR           *float64 `json:"nbr,omitempty"`
	CanopyDensity *float64 `json:"canopyDensity,omitempty"`
	HealthScore   float64  `json:"healthScore"`
	Temperature   *float64 `json:"temperature,omitempty"`
	Rainfall      *float64 `json:"rainfall,omitempty"`
	SoilMoisture  *float64 `json:"soilMoisture,omitempty"`
}

type forecastView struct {
	ID               int64           `json:"id"`
	BlockID          int64           `json:"blockId"`
	PredictedYield   float64         `json:"predictedYield"`
	Confidence       float64         `json:"confidence"`
	Factors          json.RawMessage `json:"factors"`
	GeneratedAt      time.Time       `json:"generatedAt"`
	PredictionPeriod string          `json:"predictionPeriod"`
	Status           string          `json:"status"`
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func estateToView(e models.Estate) estateView {
	return estateView{
		ID:          e.ID,
		Name:        e.Name,
		Location:    json.RawMessage(e.Location),
		TotalArea:   e.TotalArea,
		District:    e.District,
		Established: e.Established,
		Description: e.Description.String,
	}
}

func estatesToViews(estates []models.Estate) []estateView {
	views := make([]estateView, len(estates))
	for i, e := range estates {
		views[i] = estateToView(e)
	}
	return views
}

func blockToView(b models.Block) blockView {
	return blockView{
		ID:           b.ID,
		EstateID:     b.EstateID,
		Name:         b.Name,
		Area:         b.Area,
		TreeCount:    b.TreeCount,
		PlantingYear: b.PlantingYear,
		CloneType:    b.CloneType,
		SoilType:     b.SoilType,
		Geometry:     json.RawMessage(b.Geometry),
		HealthScore:  nullFloat(b.HealthScore),
	}
}

func blocksToViews(blocks []models.Block) []blockView {
	views := make([]blockView, len(blocks))
	for i, b := range blocks {
		views[i] = blockToView(b)
	}
	return views
}

func workerToView(w models.Worker) workerView {
	return workerView{
		ID:              w.ID,
		Name:            w.Name,
		Photo:           w.Photo.String,
		ContactNumber:   w.ContactNumber.String,
		AssignedBlockID: nullInt(w.AssignedBlockID),
		JoinDate:        w.JoinDate.UTC().Format("2006-01-02"),
		IsActive:        w.IsActive,
		AverageYield:    nullFloat(w.AverageYield),
	}
}

func workersToViews(workers []models.Worker) []workerView {
	views := make([]workerView, len(workers))
	for i, w := range workers {
		views[i] = workerToView(w)
	}
	return views
}

func tappingRecordToView(r models.TappingRecord) tappingRecordView {
	return tappingRecordView{
		ID:               r.ID,
		WorkerID:         r.WorkerID,
		BlockID:          r.BlockID,
		Date:             models.DateOnly(r.Date).Format("2006-01-02"),
		LatexYield:       r.LatexYield,
		Quality:          r.Quality,
		WeatherCondition: r.WeatherCondition.String,
		TappingTime:      r.TappingTime.String,
		Notes:            r.Notes.String,
	}
}

func tappingRecordsToViews(records []models.TappingRecord) []tappingRecordView {
	views := make([]tappingRecordView, len(records))
	for i, r := range records {
		views[i] = tappingRecordToView(r)
	}
	return views
}

func healthMetricToView(m models.HealthMetric) healthMetricView {
	return healthMetricView{
		ID:            m.ID,
		BlockID:       m.BlockID,
		Date:          models.DateOnly(m.Date).Format("2006-01-02"),
		NDVI:          m.NDVI,
		NDWI:          nullFloat(m.NDWI),
		NBR:           nullFloat(m.NBR),
		CanopyDensity: nullFloat(m.CanopyDensity),
		HealthScore:   m.HealthScore,
		Temperature:   nullFloat(m.Temperature),
		Rainfall:      nullFloat(m.Rainfall),
		SoilMoisture:  nullFloat(m.SoilMoisture),
	}
}

func healthMetricsToViews(metrics []models.HealthMetric) []healthMetricView {
	views := make([]healthMetricView, len(metrics))
	for i, m := range metrics {
		views[i] = healthMetricToView(m)
	}
	return views
}

func forecastToView(f models.YieldForecast) forecastView {
	return forecastView{
		ID:               f.ID,
		BlockID:          f.BlockID,
		PredictedYield:   f.PredictedYield,
		Confidence:       f.Confidence,
		Factors:          json.RawMessage(f.FactorsJSON),
		GeneratedAt:      f.GeneratedAt.UTC(),
		PredictionPeriod: f.PredictionPeriod,
		Status:           string(f.Status),
	}
}

func forecastsToViews(forecasts []models.YieldForecast) []forecastView {
	views := make([]forecastView, len(forecasts))
	for i, f := range forecasts {
		views[i] = forecastToView(f)
	}
	return views
}
