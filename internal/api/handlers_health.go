package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/lakmal/heveatrack/internal/analytics"
	"github.com/lakmal/heveatrack/internal/metrics"
	"github.com/lakmal/heveatrack/internal/models"
	"github.com/lakmal/heveatrack/internal/store"
)

type healthMetricReq struct {
	BlockID       *int64   `json:"blockId"`
	Date          *string  `json:"date"`
	NDVI          *float64 `json:"ndvi"`
	NDWI          *float64 `json:"ndwi"`
	NBR           *float64 `json:"nbr"`
	CanopyDensity *float64 `json:"canopyDensity"`
	HealthScore   *float64 `json:"healthScore"`
	Temperature   *float64 `json:"temperature"`
	Rainfall      *float64 `json:"rainfall"`
	SoilMoisture  *float64 `json:"soilMoisture"`
}

func (req healthMetricReq) validate() string {
	switch {
	case req.BlockID == nil:
		return "blockId is required"
	case req.Date == nil:
		return "date is required"
	case req.NDVI == nil:
		return "ndvi is required"
	case req.HealthScore == nil:
		return "healthScore is required"
	}
	return ""
}

func healthFiltersFromQuery(r *http.Request) (store.HealthFilters, string) {
	var f store.HealthFilters
	q := r.URL.Query()

	if raw := q.Get("blockId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, "invalid blockId"
		}
		f.BlockID = &id
	}
	if raw := q.Get("startDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return f, "invalid startDate"
		}
		f.Start = &t
	}
	if raw := q.Get("endDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return f, "invalid endDate"
		}
		f.End = &t
	}
	return f, ""
}

func (s *Server) handleListHealthMetrics(w http.ResponseWriter, r *http.Request) {
	filters, msg := healthFiltersFromQuery(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	filters.Limit = queryInt(r, "limit", 0)

	metricRows, err := s.store.ListHealthMetrics(filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, healthMetricsToViews(metricRows))
}

// handleCreateHealthMetric stores a manually entered observation and refreshes
// the owning block's health score, same as the satellite ingest path.
func (s *Server) handleCreateHealthMetric(w http.ResponseWriter, r *http.Request) {
	var req healthMetricReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	date, err := parseDate(*req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	block, err := s.store.GetBlock(*req.BlockID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if block == nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}

	metric := models.HealthMetric{
		BlockID:     *req.BlockID,
		Date:        date,
		NDVI:        *req.NDVI,
		HealthScore: *req.HealthScore,
	}
	if req.NDWI != nil {
		metric.NDWI = sql.NullFloat64{Float64: *req.NDWI, Valid: true}
	}
	if req.NBR != nil {
		metric.NBR = sql.NullFloat64{Float64: *req.NBR, Valid: true}
	}
	if req.CanopyDensity != nil {
		metric.CanopyDensity = sql.NullFloat64{Float64: *req.CanopyDensity, Valid: true}
	}
	if req.Temperature != nil {
		metric.Temperature = sql.NullFloat64{Float64: *req.Temperature, Valid: true}
	}
	if req.Rainfall != nil {
		metric.Rainfall = sql.NullFloat64{Float64: *req.Rainfall, Valid: true}
	}
	if req.SoilMoisture != nil {
		metric.SoilMoisture = sql.NullFloat64{Float64: *req.SoilMoisture, Valid: true}
	}

	if err := s.store.InsertHealthMetric(&metric); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.UpdateBlockHealthScore(metric.BlockID, metric.HealthScore); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.AnalysesStored.WithLabelValues("manual").Inc()

	writeJSON(w, http.StatusCreated, healthMetricToView(metric))
}

// handleHealthTrends serves a block's monthly health averages over a named
// lookback period (1month, 3months, 6months, 1year).
func (s *Server) handleHealthTrends(w http.ResponseWriter, r *http.Request) {
	blockID, err := pathID(r, "blockId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block id")
		return
	}

	block, err := s.store.GetBlock(blockID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if block == nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = analytics.DefaultPeriod
	}
	start := analytics.PeriodStart(period, s.now())

	metricRows, err := s.store.ListHealthMetrics(store.HealthFilters{BlockID: &blockID, Start: &start})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	trend := analytics.MonthlyTrend(metricRows)
	writeJSON(w, http.StatusOK, map[string]any{
		"blockId": blockID,
		"period":  period,
		"trends":  trend,
		"metrics": healthMetricsToViews(metricRows),
	})
}

// handleHealthSummary serves the fleet-wide snapshot built from the last
// week of observations.
func (s *Server) handleHealthSummary(w http.ResponseWriter, r *http.Request) {
	start := s.now().AddDate(0, 0, -analytics.SummaryWindowDays)

	metricRows, err := s.store.ListHealthMetrics(store.HealthFilters{Start: &start})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := analytics.ComputeHealthSummary(metricRows)
	writeJSON(w, http.StatusOK, map[string]any{
		"totalBlocks":    summary.TotalBlocks,
		"avgHealthScore": summary.AvgHealthScore,
		"healthyBlocks":  summary.HealthyBlocks,
		"warningBlocks":  summary.WarningBlocks,
		"criticalBlocks": summary.CriticalBlocks,
		"latestMetrics":  healthMetricsToViews(summary.LatestMetrics),
	})
}
