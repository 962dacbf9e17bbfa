package api

import (
	"errors"
	"net/http"

	"github.com/lakmal/heveatrack/internal/forecast"
	"github.com/lakmal/heveatrack/internal/metrics"
	"github.com/lakmal/heveatrack/internal/models"
	"github.com/lakmal/heveatrack/internal/store"
)

type predictReq struct {
	BlockID *int64           `json:"blockId"`
	Factors forecast.Factors `json:"factors"`
}

// handlePredictYield runs the deterministic yield model over the supplied
// feature vector and persists the resulting forecast.
func (s *Server) handlePredictYield(w http.ResponseWriter, r *http.Request) {
	var req predictReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.BlockID == nil {
		writeError(w, http.StatusBadRequest, "blockId is required")
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

	fc, err := forecast.NewForecast(*req.BlockID, req.Factors, s.now())
	if err != nil {
		var verr *forecast.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.store.InsertYieldForecast(&fc); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.ForecastsGenerated.WithLabelValues(string(fc.Status)).Inc()

	writeJSON(w, http.StatusCreated, forecastToView(fc))
}

func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	var filters store.ForecastFilters
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.AlertStatus(raw)
		switch status {
		case models.StatusGreen, models.StatusYellow, models.StatusRed:
			filters.Status = &status
		default:
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
	}
	filters.Limit = queryInt(r, "limit", 50)
	filters.Offset = queryInt(r, "offset", 0)

	forecasts, err := s.store.ListYieldForecasts(filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.store.CountYieldForecasts(filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"predictions": forecastsToViews(forecasts),
		"total":       total,
		"limit":       filters.Limit,
		"offset":      filters.Offset,
	})
}

func (s *Server) handlePredictionsForBlock(w http.ResponseWriter, r *http.Request) {
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

	limit := queryInt(r, "limit", 10)
	forecasts, err := s.store.ListForecastsForBlock(blockID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"blockId":     blockID,
		"predictions": forecastsToViews(forecasts),
	})
}

// handlePredictionAnalytics summarizes the last month of forecasts.
func (s *Server) handlePredictionAnalytics(w http.ResponseWriter, r *http.Request) {
	since := s.now().AddDate(0, -1, 0)
	forecasts, err := s.store.ListYieldForecasts(store.ForecastFilters{Since: &since})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := forecast.Summarize(forecasts)
	writeJSON(w, http.StatusOK, map[string]any{
		"totalPredictions":   summary.TotalPredictions,
		"avgPredictedYield":  summary.AvgPredictedYield,
		"avgConfidence":      summary.AvgConfidence,
		"statusDistribution": summary.StatusDistribution,
		"recentPredictions":  forecastsToViews(summary.RecentPredictions),
	})
}

func (s *Server) handleDeletePrediction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid prediction id")
		return
	}

	fc, err := s.store.GetYieldForecast(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if fc == nil {
		writeError(w, http.StatusNotFound, "prediction not found")
		return
	}
	if err := s.store.DeleteYieldForecast(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "prediction deleted"})
}
