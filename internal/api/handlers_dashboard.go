package api

import (
	"net/http"

	"github.com/lakmal/heveatrack/internal/analytics"
	"github.com/lakmal/heveatrack/internal/store"
)

// handleDashboardStats serves the headline overview numbers: entity counts,
// the last-30-day average yield, and the last-7-day health index.
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	var counts analytics.EntityCounts
	var err error

	if counts.Estates, err = s.store.CountEstates(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if counts.Blocks, err = s.store.CountBlocks(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if counts.ActiveWorkers, err = s.store.CountActiveWorkers(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if counts.TotalArea, err = s.store.SumBlockArea(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if counts.TotalTrees, err = s.store.SumBlockTrees(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := s.now()
	recordStart := now.AddDate(0, 0, -30)
	records, err := s.store.ListTappingRecords(store.TappingFilters{Start: &recordStart})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metricStart := now.AddDate(0, 0, -analytics.SummaryWindowDays)
	metricRows, err := s.store.ListHealthMetrics(store.HealthFilters{Start: &metricStart})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analytics.ComposeDashboardStats(counts, records, metricRows))
}

// handleDashboardTrends serves the six-month chart series for yield,
// rainfall, and health.
func (s *Server) handleDashboardTrends(w http.ResponseWriter, r *http.Request) {
	start := s.now().AddDate(0, -6, 0)

	records, err := s.store.ListTappingRecords(store.TappingFilters{Start: &start})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metricRows, err := s.store.ListHealthMetrics(store.HealthFilters{Start: &start})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, analytics.ComposeDashboardTrends(records, metricRows))
}
