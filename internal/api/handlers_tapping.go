package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/lakmal/heveatrack/internal/analytics"
	"github.com/lakmal/heveatrack/internal/ingest"
	"github.com/lakmal/heveatrack/internal/models"
	"github.com/lakmal/heveatrack/internal/store"
)

type tappingReq struct {
	WorkerID         *int64   `json:"workerId"`
	BlockID          *int64   `json:"blockId"`
	Date             *string  `json:"date"`
	LatexYield       *float64 `json:"latexYield"`
	Quality          *float64 `json:"quality"`
	WeatherCondition string   `json:"weatherCondition"`
	TappingTime      string   `json:"tappingTime"`
	Notes            string   `json:"notes"`
}

func (req tappingReq) validate() string {
	switch {
	case req.WorkerID == nil:
		return "workerId is required"
	case req.BlockID == nil:
		return "blockId is required"
	case req.Date == nil:
		return "date is required"
	case req.LatexYield == nil:
		return "latexYield is required"
	case req.Quality == nil:
		return "quality is required"
	}
	return ""
}

func tappingFiltersFromQuery(r *http.Request) (store.TappingFilters, string) {
	var f store.TappingFilters
	q := r.URL.Query()

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
	if raw := q.Get("workerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, "invalid workerId"
		}
		f.WorkerID = &id
	}
	if raw := q.Get("blockId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, "invalid blockId"
		}
		f.BlockID = &id
	}
	return f, ""
}

func (s *Server) handleListTappingRecords(w http.ResponseWriter, r *http.Request) {
	filters, msg := tappingFiltersFromQuery(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	filters.Limit = queryInt(r, "limit", 100)
	filters.Offset = queryInt(r, "offset", 0)

	records, err := s.store.ListTappingRecords(filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.store.CountTappingRecords(filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": tappingRecordsToViews(records),
		"total":   total,
		"limit":   filters.Limit,
		"offset":  filters.Offset,
	})
}

// handleCreateTappingRecord stores a new record, then recomputes and persists
// the worker's rolling average over their 30 most recent records.
func (s *Server) handleCreateTappingRecord(w http.ResponseWriter, r *http.Request) {
	var req tappingReq
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

	record := models.TappingRecord{
		WorkerID:   *req.WorkerID,
		BlockID:    *req.BlockID,
		Date:       date,
		LatexYield: *req.LatexYield,
		Quality:    *req.Quality,
	}
	if req.WeatherCondition != "" {
		record.WeatherCondition = sql.NullString{String: req.WeatherCondition, Valid: true}
	}
	if req.TappingTime != "" {
		record.TappingTime = sql.NullString{String: req.TappingTime, Valid: true}
	}
	if req.Notes != "" {
		record.Notes = sql.NullString{String: req.Notes, Valid: true}
	}

	if err := s.store.InsertTappingRecord(&record); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := ingest.UpdateWorkerRollingAverage(s.store, record.WorkerID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, tappingRecordToView(record))
}

func (s *Server) handleGetTappingRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := s.store.GetTappingRecord(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "tapping record not found")
		return
	}
	writeJSON(w, http.StatusOK, tappingRecordToView(*record))
}

func (s *Server) handleUpdateTappingRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := s.store.GetTappingRecord(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "tapping record not found")
		return
	}

	var req tappingReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.WorkerID != nil {
		record.WorkerID = *req.WorkerID
	}
	if req.BlockID != nil {
		record.BlockID = *req.BlockID
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		record.Date = date
	}
	if req.LatexYield != nil {
		record.LatexYield = *req.LatexYield
	}
	if req.Quality != nil {
		record.Quality = *req.Quality
	}
	if req.WeatherCondition != "" {
		record.WeatherCondition = sql.NullString{String: req.WeatherCondition, Valid: true}
	}
	if req.TappingTime != "" {
		record.TappingTime = sql.NullString{String: req.TappingTime, Valid: true}
	}
	if req.Notes != "" {
		record.Notes = sql.NullString{String: req.Notes, Valid: true}
	}

	if err := s.store.UpdateTappingRecord(record); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tappingRecordToView(*record))
}

func (s *Server) handleDeleteTappingRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := s.store.GetTappingRecord(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "tapping record not found")
		return
	}
	if err := s.store.DeleteTappingRecord(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "tapping record deleted"})
}

// handleYieldAnalytics serves the combined ranking/trend/distribution payload
// over an optional date/worker/block filter.
func (s *Server) handleYieldAnalytics(w http.ResponseWriter, r *http.Request) {
	filters, msg := tappingFiltersFromQuery(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	records, err := s.store.ListTappingRecords(filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	workers, err := s.store.ListWorkers(false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	names := make(map[int64]string, len(workers))
	for _, worker := range workers {
		names[worker.ID] = worker.Name
	}

	writeJSON(w, http.StatusOK, analytics.ComputeYieldAnalytics(records, names, s.now()))
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
