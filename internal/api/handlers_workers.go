package api

import (
	"database/sql"
	"net/http"

	"github.com/lakmal/heveatrack/internal/analytics"
	"github.com/lakmal/heveatrack/internal/models"
	"github.com/lakmal/heveatrack/internal/store"
)

type workerReq struct {
	Name            *string  `json:"name"`
	Photo           string   `json:"photo"`
	ContactNumber   string   `json:"contactNumber"`
	AssignedBlockID *int64   `json:"assignedBlockId"`
	JoinDate        string   `json:"joinDate"`
	IsActive        *bool    `json:"isActive"`
	AverageYield    *float64 `json:"averageYield"`
}

func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	workers, err := s.store.ListWorkers(activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, workersToViews(workers))
}

func (s *Server) handleCreateWorker(w http.ResponseWriter, r *http.Request) {
	var req workerReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == nil || *req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	worker := models.Worker{
		Name:     *req.Name,
		JoinDate: models.DateOnly(s.now()),
		IsActive: true,
	}
	if req.Photo != "" {
		worker.Photo = sql.NullString{String: req.Photo, Valid: true}
	}
	if req.ContactNumber != "" {
		worker.ContactNumber = sql.NullString{String: req.ContactNumber, Valid: true}
	}
	if req.AssignedBlockID != nil {
		worker.AssignedBlockID = sql.NullInt64{Int64: *req.AssignedBlockID, Valid: true}
	}
	if req.JoinDate != "" {
		joined, err := parseDate(req.JoinDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid joinDate")
			return
		}
		worker.JoinDate = models.DateOnly(joined)
	}
	if req.IsActive != nil {
		worker.IsActive = *req.IsActive
	}
	if req.AverageYield != nil {
		worker.AverageYield = sql.NullFloat64{Float64: *req.AverageYield, Valid: true}
	}

	if err := s.store.CreateWorker(&worker); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, workerToView(worker))
}

func (s *Server) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid worker id")
		return
	}

	worker, err := s.store.GetWorker(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if worker == nil {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}
	writeJSON(w, http.StatusOK, workerToView(*worker))
}

func (s *Server) handleUpdateWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid worker id")
		return
	}

	worker, err := s.store.GetWorker(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if worker == nil {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}

	var req workerReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name != nil {
		worker.Name = *req.Name
	}
	if req.Photo != "" {
		worker.Photo = sql.NullString{String: req.Photo, Valid: true}
	}
	if req.ContactNumber != "" {
		worker.ContactNumber = sql.NullString{String: req.ContactNumber, Valid: true}
	}
	if req.AssignedBlockID != nil {
		worker.AssignedBlockID = sql.NullInt64{Int64: *req.AssignedBlockID, Valid: true}
	}
	if req.JoinDate != "" {
		joined, err := parseDate(req.JoinDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid joinDate")
			return
		}
		worker.JoinDate = models.DateOnly(joined)
	}
	if req.IsActive != nil {
		worker.IsActive = *req.IsActive
	}
	if req.AverageYield != nil {
		worker.AverageYield = sql.NullFloat64{Float64: *req.AverageYield, Valid: true}
	}

	if err := s.store.UpdateWorker(worker); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, workerToView(*worker))
}

func (s *Server) handleDeleteWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid worker id")
		return
	}

	worker, err := s.store.GetWorker(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if worker == nil {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}
	if err := s.store.DeleteWorker(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "worker deleted"})
}

// handleWorkerAnalytics reports one worker's trailing-30-day performance.
func (s *Server) handleWorkerAnalytics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid worker id")
		return
	}

	worker, err := s.store.GetWorker(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if worker == nil {
		writeError(w, http.StatusNotFound, "worker not found")
		return
	}

	start := s.now().AddDate(0, 0, -30)
	records, err := s.store.ListTappingRecords(store.TappingFilters{WorkerID: &id, Start: &start})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	perf := analytics.ComputeWorkerPerformance(records)
	writeJSON(w, http.StatusOK, map[string]any{
		"worker": workerToView(*worker),
		"analytics": struct {
			TotalRecords        int                      `json:"totalRecords"`
			TotalYield          float64                  `json:"totalYield"`
			AverageYield        float64                  `json:"averageYield"`
			AverageQuality      float64                  `json:"averageQuality"`
			QualityDistribution []analytics.QualityCount `json:"qualityDistribution"`
			RecentRecords       []tappingRecordView      `json:"recentRecords"`
		}{
			TotalRecords:        perf.TotalRecords,
			TotalYield:          perf.TotalYield,
			AverageYield:        perf.AverageYield,
			AverageQuality:      perf.AverageQuality,
			QualityDistribution: perf.QualityDistribution,
			RecentRecords:       tappingRecordsToViews(perf.RecentRecords),
		},
	})
}
