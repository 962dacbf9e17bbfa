package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/lakmal/heveatrack/internal/ingest"
	"github.com/lakmal/heveatrack/internal/models"
)

type blockReq struct {
	EstateID     *int64          `json:"estateId"`
	Name         *string         `json:"name"`
	Area         *float64        `json:"area"`
	TreeCount    *int64          `json:"treeCount"`
	PlantingYear *int            `json:"plantingYear"`
	CloneType    *string         `json:"cloneType"`
	SoilType     *string         `json:"soilType"`
	Geometry     json.RawMessage `json:"geometry"`
	HealthScore  *float64        `json:"healthScore"`
}

func (req blockReq) validate() string {
	switch {
	case req.EstateID == nil:
		return "estateId is required"
	case req.Name == nil || *req.Name == "":
		return "name is required"
	case req.Area == nil:
		return "area is required"
	case req.PlantingYear == nil:
		return "plantingYear is required"
	case req.CloneType == nil || *req.CloneType == "":
		return "cloneType is required"
	case req.SoilType == nil || *req.SoilType == "":
		return "soilType is required"
	case len(req.Geometry) == 0:
		return "geometry is required"
	}
	return ""
}

func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	var estateID *int64
	if raw := r.URL.Query().Get("estateId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid estateId")
			return
		}
		estateID = &id
	}

	blocks, err := s.store.ListBlocks(estateID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, blocksToViews(blocks))
}

func (s *Server) handleCreateBlock(w http.ResponseWriter, r *http.Request) {
	var req blockReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	block := models.Block{
		EstateID:     *req.EstateID,
		Name:         *req.Name,
		Area:         *req.Area,
		PlantingYear: *req.PlantingYear,
		CloneType:    *req.CloneType,
		SoilType:     *req.SoilType,
		Geometry:     string(req.Geometry),
	}
	if req.TreeCount != nil {
		block.TreeCount = *req.TreeCount
	}
	if req.HealthScore != nil {
		block.HealthScore = sql.NullFloat64{Float64: *req.HealthScore, Valid: true}
	}

	if err := s.store.CreateBlock(&block); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, blockToView(block))
}

func (s *Server) handleGetBlock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block id")
		return
	}

	block, err := s.store.GetBlock(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if block == nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}

	latest, err := s.store.GetLatestHealthMetric(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := struct {
		blockView
		RecentHealth *healthMetricView `json:"recentHealth,omitempty"`
	}{blockView: blockToView(*block)}
	if latest != nil {
		v := healthMetricToView(*latest)
		resp.RecentHealth = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateBlock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block id")
		return
	}

	block, err := s.store.GetBlock(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if block == nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}

	var req blockReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.EstateID != nil {
		block.EstateID = *req.EstateID
	}
	if req.Name != nil {
		block.Name = *req.Name
	}
	if req.Area != nil {
		block.Area = *req.Area
	}
	if req.TreeCount != nil {
		block.TreeCount = *req.TreeCount
	}
	if req.PlantingYear != nil {
		block.PlantingYear = *req.PlantingYear
	}
	if req.CloneType != nil {
		block.CloneType = *req.CloneType
	}
	if req.SoilType != nil {
		block.SoilType = *req.SoilType
	}
	if len(req.Geometry) > 0 {
		block.Geometry = string(req.Geometry)
	}
	if req.HealthScore != nil {
		block.HealthScore = sql.NullFloat64{Float64: *req.HealthScore, Valid: true}
	}

	if err := s.store.UpdateBlock(block); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, blockToView(*block))
}

func (s *Server) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block id")
		return
	}

	block, err := s.store.GetBlock(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if block == nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}
	if err := s.store.DeleteBlock(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "block deleted"})
}

// handleAnalyzeBlockHealth runs the satellite analyzer on demand for one
// block and stores the result.
func (s *Server) handleAnalyzeBlockHealth(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block id")
		return
	}

	block, err := s.store.GetBlock(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if block == nil {
		writeError(w, http.StatusNotFound, "block not found")
		return
	}

	metric, err := ingest.AnalyzeBlock(s.store, s.analyzer, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := "needs_attention"
	if metric.HealthScore > 0.8 {
		status = "excellent"
	} else if metric.HealthScore > 0.6 {
		status = "good"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "health analysis completed",
		"results": healthMetricToView(*metric),
		"status":  status,
	})
}
