package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/lakmal/heveatrack/internal/models"
)

type estateReq struct {
	Name        *string         `json:"name"`
	Location    json.RawMessage `json:"location"`
	TotalArea   *float64        `json:"totalArea"`
	District    *string         `json:"district"`
	Established *int            `json:"established"`
	Description string          `json:"description"`
}

func (req estateReq) validate() string {
	switch {
	case req.Name == nil || *req.Name == "":
		return "name is required"
	case len(req.Location) == 0:
		return "location is required"
	case req.TotalArea == nil:
		return "totalArea is required"
	case req.District == nil || *req.District == "":
		return "district is required"
	case req.Established == nil:
		return "established is required"
	}
	return ""
}

func (s *Server) handleListEstates(w http.ResponseWriter, r *http.Request) {
	estates, err := s.store.ListEstates()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, estatesToViews(estates))
}

func (s *Server) handleCreateEstate(w http.ResponseWriter, r *http.Request) {
	var req estateReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	estate := models.Estate{
		Name:        *req.Name,
		Location:    string(req.Location),
		TotalArea:   *req.TotalArea,
		District:    *req.District,
		Established: *req.Established,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
	}
	if err := s.store.CreateEstate(&estate); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, estateToView(estate))
}

func (s *Server) handleGetEstate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid estate id")
		return
	}

	estate, err := s.store.GetEstate(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if estate == nil {
		writeError(w, http.StatusNotFound, "estate not found")
		return
	}
	writeJSON(w, http.StatusOK, estateToView(*estate))
}

func (s *Server) handleUpdateEstate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid estate id")
		return
	}

	estate, err := s.store.GetEstate(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if estate == nil {
		writeError(w, http.StatusNotFound, "estate not found")
		return
	}

	var req estateReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name != nil {
		estate.Name = *req.Name
	}
	if len(req.Location) > 0 {
		estate.Location = string(req.Location)
	}
	if req.TotalArea != nil {
		estate.TotalArea = *req.TotalArea
	}
	if req.District != nil {
		estate.District = *req.District
	}
	if req.Established != nil {
		estate.Established = *req.Established
	}
	if req.Description != "" {
		estate.Description = sql.NullString{String: req.Description, Valid: true}
	}

	if err := s.store.UpdateEstate(estate); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, estateToView(*estate))
}

func (s *Server) handleDeleteEstate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid estate id")
		return
	}

	estate, err := s.store.GetEstate(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if estate == nil {
		writeError(w, http.StatusNotFound, "estate not found")
		return
	}
	if err := s.store.DeleteEstate(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "estate deleted"})
}
