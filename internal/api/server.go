package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lakmal/heveatrack/internal/metrics"
	"github.com/lakmal/heveatrack/internal/satellite"
	"github.com/lakmal/heveatrack/internal/store"
)

type Server struct {
	store    *store.Store
	analyzer satellite.Analyzer
	port     string
	now      func() time.Time // injectable clock for windowed analytics
}

func NewServer(st *store.Store, analyzer satellite.Analyzer, port string) *Server {
	return &Server{
		store:    st,
		analyzer: analyzer,
		port:     port,
		now:      time.Now,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/estates", s.handleListEstates)
	mux.HandleFunc("POST /api/estates", s.handleCreateEstate)
	mux.HandleFunc("GET /api/estates/{id}", s.handleGetEstate)
	mux.HandleFunc("PUT /api/estates/{id}", s.handleUpdateEstate)
	mux.HandleFunc("DELETE /api/estates/{id}", s.handleDeleteEstate)

	mux.HandleFunc("GET /api/blocks", s.handleListBlocks)
	mux.HandleFunc("POST /api/blocks", s.handleCreateBlock)
	mux.HandleFunc("GET /api/blocks/{id}", s.handleGetBlock)
	mux.HandleFunc("PUT /api/blocks/{id}", s.handleUpdateBlock)
	mux.HandleFunc("DELETE /api/blocks/{id}", s.handleDeleteBlock)
	mux.HandleFunc("POST /api/blocks/{id}/analyze-health", s.handleAnalyzeBlockHealth)

	mux.HandleFunc("GET /api/workers", s.handleListWorkers)
	mux.HandleFunc("POST /api/workers", s.handleCreateWorker)
	mux.HandleFunc("GET /api/workers/{id}", s.handleGetWorker)
	mux.HandleFunc("PUT /api/workers/{id}", s.handleUpdateWorker)
	mux.HandleFunc("DELETE /api/workers/{id}", s.handleDeleteWorker)
	mux.HandleFunc("GET /api/workers/{id}/analytics", s.handleWorkerAnalytics)

	mux.HandleFunc("GET /api/tapping", s.handleListTappingRecords)
	mux.HandleFunc("POST /api/tapping", s.handleCreateTappingRecord)
	mux.HandleFunc("GET /api/tapping/analytics/summary", s.handleYieldAnalytics)
	mux.HandleFunc("GET /api/tapping/{id}", s.handleGetTappingRecord)
	mux.HandleFunc("PUT /api/tapping/{id}", s.handleUpdateTappingRecord)
	mux.HandleFunc("DELETE /api/tapping/{id}", s.handleDeleteTappingRecord)

	mux.HandleFunc("GET /api/metrics/health", s.handleListHealthMetrics)
	mux.HandleFunc("POST /api/metrics/health", s.handleCreateHealthMetric)
	mux.HandleFunc("GET /api/metrics/health/summary", s.handleHealthSummary)
	mux.HandleFunc("GET /api/metrics/health/{blockId}/trends", s.handleHealthTrends)

	mux.HandleFunc("POST /api/predictions/predict-yield", s.handlePredictYield)
	mux.HandleFunc("GET /api/predictions", s.handleListPredictions)
	mux.HandleFunc("GET /api/predictions/block/{blockId}", s.handlePredictionsForBlock)
	mux.HandleFunc("GET /api/predictions/analytics/summary", s.handlePredictionAnalytics)
	mux.HandleFunc("DELETE /api/predictions/{id}", s.handleDeletePrediction)

	mux.HandleFunc("GET /api/dashboard/stats", s.handleDashboardStats)
	mux.HandleFunc("GET /api/dashboard/trends", s.handleDashboardTrends)

	return withRequestMetrics(mux)
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "HeveaTrack plantation API is running",
	})
}

// withRequestMetrics counts served requests by route pattern so the label
// cardinality stays bounded.
func withRequestMetrics(next *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		_, pattern := next.Handler(r)
		if pattern == "" {
			pattern = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(pattern, r.Method, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields
// so malformed payloads fail loudly at the boundary.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// parseDate accepts calendar dates and full timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
