package api_test

import (
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/lakmal/heveatrack/internal/api"
	"github.com/lakmal/heveatrack/internal/models"
	"github.com/lakmal/heveatrack/internal/satellite"
	"github.com/lakmal/heveatrack/internal/store"

	_ "modernc.org/sqlite"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	s := store.New(db)
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}
	return s
}

// fixedAnalyzer returns the same reading for every block.
type fixedAnalyzer struct {
	reading satellite.Reading
}

func (f *fixedAnalyzer) AnalyzeBlock(blockID int64) (*satellite.Reading, error) {
	r := f.reading
	r.BlockID = blockID
	return &r, nil
}

func setupServer(t *testing.T) (*store.Store, *api.Server) {
	t.Helper()
	s := setupTestStore(t)
	analyzer := &fixedAnalyzer{reading: satellite.Reading{
		Date:          time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		NDVI:          0.72,
		NDWI:          0.25,
		NBR:           0.4,
		CanopyDensity: 80,
		HealthScore:   0.85,
		Temperature:   27,
		Rainfall:      220,
		SoilMoisture:  60,
	}}
	return s, api.NewServer(s, analyzer, "8080")
}

func seedBlock(t *testing.T, s *store.Store) models.Block {
	t.Helper()
	estate := models.Estate{Name: "Galaha Estate", Location: "{}", TotalArea: 120, District: "Kandy", Established: 1952}
	if err := s.CreateEstate(&estate); err != nil {
		t.Fatal(err)
	}
	block := models.Block{EstateID: estate.ID, Name: "Block A1", Area: 12.5, TreeCount: 500, PlantingYear: 2010, CloneType: "RRIC 121", SoilType: "Red Yellow Podzolic"}
	if err := s.CreateBlock(&block); err != nil {
		t.Fatal(err)
	}
	return block
}

func doJSON(t *testing.T, srv *api.Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("%s %s: invalid JSON response: %v\n%s", method, path, err, w.Body.String())
		}
	}
	return w, decoded
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	_, srv := setupServer(t)

	w, body := doJSON(t, srv, "GET", "/health", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["status"] != "OK" {
		t.Errorf("status = %v, want OK", body["status"])
	}
}

func TestEstateCreateAndGet(t *testing.T) {
	t.Parallel()
	_, srv := setupServer(t)

	w, created := doJSON(t, srv, "POST", "/api/estates",
		`{"name":"Galaha Estate","location":{"lat":7.1,"lng":80.6},"totalArea":120,"district":"Kandy","established":1952}`)
	if w.Code != 201 {
		t.Fatalf("expected 201, got %d: %v", w.Code, created)
	}
	if created["name"] != "Galaha Estate" {
		t.Errorf("name = %v", created["name"])
	}

	id := int(created["id"].(float64))
	w, got := doJSON(t, srv, "GET", "/api/estates/"+itoa(id), "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got["district"] != "Kandy" {
		t.Errorf("district = %v", got["district"])
	}

	w, _ = doJSON(t, srv, "GET", "/api/estates/9999", "")
	if w.Code != 404 {
		t.Errorf("missing estate: expected 404, got %d", w.Code)
	}
}

func TestEstateCreate_MissingField(t *testing.T) {
	t.Parallel()
	_, srv := setupServer(t)

	w, body := doJSON(t, srv, "POST", "/api/estates", `{"name":"No District"}`)
	if w.Code != 400 {
		t.Fatalf("expected 400, got %d: %v", w.Code, body)
	}
	if body["error"] == nil {
		t.Error("expected error field in response")
	}
}

func TestPredictYield(t *testing.T) {
	t.Parallel()
	s, srv := setupServer(t)
	block := seedBlock(t, s)

	w, body := doJSON(t, srv, "POST", "/api/predictions/predict-yield",
		`{"blockId":`+itoa(int(block.ID))+`,"factors":{"ndvi":0.75,"rainfall":250,"temperature":28,"soilMoisture":65,"treeAge":15}}`)
	if w.Code != 201 {
		t.Fatalf("expected 201, got %d: %v", w.Code, body)
	}
	if body["predictedYield"] != 745.0 {
		t.Errorf("predictedYield = %v, want 745", body["predictedYield"])
	}
	if body["confidence"] != 95.0 {
		t.Errorf("confidence = %v, want 95", body["confidence"])
	}
	if body["status"] != "yellow" {
		t.Errorf("status = %v, want yellow", body["status"])
	}

	// The forecast must be persisted and listable.
	w, list := doJSON(t, srv, "GET", "/api/predictions", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if list["total"] != 1.0 {
		t.Errorf("total = %v, want 1", list["total"])
	}
}

func TestPredictYield_MissingFactor(t *testing.T) {
	t.Parallel()
	s, srv := setupServer(t)
	block := seedBlock(t, s)

	w, body := doJSON(t, srv, "POST", "/api/predictions/predict-yield",
		`{"blockId":`+itoa(int(block.ID))+`,"factors":{"ndvi":0.75,"rainfall":250,"temperature":28,"soilMoisture":65}}`)
	if w.Code != 400 {
		t.Fatalf("expected 400, got %d: %v", w.Code, body)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "treeAge") {
		t.Errorf("error %q does not name the missing factor", msg)
	}
}

func TestPredictYield_UnknownBlock(t *testing.T) {
	t.Parallel()
	_, srv := setupServer(t)

	w, _ := doJSON(t, srv, "POST", "/api/predictions/predict-yield",
		`{"blockId":999,"factors":{"ndvi":0.75,"rainfall":250,"temperature":28,"soilMoisture":65,"treeAge":15}}`)
	if w.Code != 404 {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCreateTappingRecord_UpdatesRollingAverage(t *testing.T) {
	t.Parallel()
	s, srv := setupServer(t)
	block := seedBlock(t, s)
	worker := models.Worker{Name: "Kumara Perera", JoinDate: time.Now(), IsActive: true}
	if err := s.CreateWorker(&worker); err != nil {
		t.Fatal(err)
	}

	for _, yield := range []string{"20", "30"} {
		w, body := doJSON(t, srv, "POST", "/api/tapping",
			`{"workerId":`+itoa(int(worker.ID))+`,"blockId":`+itoa(int(block.ID))+`,"date":"2024-06-15","latexYield":`+yield+`,"quality":85}`)
		if w.Code != 201 {
			t.Fatalf("expected 201, got %d: %v", w.Code, body)
		}
	}

	got, err := s.GetWorker(worker.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.AverageYield.Valid || got.AverageYield.Float64 != 25 {
		t.Errorf("AverageYield = %+v, want 25", got.AverageYield)
	}
}

func TestYieldAnalytics_Empty(t *testing.T) {
	t.Parallel()
	_, srv := setupServer(t)

	w, body := doJSON(t, srv, "GET", "/api/tapping/analytics/summary", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	dist, ok := body["qualityDistribution"].([]any)
	if !ok || len(dist) != 4 {
		t.Errorf("qualityDistribution = %v, want 4 dense bands", body["qualityDistribution"])
	}
}

func TestAnalyzeBlockHealth(t *testing.T) {
	t.Parallel()
	s, srv := setupServer(t)
	block := seedBlock(t, s)

	w, body := doJSON(t, srv, "POST", "/api/blocks/"+itoa(int(block.ID))+"/analyze-health", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %v", w.Code, body)
	}
	if body["status"] != "excellent" {
		t.Errorf("status = %v, want excellent for score 0.85", body["status"])
	}

	// The block's cached health score must reflect the new reading.
	got, err := s.GetBlock(block.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.HealthScore.Float64 != 0.85 {
		t.Errorf("block health score = %v, want 0.85", got.HealthScore.Float64)
	}

	w, _ = doJSON(t, srv, "POST", "/api/blocks/9999/analyze-health", "")
	if w.Code != 404 {
		t.Errorf("missing block: expected 404, got %d", w.Code)
	}
}

func TestDashboardStats_EmptyDatabase(t *testing.T) {
	t.Parallel()
	_, srv := setupServer(t)

	w, body := doJSON(t, srv, "GET", "/api/dashboard/stats", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["healthIndex"] != 75.0 {
		t.Errorf("healthIndex = %v, want the 75 fallback", body["healthIndex"])
	}
	if body["averageYield"] != 0.0 {
		t.Errorf("averageYield = %v, want 0", body["averageYield"])
	}
}

func TestHealthSummary_Empty(t *testing.T) {
	t.Parallel()
	_, srv := setupServer(t)

	w, body := doJSON(t, srv, "GET", "/api/metrics/health/summary", "")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["totalBlocks"] != 0.0 {
		t.Errorf("totalBlocks = %v, want 0", body["totalBlocks"])
	}
	if _, ok := body["latestMetrics"].([]any); !ok {
		t.Errorf("latestMetrics = %v, want an empty array not null", body["latestMetrics"])
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
