package store

import (
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/lakmal/heveatrack/internal/models"
)

var seedEstates = []models.Estate{
	{Name: "Malwatta Estate", Location: `{"lat":7.4863,"lng":80.3647}`, TotalArea: 125.5, District: "Kurunegala", Established: 1985, Description: sql.NullString{String: "Premium rubber estate in Kurunegala district", Valid: true}},
	{Name: "Horana Estate", Location: `{"lat":6.7153,"lng":80.0622}`, TotalArea: 98.3, District: "Kalutara", Established: 1978, Description: sql.NullString{String: "Well-established estate in the Western Province", Valid: true}},
	{Name: "Deniyaya Estate", Location: `{"lat":6.35,"lng":80.55}`, TotalArea: 156.7, District: "Matara", Established: 1982, Description: sql.NullString{String: "High-altitude estate with excellent growing conditions", Valid: true}},
	{Name: "Agalawatta Estate", Location: `{"lat":6.45,"lng":80.2}`, TotalArea: 87.2, District: "Ratnapura", Established: 1990, Description: sql.NullString{String: "Modern estate with advanced cultivation techniques", Valid: true}},
}

var seedWorkerNames = []string{
	"Suresh Jayasinghe", "Nimal Perera", "Thilini Rajapaksha", "Kasun Abeywickrama",
	"Priyanka Fernando", "Dilshan Silva", "Anoma Wijesinghe", "Chaminda Rathnayake",
	"Kumari Perera", "Sarath Bandara", "Nishadi Karunaratne", "Upul Mendis",
	"Sanduni Jayawardena", "Ranjith Premasiri", "Chandrika Seneviratne", "Ajith Kumara",
}

var seedCloneTypes = []string{"RRIM 600", "RRIM 712", "RRIM 2001", "RRIM 3001", "PB 86", "GT 1"}

var seedSoilTypes = []string{"Red Yellow Podzolic", "Reddish Brown Earth", "Red Latasolic", "Alluvial"}

// Seed populates an empty database with demo estates, blocks, workers, six
// months of tapping records, and twelve weeks of health metrics. It is a
// no-op when estates already exist. The random source is injected so seeded
// databases are reproducible.
func (s *Store) Seed(rng *rand.Rand, now time.Time) error {
	count, err := s.CountEstates()
	if err != nil {
		return fmt.Errorf("count estates: %w", err)
	}
	if count > 0 {
		log.Println("seed: database already populated, skipping")
		return nil
	}

	var blocks []models.Block
	for _, e := range seedEstates {
		estate := e
		if err := s.CreateEstate(&estate); err != nil {
			return fmt.Errorf("seed estate %s: %w", estate.Name, err)
		}

		blockCount := 3 + rng.Intn(6)
		for i := 0; i < blockCount; i++ {
			b := models.Block{
				EstateID:     estate.ID,
				Name:         fmt.Sprintf("%s Block %c", estate.Name, 'A'+i),
				Area:         8 + rng.Float64()*17,
				TreeCount:    int64(200 + rng.Intn(601)),
				PlantingYear: 1985 + rng.Intn(31),
				CloneType:    seedCloneTypes[rng.Intn(len(seedCloneTypes))],
				SoilType:     seedSoilTypes[rng.Intn(len(seedSoilTypes))],
				Geometry:     `{"type":"Polygon","coordinates":[]}`,
				HealthScore:  sql.NullFloat64{Float64: 0.6 + rng.Float64()*0.35, Valid: true},
			}
			if err := s.CreateBlock(&b); err != nil {
				return fmt.Errorf("seed block %s: %w", b.Name, err)
			}
			blocks = append(blocks, b)
		}
	}

	var workers []models.Worker
	for _, name := range seedWorkerNames {
		assigned := blocks[rng.Intn(len(blocks))]
		w := models.Worker{
			Name:            name,
			ContactNumber:   sql.NullString{String: fmt.Sprintf("+94%d%06d", 70+rng.Intn(8), rng.Intn(1000000)), Valid: true},
			AssignedBlockID: sql.NullInt64{Int64: assigned.ID, Valid: true},
			JoinDate:        time.Date(2015+rng.Intn(9), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), 0, 0, 0, 0, time.UTC),
			IsActive:        rng.Float64() > 0.1,
			AverageYield:    sql.NullFloat64{Float64: 18 + rng.Float64()*10, Valid: true},
		}
		if err := s.CreateWorker(&w); err != nil {
			return fmt.Errorf("seed worker %s: %w", w.Name, err)
		}
		workers = append(workers, w)
	}

	weather := []string{"Sunny", "Cloudy", "Rainy", "Overcast"}
	start := models.DateOnly(now).AddDate(0, -6, 0)
	records := 0
	for i := 0; i < 180; i++ {
		date := start.AddDate(0, 0, i)
		if date.After(now) {
			break
		}
		// Five-day tapping week.
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		worker := workers[rng.Intn(len(workers))]
		blockID := worker.AssignedBlockID.Int64
		if !worker.AssignedBlockID.Valid {
			blockID = blocks[rng.Intn(len(blocks))].ID
		}

		r := models.TappingRecord{
			WorkerID:         worker.ID,
			BlockID:          blockID,
			Date:             date,
			LatexYield:       15 + rng.Float64()*20,
			Quality:          75 + rng.Float64()*20,
			WeatherCondition: sql.NullString{String: weather[rng.Intn(len(weather))], Valid: true},
			TappingTime:      sql.NullString{String: fmt.Sprintf("%02d:%02d", 5+rng.Intn(4), rng.Intn(60)), Valid: true},
		}
		if err := s.InsertTappingRecord(&r); err != nil {
			return fmt.Errorf("seed tapping record: %w", err)
		}
		records++
	}

	metrics := 0
	for _, b := range blocks {
		for week := 0; week < 12; week++ {
			m := models.HealthMetric{
				BlockID:       b.ID,
				Date:          models.DateOnly(now).AddDate(0, 0, -7*week),
				NDVI:          0.35 + rng.Float64()*0.5,
				NDWI:          sql.NullFloat64{Float64: 0.1 + rng.Float64()*0.3, Valid: true},
				NBR:           sql.NullFloat64{Float64: 0.2 + rng.Float64()*0.5, Valid: true},
				CanopyDensity: sql.NullFloat64{Float64: 60 + rng.Float64()*35, Valid: true},
				HealthScore:   0.6 + rng.Float64()*0.35,
				Temperature:   sql.NullFloat64{Float64: 22 + rng.Float64()*10, Valid: true},
				Rainfall:      sql.NullFloat64{Float64: 50 + rng.Float64()*250, Valid: true},
				SoilMoisture:  sql.NullFloat64{Float64: 40 + rng.Float64()*40, Valid: true},
			}
			if err := s.InsertHealthMetric(&m); err != nil {
				return fmt.Errorf("seed health metric: %w", err)
			}
			metrics++
		}
	}

	log.Printf("seed: %d estates, %d blocks, %d workers, %d tapping records, %d health metrics",
		len(seedEstates), len(blocks), len(workers), records, metrics)
	return nil
}
