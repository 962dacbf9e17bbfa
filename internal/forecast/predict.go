package forecast

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/lakmal/heveatrack/internal/models"
)

// Thresholds partitioning the predicted-yield line into alert bands.
const (
	RedBelow    = 600.0
	YellowBelow = 800.0
)

const (
	baseConfidence = 85.0
	maxConfidence  = 95.0
)

// DefaultPeriod labels the horizon every prediction currently covers.
const DefaultPeriod = "monthly"

// Factors is the feature vector for one block. All fields are required;
// pointers distinguish absent from zero at the decode boundary.
type Factors struct {
	NDVI         *float64 `json:"ndvi"`
	Rainfall     *float64 `json:"rainfall"`
	Temperature  *float64 `json:"temperature"`
	SoilMoisture *float64 `json:"soilMoisture"`
	TreeAge      *float64 `json:"treeAge"`
}

// ValidationError reports feature-vector fields that are missing or not
// finite numbers. No prediction is computed when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid factors: %s", strings.Join(e.Fields, ", "))
}

func (f Factors) validate() error {
	var bad []string
	check := func(name string, v *float64) {
		if v == nil {
			bad = append(bad, name+" missing")
		} else if math.IsNaN(*v) || math.IsInf(*v, 0) {
			bad = append(bad, name+" not a number")
		}
	}
	check("ndvi", f.NDVI)
	check("rainfall", f.Rainfall)
	check("temperature", f.Temperature)
	check("soilMoisture", f.SoilMoisture)
	check("treeAge", f.TreeAge)
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

// Prediction is the pure output of the yield formula.
type Prediction struct {
	PredictedYield float64            `json:"predictedYield"`
	Confidence     float64            `json:"confidence"`
	Status         models.AlertStatus `json:"status"`
}

// Predict computes the deterministic yield estimate for one feature vector.
//
// Yield is ndvi*800 + rainfall*0.5 - temperature*5 + soilMoisture*2 +
// treeAge*2, rounded to two decimals. Confidence starts at 85 and earns +5
// for each input sitting in its favourable range, capped at 95. The alert
// status partitions the yield line at 600 and 800.
func Predict(f Factors) (Prediction, error) {
	if err := f.validate(); err != nil {
		return Prediction{}, err
	}

	ndvi, rain, temp := *f.NDVI, *f.Rainfall, *f.Temperature
	moisture, age := *f.SoilMoisture, *f.TreeAge

	yield := ndvi*800 + rain*0.5 - temp*5 + moisture*2 + age*2
	yield = math.Round(yield*100) / 100

	confidence := baseConfidence
	if ndvi > 0.7 {
		confidence += 5
	}
	if rain > 200 && rain < 400 {
		confidence += 5
	}
	if temp > 24 && temp < 30 {
		confidence += 5
	}
	if moisture > 50 && moisture < 80 {
		confidence += 5
	}
	confidence = math.Min(confidence, maxConfidence)

	return Prediction{
		PredictedYield: yield,
		Confidence:     confidence,
		Status:         StatusFor(yield),
	}, nil
}

// StatusFor classifies a predicted yield. The three bands cover the whole
// line with no gaps or overlaps.
func StatusFor(yield float64) models.AlertStatus {
	switch {
	case yield < RedBelow:
		return models.StatusRed
	case yield < YellowBelow:
		return models.StatusYellow
	default:
		return models.StatusGreen
	}
}

// NewForecast validates and predicts, then packages the immutable forecast
// record for the caller to persist. The factor snapshot is embedded exactly
// as supplied.
func NewForecast(blockID int64, f Factors, now time.Time) (models.YieldForecast, error) {
	pred, err := Predict(f)
	if err != nil {
		return models.YieldForecast{}, err
	}

	snapshot, err := json.Marshal(f)
	if err != nil {
		return models.YieldForecast{}, fmt.Errorf("marshal factors: %w", err)
	}

	return models.YieldForecast{
		BlockID:          blockID,
		PredictedYield:   pred.PredictedYield,
		Confidence:       pred.Confidence,
		FactorsJSON:      string(snapshot),
		GeneratedAt:      now,
		PredictionPeriod: DefaultPeriod,
		Status:           pred.Status,
	}, nil
}
