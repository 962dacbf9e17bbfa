// Package satellite supplies remote-sensing health readings per block. The
// production implementation calls an external analysis feed; a local
// simulator stands in when no feed is configured.
package satellite

import "time"

// Reading is one block's health analysis for one date. Shape mirrors the
// health metric record; the generation policy behind it is the feed's
// business, not ours.
type Reading struct {
	BlockID       int64     `json:"blockId"`
	Date          time.Time `json:"date"`
	NDVI          float64   `json:"ndvi"`
	NDWI          float64   `json:"ndwi"`
	NBR           float64   `json:"nbr"`
	CanopyDensity float64   `json:"canopyDensity"`
	HealthScore   float64   `json:"healthScore"`
	Temperature   float64   `json:"temperature"`
	Rainfall      float64   `json:"rainfall"`
	SoilMoisture  float64   `json:"soilMoisture"`
}

// Analyzer produces a health reading for one block.
type Analyzer interface {
	AnalyzeBlock(blockID int64) (*Reading, error)
}
