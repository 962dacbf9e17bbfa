package satellite

// Quality-control flags attached to readings that arrive outside their
// documented domains. Flagged readings are still stored; flags only surface
// in logs.
const (
	FlagNDVIOutOfRange   = "ndvi_out_of_range"
	FlagHealthOutOfRange = "health_score_out_of_range"
	FlagCanopyInvalid    = "canopy_density_invalid"
	FlagTempOutOfRange   = "temperature_out_of_range"
	FlagRainfallNegative = "rainfall_negative"
	FlagMoistureInvalid  = "soil_moisture_invalid"
)

func ValidateReading(r *Reading) []string {
	var flags []string

	if r.NDVI < 0 || r.NDVI > 1 {
		flags = append(flags, FlagNDVIOutOfRange)
	}
	if r.HealthScore < 0 || r.HealthScore > 1 {
		flags = append(flags, FlagHealthOutOfRange)
	}
	if r.CanopyDensity < 0 || r.CanopyDensity > 100 {
		flags = append(flags, FlagCanopyInvalid)
	}
	if r.Temperature < -10 || r.Temperature > 55 {
		flags = append(flags, FlagTempOutOfRange)
	}
	if r.Rainfall < 0 {
		flags = append(flags, FlagRainfallNegative)
	}
	if r.SoilMoisture < 0 || r.SoilMoisture > 100 {
		flags = append(flags, FlagMoistureInvalid)
	}

	return flags
}
