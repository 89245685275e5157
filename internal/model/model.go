// Package model holds the two records the tools exchange with the
// surf forecast database.
package model

// Table names in the hosted database.
const (
	BreaksTable    = "surf_breaks"
	ForecastsTable = "forecast_data"
)

// ForecastConflictKey is the composite uniqueness constraint forecasts are upserted on.
var ForecastConflictKey = []string{"break_id", "forecast_date", "forecast_time"}

// Break is a named surf location. ID is the row's UUID in text form.
type Break struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Region string `json:"region" db:"region"`
}

// Forecast is one time slot of swell/wind/tide measurements for a break.
//
// ForecastDate is a calendar date (YYYY-MM-DD) and ForecastTime a slot
// label such as "6am"; together with BreakID they identify the row.
type Forecast struct {
	BreakID        string  `json:"break_id" db:"break_id"`
	ForecastDate   string  `json:"forecast_date" db:"forecast_date"`
	ForecastTime   string  `json:"forecast_time" db:"forecast_time"`
	SwellHeight    float64 `json:"swell_height" db:"swell_height"`
	SwellDirection float64 `json:"swell_direction" db:"swell_direction"`
	SwellPeriod    float64 `json:"swell_period" db:"swell_period"`
	WindSpeed      float64 `json:"wind_speed" db:"wind_speed"`
	WindDirection  float64 `json:"wind_direction" db:"wind_direction"`
	TideHeight     float64 `json:"tide_height" db:"tide_height"`
}

// SyntheticForecast returns the fixed record the connection tester upserts.
func SyntheticForecast(breakID string) Forecast {
	return Forecast{
		BreakID:        breakID,
		ForecastDate:   "2025-08-01",
		ForecastTime:   "6am",
		SwellHeight:    1.5,
		SwellDirection: 180,
		SwellPeriod:    8,
		WindSpeed:      15,
		WindDirection:  90,
		TideHeight:     1.2,
	}
}
