// Package conntest runs the connection smoke test: environment, database
// read, weather API, forecast upsert and the deployed app's health route.
//
// Checks run one after another. Each one is isolated, so an error or a
// panic inside a check only marks that check as failed.
package conntest

import (
	"context"

	"github.com/deppfellow/surf-tools/internal/model"
	"github.com/deppfellow/surf-tools/internal/weather"
)

// Check names, in execution order.
const (
	CheckEnvironment = "Environment Variables"
	CheckDatabase    = "Supabase Connection"
	CheckWeather     = "WillyWeather API"
	CheckInsert      = "Data Insertion"
	CheckApp         = "Deployed App"
)

// Store is the database surface the tester needs.
type Store interface {
	ListBreaks(ctx context.Context, limit int) ([]model.Break, error)
	UpsertForecast(ctx context.Context, f model.Forecast) error
}

// StoreOpener opens the store lazily, after the environment check passed.
// The returned close func may be nil.
type StoreOpener func(ctx context.Context) (Store, func(), error)

// WeatherAPI fetches a forecast for a location.
type WeatherAPI interface {
	Forecast(ctx context.Context, locationID int) (*weather.Response, error)
}

// AppProbe calls the deployed app's database health route.
type AppProbe interface {
	Endpoint(host string) string
	CheckDB(ctx context.Context, host string) (*model.DBReport, error)
}

// Result is the outcome of one check.
type Result struct {
	Name   string
	Passed bool
}

// Report is the outcome of a whole run.
type Report struct {
	Results []Result

	// Aborted is set when required configuration was missing and no
	// other check ran. Missing lists the absent variable names.
	Aborted bool
	Missing []string
}

// AllPassed reports whether the run completed and every check passed.
func (r Report) AllPassed() bool {
	if r.Aborted || len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// Passed returns the outcome of the named check.
func (r Report) Passed(name string) bool {
	for _, res := range r.Results {
		if res.Name == name {
			return res.Passed
		}
	}
	return false
}
