package service

import (
	"context"

	"github.com/deppfellow/surf-tools/internal/model"
)

// BreakReader is the read side of the surf_breaks repository.
type BreakReader interface {
	List(ctx context.Context, limit int) ([]model.Break, error)
	Count(ctx context.Context) (int64, error)
}

// ForecastReader is the read side of the forecast_data repository.
type ForecastReader interface {
	List(ctx context.Context, limit int) ([]model.Forecast, error)
	Count(ctx context.Context) (int64, error)
}

// TestDBService backs the /api/test-db endpoint the connection tester probes.
type TestDBService struct {
	breaks    BreakReader
	forecasts ForecastReader
}

func NewTestDBService(breaks BreakReader, forecasts ForecastReader) *TestDBService {
	return &TestDBService{breaks: breaks, forecasts: forecasts}
}

// Sample reads up to limit rows from each table. The reported counts are
// the sizes of the samples, not of the tables.
func (s *TestDBService) Sample(ctx context.Context, limit int) (*model.DBReport, error) {
	breaks, err := s.breaks.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	forecasts, err := s.forecasts.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	// Keep empty samples as [] in JSON.
	if breaks == nil {
		breaks = []model.Break{}
	}
	if forecasts == nil {
		forecasts = []model.Forecast{}
	}

	return &model.DBReport{
		Success: true,
		Message: "Database connection successful",
		Data: &model.DBReportData{
			BreaksCount:     len(breaks),
			ForecastsCount:  len(forecasts),
			SampleBreaks:    breaks,
			SampleForecasts: forecasts,
		},
	}, nil
}

// TableCounts returns the row count of both surf tables, keyed by table name.
func (s *TestDBService) TableCounts(ctx context.Context) (map[string]int64, error) {
	breaks, err := s.breaks.Count(ctx)
	if err != nil {
		return nil, err
	}

	forecasts, err := s.forecasts.Count(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]int64{
		model.BreaksTable:    breaks,
		model.ForecastsTable: forecasts,
	}, nil
}
