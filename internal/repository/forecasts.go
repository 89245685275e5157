package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/surf-tools/internal/model"
	"github.com/jackc/pgx/v5"
)

// ForecastRepository reads and writes forecast_data.
type ForecastRepository struct {
	db DBTX
}

func NewForecastRepository(db DBTX) *ForecastRepository {
	return &ForecastRepository{db: db}
}

const upsertForecastSQL = `
INSERT INTO forecast_data (
	break_id, forecast_date, forecast_time,
	swell_height, swell_direction, swell_period,
	wind_speed, wind_direction, tide_height
) VALUES (
	@break_id::uuid, @forecast_date, @forecast_time,
	@swell_height, @swell_direction, @swell_period,
	@wind_speed, @wind_direction, @tide_height
)
ON CONFLICT (break_id, forecast_date, forecast_time) DO UPDATE SET
	swell_height = EXCLUDED.swell_height,
	swell_direction = EXCLUDED.swell_direction,
	swell_period = EXCLUDED.swell_period,
	wind_speed = EXCLUDED.wind_speed,
	wind_direction = EXCLUDED.wind_direction,
	tide_height = EXCLUDED.tide_height`

// Upsert inserts f or updates the row with the same break, date and time slot.
func (r *ForecastRepository) Upsert(ctx context.Context, f model.Forecast) error {
	_, err := r.db.Exec(ctx, upsertForecastSQL, pgx.NamedArgs{
		"break_id":        f.BreakID,
		"forecast_date":   f.ForecastDate,
		"forecast_time":   f.ForecastTime,
		"swell_height":    f.SwellHeight,
		"swell_direction": f.SwellDirection,
		"swell_period":    f.SwellPeriod,
		"wind_speed":      f.WindSpeed,
		"wind_direction":  f.WindDirection,
		"tide_height":     f.TideHeight,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert forecast_data: %w", err)
	}
	return nil
}

// List returns up to limit forecasts, most recent date first.
func (r *ForecastRepository) List(ctx context.Context, limit int) ([]model.Forecast, error) {
	rows, err := r.db.Query(ctx, `
		SELECT break_id::text AS break_id, to_char(forecast_date, 'YYYY-MM-DD') AS forecast_date, forecast_time,
			coalesce(swell_height, 0) AS swell_height,
			coalesce(swell_direction, 0) AS swell_direction,
			coalesce(swell_period, 0) AS swell_period,
			coalesce(wind_speed, 0) AS wind_speed,
			coalesce(wind_direction, 0) AS wind_direction,
			coalesce(tide_height, 0) AS tide_height
		FROM forecast_data
		ORDER BY forecast_date DESC, break_id
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecast_data: %w", err)
	}

	forecasts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Forecast])
	if err != nil {
		return nil, fmt.Errorf("failed to scan forecast_data: %w", err)
	}
	return forecasts, nil
}

// Count returns the number of rows in forecast_data.
func (r *ForecastRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM forecast_data`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count forecast_data: %w", err)
	}
	return count, nil
}
