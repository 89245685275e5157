// Package repository contains the PostgreSQL queries for the surf tables.
//
// It is used by the test-db server and by the postgres backend of the
// connection tester.
package repository

import (
	"context"

	"github.com/deppfellow/surf-tools/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool (and pgx.Tx) the repositories need.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repositories groups every repository behind one value.
type Repositories struct {
	Breaks    *BreakRepository
	Forecasts *ForecastRepository
}

// NewRepositories builds the repositories on top of db.
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Breaks:    NewBreakRepository(db),
		Forecasts: NewForecastRepository(db),
	}
}

// ListBreaks returns up to limit breaks.
func (r *Repositories) ListBreaks(ctx context.Context, limit int) ([]model.Break, error) {
	return r.Breaks.List(ctx, limit)
}

// UpsertForecast writes f keyed by break, date and time slot.
func (r *Repositories) UpsertForecast(ctx context.Context, f model.Forecast) error {
	return r.Forecasts.Upsert(ctx, f)
}
