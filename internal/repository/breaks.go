package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/surf-tools/internal/model"
	"github.com/jackc/pgx/v5"
)

// BreakRepository reads surf_breaks.
type BreakRepository struct {
	db DBTX
}

func NewBreakRepository(db DBTX) *BreakRepository {
	return &BreakRepository{db: db}
}

// List returns up to limit breaks ordered by name.
func (r *BreakRepository) List(ctx context.Context, limit int) ([]model.Break, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id::text AS id, name, region FROM surf_breaks ORDER BY name, id LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query surf_breaks: %w", err)
	}

	breaks, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Break])
	if err != nil {
		return nil, fmt.Errorf("failed to scan surf_breaks: %w", err)
	}
	return breaks, nil
}

// Count returns the number of rows in surf_breaks.
func (r *BreakRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM surf_breaks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count surf_breaks: %w", err)
	}
	return count, nil
}
