package supabase

import (
	"context"

	"github.com/deppfellow/surf-tools/internal/model"
)

// Store reads breaks and upserts forecasts through the REST API.
type Store struct {
	client *Client
}

func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// ListBreaks returns up to limit breaks.
func (s *Store) ListBreaks(ctx context.Context, limit int) ([]model.Break, error) {
	var breaks []model.Break
	if err := s.client.Select(ctx, model.BreaksTable, "id,name,region", limit, &breaks); err != nil {
		return nil, err
	}
	return breaks, nil
}

// UpsertForecast writes f keyed by break, date and time slot.
func (s *Store) UpsertForecast(ctx context.Context, f model.Forecast) error {
	return s.client.Upsert(ctx, model.ForecastsTable, f, model.ForecastConflictKey)
}

// Close is a no-op; the REST client holds no long-lived resources.
func (s *Store) Close() {}
