package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/surf-tools/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB records the last statement and returns canned results.
type fakeDB struct {
	sql      string
	args     []any
	count    int64
	execErr  error
	queryErr error
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.sql, f.args = sql, args
	return nil, f.queryErr
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql, f.args = sql, args
	return fakeRow{count: f.count, err: f.queryErr}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

type fakeRow struct {
	count int64
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.count
	return nil
}

func TestForecastRepository_Upsert(t *testing.T) {
	db := &fakeDB{}
	repo := NewForecastRepository(db)

	err := repo.Upsert(context.Background(), model.SyntheticForecast("3f2b8c1e-5d4a-4c1b-9a7e-2b6f1d0c8e91"))
	require.NoError(t, err)

	assert.Contains(t, db.sql, "ON CONFLICT (break_id, forecast_date, forecast_time) DO UPDATE")
	require.Len(t, db.args, 1)

	args, ok := db.args[0].(pgx.NamedArgs)
	require.True(t, ok)
	assert.Equal(t, "3f2b8c1e-5d4a-4c1b-9a7e-2b6f1d0c8e91", args["break_id"])
	assert.Contains(t, db.sql, "@break_id::uuid")
	assert.Equal(t, "2025-08-01", args["forecast_date"])
	assert.Equal(t, "6am", args["forecast_time"])
	assert.Equal(t, 1.5, args["swell_height"])
}

func TestForecastRepository_UpsertError(t *testing.T) {
	db := &fakeDB{execErr: errors.New("connection refused")}

	err := NewForecastRepository(db).Upsert(context.Background(), model.SyntheticForecast("b1"))

	require.Error(t, err)
	assert.ErrorIs(t, err, db.execErr)
}

func TestBreakRepository_Count(t *testing.T) {
	db := &fakeDB{count: 3}

	count, err := NewBreakRepository(db).Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Contains(t, db.sql, "FROM surf_breaks")
}

func TestBreakRepository_ListQueryError(t *testing.T) {
	db := &fakeDB{queryErr: errors.New("relation \"surf_breaks\" does not exist")}

	_, err := NewBreakRepository(db).List(context.Background(), 3)

	require.Error(t, err)
	assert.Equal(t, []any{3}, db.args)
}
