package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/surf-tools/internal/config"
	"github.com/deppfellow/surf-tools/internal/handler"
	"github.com/deppfellow/surf-tools/internal/middleware"
	"github.com/deppfellow/surf-tools/internal/model"
	"github.com/deppfellow/surf-tools/internal/server"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	err       error
	lastLimit int
}

func (f *fakeService) Sample(_ context.Context, limit int) (*model.DBReport, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return &model.DBReport{
		Success: true,
		Message: "Database connection successful",
		Data:    &model.DBReportData{BreaksCount: 1, SampleBreaks: []model.Break{{ID: "3f2b8c1e-5d4a-4c1b-9a7e-2b6f1d0c8e91", Name: "Sandon Point", Region: "Illawarra"}}},
	}, nil
}

func (f *fakeService) TableCounts(context.Context) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[string]int64{model.BreaksTable: 1, model.ForecastsTable: 0}, nil
}

func newTestRouter(t *testing.T, svc *fakeService) http.Handler {
	t.Helper()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	s := &server.Server{Config: config.Default(), Logger: &logger}

	h := &handler.Handlers{
		Health: handler.NewHealthHandler(s, svc),
		TestDB: handler.NewTestDBHandler(s, svc),
	}
	return NewRouter(s, h)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestTestDB_Success(t *testing.T) {
	svc := &fakeService{}
	rec := get(t, newTestRouter(t, svc), "/api/test-db")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.DefaultSampleLimit, svc.lastLimit)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	var report model.DBReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Success)
	assert.Equal(t, "Database connection successful", report.Message)
	require.NotNil(t, report.Data)
	assert.Equal(t, "Sandon Point", report.Data.SampleBreaks[0].Name)
}

func TestTestDB_Limit(t *testing.T) {
	svc := &fakeService{}
	rec := get(t, newTestRouter(t, svc), "/api/test-db?limit=12")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 12, svc.lastLimit)
}

func TestTestDB_InvalidLimit(t *testing.T) {
	rec := get(t, newTestRouter(t, &fakeService{}), "/api/test-db?limit=500")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must not exceed 50")
}

func TestTestDB_DatabaseFailure(t *testing.T) {
	svc := &fakeService{err: errors.New(`relation "surf_breaks" does not exist`)}
	rec := get(t, newTestRouter(t, svc), "/api/test-db")

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var report model.DBReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.Success)
	assert.Equal(t, `relation "surf_breaks" does not exist`, report.Error)
	assert.Nil(t, report.Data)
}

func TestTestDB_MissingTableHint(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("failed to query surf_breaks: %w", &pgconn.PgError{Code: "42P01", Message: `relation "surf_breaks" does not exist`})}
	rec := get(t, newTestRouter(t, svc), "/api/test-db")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "surfctl migrate")
}

func TestStatus_WithoutDatabase(t *testing.T) {
	rec := get(t, newTestRouter(t, &fakeService{}), "/status")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status string                    `json:"status"`
		Checks map[string]map[string]any `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "unhealthy", body.Checks["database"]["status"])
	assert.Equal(t, "healthy", body.Checks["tables"]["status"])
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestRouter(t, &fakeService{}), "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")
}
