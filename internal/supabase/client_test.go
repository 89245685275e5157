package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deppfellow/surf-tools/internal/errs"
	"github.com/deppfellow/surf-tools/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ListBreaks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/surf_breaks", r.URL.Path)
		assert.Equal(t, "id,name,region", r.URL.Query().Get("select"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "3f2b8c1e-5d4a-4c1b-9a7e-2b6f1d0c8e91", "name": "Sandon Point", "region": "Illawarra"},
			{"id": "7c9e6679-7425-40de-944b-e07fc1f90ae7", "name": "North Beach", "region": "Illawarra"}
		]`))
	}))
	defer srv.Close()

	store := NewStore(NewClient(srv.URL+"/", "service-key", time.Second))

	breaks, err := store.ListBreaks(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, breaks, 2)
	assert.Equal(t, model.Break{ID: "3f2b8c1e-5d4a-4c1b-9a7e-2b6f1d0c8e91", Name: "Sandon Point", Region: "Illawarra"}, breaks[0])
}

func TestStore_UpsertForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/forecast_data", r.URL.Path)
		assert.Equal(t, "break_id,forecast_date,forecast_time", r.URL.Query().Get("on_conflict"))
		assert.Equal(t, "resolution=merge-duplicates,return=minimal", r.Header.Get("Prefer"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var got model.Forecast
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, model.SyntheticForecast("7c9e6679-7425-40de-944b-e07fc1f90ae7"), got)

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := NewStore(NewClient(srv.URL, "service-key", time.Second))

	require.NoError(t, store.UpsertForecast(context.Background(), model.SyntheticForecast("7c9e6679-7425-40de-944b-e07fc1f90ae7")))
}

func TestClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"PGRST301","message":"JWT expired","hint":null}`))
	}))
	defer srv.Close()

	store := NewStore(NewClient(srv.URL, "expired", time.Second))

	_, err := store.ListBreaks(context.Background(), 1)
	require.Error(t, err)

	var statusErr *errs.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "(PGRST301) JWT expired", statusErr.Body)
	assert.Equal(t, "PGRST301", statusErr.Code)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewStore(NewClient(url, "key", time.Second)).ListBreaks(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Supabase request failed")
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	err := NewStore(NewClient(srv.URL, "key", time.Second)).
		UpsertForecast(context.Background(), model.SyntheticForecast("7c9e6679-7425-40de-944b-e07fc1f90ae7"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, errs.StatusCode(err))
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	_, err := NewStore(NewClient(srv.URL, "key", 50*time.Millisecond)).ListBreaks(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ForeignKeyViolationCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"23503","message":"insert or update on table \"forecast_data\" violates foreign key constraint","details":null,"hint":null}`))
	}))
	defer srv.Close()

	err := NewStore(NewClient(srv.URL, "key", time.Second)).
		UpsertForecast(context.Background(), model.SyntheticForecast("00000000-0000-0000-0000-000000000000"))

	var statusErr *errs.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
	assert.Equal(t, "23503", statusErr.Code)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "42P10", errorCode("(42P10) there is no unique or exclusion constraint"))
	assert.Equal(t, "", errorCode("error parsing error response: invalid character '<'"))
	assert.Equal(t, "", errorCode("() empty"))
}
