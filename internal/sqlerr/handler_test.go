package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/surf-tools/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnose_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:   "ERROR",
		Code:       "23503",
		Message:    "insert or update on table violates foreign key constraint",
		TableName:  "forecast_data",
		ColumnName: "break_id",
	}

	assert.Equal(t, "The referenced Break does not exist", Diagnose(fmt.Errorf("upsert forecast: %w", pgErr)))
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not null", &pgconn.PgError{Code: "23502", TableName: "surf_breaks", ColumnName: "name"}, "The Name is required"},
		{"unique", &pgconn.PgError{Code: "23505", TableName: "forecast_data"}, "A Forecast Data with this identifier already exists"},
		{"check", &pgconn.PgError{Code: "23514", ColumnName: "swell_height"}, "The Swell Height value does not meet required conditions"},
		{"conflict target", &pgconn.PgError{Code: "42P10"}, "No unique constraint matches the upsert conflict columns (run `surfctl migrate`)"},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, "The table does not exist (run `surfctl migrate`)"},
		{"privilege", &pgconn.PgError{Code: "42501", TableName: "forecast_data"}, "The database role may not write to forecast_data"},
		{"upstream sqlstate", upstream("23503"), "The referenced record does not exist"},
		{"upstream other code", upstream("PGRST301"), ""},
		{"plain", errors.New("connection refused"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diagnose(tt.err))
		})
	}
}

func upstream(code string) error {
	statusErr := errs.NewStatusError("Supabase", http.StatusConflict, []byte("("+code+") failed"))
	statusErr.Code = code
	return fmt.Errorf("upsert: %w", statusErr)
}

func TestHandleError_NoRows(t *testing.T) {
	var httpErr *errs.HTTPError
	require.True(t, errors.As(HandleError(pgx.ErrNoRows), &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestHandleError_Unknown(t *testing.T) {
	var httpErr *errs.HTTPError
	require.True(t, errors.As(HandleError(errors.New("boom")), &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Internal Server Error", httpErr.Message)
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, UndefinedTable, ErrCode(fmt.Errorf("x: %w", &pgconn.PgError{Code: "42P01"})))
	assert.Equal(t, UniqueViolation, ErrCode(ConvertPgError(&pgconn.PgError{Code: "23505"})))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
	assert.Equal(t, InvalidConflictSpec, ErrCode(upstream("42P10")))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("weird"))
}
