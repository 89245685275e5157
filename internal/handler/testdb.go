package handler

import (
	"context"
	"net/http"

	"github.com/deppfellow/surf-tools/internal/middleware"
	"github.com/deppfellow/surf-tools/internal/model"
	"github.com/deppfellow/surf-tools/internal/server"
	"github.com/deppfellow/surf-tools/internal/sqlerr"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// DefaultSampleLimit is the number of rows per table returned when the
// request does not set ?limit.
const DefaultSampleLimit = 5

var requestValidator = validator.New()

// TestDBRequest is the query of GET /api/test-db.
type TestDBRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=50"`
}

func NewTestDBRequest() *TestDBRequest {
	return &TestDBRequest{}
}

func (r *TestDBRequest) Validate() error {
	return requestValidator.Struct(r)
}

// Sampler reads the sample rows behind the endpoint.
type Sampler interface {
	Sample(ctx context.Context, limit int) (*model.DBReport, error)
}

// TestDBHandler serves the database report the connection tester reads.
type TestDBHandler struct {
	Handler
	sampler Sampler
}

func NewTestDBHandler(s *server.Server, sampler Sampler) *TestDBHandler {
	return &TestDBHandler{
		Handler: NewHandler(s),
		sampler: sampler,
	}
}

// Get answers database failures with a 500 report body rather than an
// error, so clients always receive the {success, error} shape.
func (h *TestDBHandler) Get(c echo.Context, req *TestDBRequest) (*reportResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = DefaultSampleLimit
	}

	report, err := h.sampler.Sample(c.Request().Context(), limit)
	if err != nil {
		middleware.GetLogger(c).Error().Err(err).Msg("database test error")

		message := err.Error()
		if sqlerr.ErrCode(err) == sqlerr.UndefinedTable {
			message += " (run `surfctl migrate`)"
		}

		return &reportResponse{
			status: http.StatusInternalServerError,
			DBReport: &model.DBReport{
				Success: false,
				Error:   message,
			},
		}, nil
	}

	return &reportResponse{status: http.StatusOK, DBReport: report}, nil
}

// reportResponse pairs a DBReport with the status it is sent with.
type reportResponse struct {
	*model.DBReport
	status int
}

func (r *reportResponse) HTTPStatus() int {
	return r.status
}
