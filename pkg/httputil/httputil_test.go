package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/validator"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *ErrorResponse {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteData(rec, http.StatusCreated, map[string]string{"id": "cart-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"cart-1"}}`, rec.Body.String())
}

func TestWritePage(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePage(rec, pagination.Paginate([]string{"a", "b", "c"}, pagination.Params{Page: 2, PerPage: 2, Offset: 2}))

	assert.JSONEq(t, `{"data":["c"],"total_count":3,"page":2,"per_page":2,"total_pages":2,"has_next":false,"has_prev":true}`,
		rec.Body.String())
}

func TestWritePage_EmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePage(rec, pagination.NewResult[string](nil, 0, pagination.DefaultParams()))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body["data"])
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "app not found",
			err:        apperrors.NotFound("product", "p-1"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "product with id p-1 not found",
		},
		{
			name:       "wrapped app error",
			err:        fmt.Errorf("add item: %w", apperrors.OutOfStock("leather-jacket")),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "OUT_OF_STOCK",
			wantMsg:    "product leather-jacket is out of stock",
		},
		{
			name:       "bare sentinel",
			err:        fmt.Errorf("lookup: %w", apperrors.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "resource not found",
		},
		{
			name:       "unavailable hides upstream detail",
			err:        apperrors.Wrap(apperrors.ServiceUnavailable("dial tcp 10.0.0.1:8001: refused"), "call catalog"),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
			wantMsg:    "a dependency is unavailable",
		},
		{
			name:       "internal hides cause",
			err:        apperrors.Internal(errors.New("redis exploded")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "an internal error occurred",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "an internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			WriteError(rec, req, tt.err, slog.New(slog.DiscardHandler))

			assert.Equal(t, tt.wantStatus, rec.Code)
			e := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, e.Code)
			assert.Equal(t, tt.wantMsg, e.Message)
		})
	}
}

func TestWriteError_LogsServerErrorsWithRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	reqLogger := logger.NewWithWriter("cart-service", "info", &buf)

	ctx := logger.WithCorrelationID(t.Context(), "corr-5")
	ctx = logger.NewContext(ctx, reqLogger)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil).WithContext(ctx)

	rec := httptest.NewRecorder()
	WriteError(rec, req, errors.New("redis down"), nil)

	assert.Equal(t, "corr-5", decodeError(t, rec).RequestID)
	assert.Contains(t, buf.String(), "redis down")
	assert.Contains(t, buf.String(), "request failed")
}

func TestWriteError_ClientErrorsAreNotLogged(t *testing.T) {
	var buf bytes.Buffer
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteError(rec, req, apperrors.InvalidInput("bad"), logger.NewWithWriter("svc", "info", &buf))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, buf.String())
}

type qtyRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

func TestWriteValidationError(t *testing.T) {
	verr := validator.Validate(qtyRequest{})
	require.Error(t, verr)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, httptest.NewRequest(http.MethodPut, "/", nil), verr)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", e.Code)
	assert.Contains(t, e.Fields, "quantity")

	rec = httptest.NewRecorder()
	WriteValidationError(rec, httptest.NewRequest(http.MethodPut, "/", nil), errors.New("missing cart id"))
	e = decodeError(t, rec)
	assert.Equal(t, "INVALID_INPUT", e.Code)
	assert.Equal(t, "missing cart id", e.Message)
}

func TestWriteError_ValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil), validator.Validate(qtyRequest{}), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Code)
}
