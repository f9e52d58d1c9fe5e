package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/research"
	"github.com/wonny/astroquant/pkg/logger"
)

func TestHealth_Degraded(t *testing.T) {
	h := NewHealthHandler("astroquant-api", map[string]Check{
		"database": func(context.Context) error { return errors.New("connection refused") },
		"redis":    func(context.Context) error { return nil },
	})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Components["redis"])
	assert.Contains(t, body.Components["database"], "connection refused")
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		field  string
	}{
		{
			name:   "input error",
			err:    contracts.NewInputError("top_n", "must be > 0, got 0"),
			status: http.StatusBadRequest,
			code:   CodeValidation,
			field:  "top_n",
		},
		{
			name:   "wrapped input error",
			err:    fmt.Errorf("scoring stage: %w", contracts.NewInputError("weights.astro", "unknown category")),
			status: http.StatusBadRequest,
			code:   CodeValidation,
			field:  "weights.astro",
		},
		{
			name:   "not found",
			err:    fmt.Errorf("load: %w", research.ErrNotFound),
			status: http.StatusNotFound,
			code:   CodeNotFound,
		},
		{
			name:   "internal",
			err:    errors.New("connection reset"),
			status: http.StatusInternalServerError,
			code:   CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, httptest.NewRequest("GET", "/", nil), logger.Nop(), tt.err, "do thing")
			require.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.field != "" {
				require.Len(t, body.Error.Fields, 1)
				assert.Equal(t, tt.field, body.Error.Fields[0].Field)
			}
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, body.Error.Message, "connection reset")
			}
		})
	}
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "date_range.start", fieldPath("HoroscopeRequest.date_range.start"))
	assert.Equal(t, "symbols[0]", fieldPath("BatchHoroscopeRequest.symbols[0]"))
	assert.Equal(t, "symbol", fieldPath("symbol"))
}

func TestHoroscopeCacheKey(t *testing.T) {
	dates := contracts.DateRange{Start: "1990-01-01", End: "2000-12-31"}
	times := contracts.TimeRange{Start: "09:00", End: "17:00"}

	a := horoscopeCacheKey("TCS", 42, dates, times, "Mumbai")
	assert.Equal(t, a, horoscopeCacheKey(" TCS ", 42, dates, times, "Mumbai"))
	assert.NotEqual(t, a, horoscopeCacheKey("TCS", 43, dates, times, "Mumbai"))
	assert.NotEqual(t, a, horoscopeCacheKey("TCS", 42, dates, times, "Delhi"))
}
