package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("x: %w", domain.ErrValidation), http.StatusBadRequest},
		{"slot unavailable", fmt.Errorf("x: %w", domain.ErrSlotUnavailable), http.StatusConflict},
		{"policy", fmt.Errorf("x: %w", domain.ErrPolicyViolation), http.StatusUnprocessableEntity},
		{"forbidden before policy", fmt.Errorf("x: %w", domain.ErrForbidden), http.StatusForbidden},
		{"finalized", fmt.Errorf("x: %w", domain.ErrAlreadyFinalized), http.StatusConflict},
		{"not found", fmt.Errorf("x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"gateway", fmt.Errorf("x: %w", domain.ErrGateway), http.StatusBadGateway},
		{"expired", fmt.Errorf("x: %w", domain.ErrExpiredSession), http.StatusGone},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromError(tt.err))
		})
	}
}

func TestRespondDomainError_HidesUnclassified(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, errors.New("pq: connection refused"), "details")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, msgInternalError, body.Message)
}

type decodeTarget struct {
	CourtID int64  `json:"courtId" validate:"required,gt=0"`
	Date    string `json:"date" validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		empty   bool
	}{
		{name: "valid", body: `{"courtId":1,"date":"2026-03-04"}`},
		{name: "unknown field", body: `{"courtId":1,"date":"2026-03-04","extra":true}`, wantErr: true},
		{name: "failed validation", body: `{"courtId":0,"date":"2026-03-04"}`, wantErr: true},
		{name: "malformed", body: `{"courtId":`, wantErr: true},
		{name: "empty", body: ``, wantErr: true, empty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v decodeTarget
			err := DecodeJSON(r, &v)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, int64(1), v.CourtID)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.empty, errors.Is(err, ErrEmptyBody))
		})
	}
}

func TestPathInt64(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{
		"ok":       "42",
		"negative": "-1",
		"text":     "abc",
	})

	id, err := PathInt64(r, "ok")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = PathInt64(r, "negative")
	assert.Error(t, err)
	_, err = PathInt64(r, "text")
	assert.Error(t, err)
	_, err = PathInt64(r, "missing")
	assert.Error(t, err)
}

func TestPathUUID(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{
		"ok":         "5F0C6A2E-8B1D-4C3A-9E7F-1A2B3C4D5E6F",
		"sequential": "42",
	})

	id, err := PathUUID(r, "ok")
	require.NoError(t, err)
	assert.Equal(t, "5f0c6a2e-8b1d-4c3a-9e7f-1a2b3c4d5e6f", id)

	_, err = PathUUID(r, "sequential")
	assert.Error(t, err)
	_, err = PathUUID(r, "missing")
	assert.Error(t, err)
}

func TestParseTime_Normalizes(t *testing.T) {
	ts, err := ParseTime(" 9:30 ")
	require.NoError(t, err)
	assert.Equal(t, "09:30", ts.String())

	_, err = ParseTime("25:00")
	assert.Error(t, err)
}
