package payment_cancel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/payments"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

const publicID = "5f0c6a2e-8b1d-4c3a-9e7f-1a2b3c4d5e6f"

type stubCoordinator struct {
	called    bool
	publicID  string
	sessionID string
	booking   *domain.Booking
	err       error
}

func (s *stubCoordinator) HandleCancel(_ context.Context, publicID string, sessionID string) (*domain.Booking, error) {
	s.called = true
	s.publicID = publicID
	s.sessionID = sessionID
	return s.booking, s.err
}

func serve(coordinator PaymentCoordinator, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/payments/{publicId}/cancel", NewHandler(coordinator, logger.NewNop()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandle_Cancelled(t *testing.T) {
	coordinator := &stubCoordinator{booking: &domain.Booking{
		ID:          3,
		PublicID:    publicID,
		Status:      domain.StatusCancelled,
		BookingDate: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:   types.MustTimeString("18:00"),
		EndTime:     types.MustTimeString("19:00"),
	}}

	rec := serve(coordinator, "/api/v1/payments/"+publicID+"/cancel?session_id=cs_1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, publicID, coordinator.publicID)
	assert.Equal(t, "cs_1", coordinator.sessionID)
}

func TestHandle_SequentialIDRejected(t *testing.T) {
	coordinator := &stubCoordinator{}

	rec := serve(coordinator, "/api/v1/payments/42/cancel")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, coordinator.called)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "unknown booking", err: bookings.ErrBookingNotFound, status: http.StatusNotFound},
		{name: "booking no longer pending", err: payments.ErrNotRetryable, status: http.StatusConflict},
		{name: "foreign session", err: payments.ErrSessionMismatch, status: http.StatusBadRequest},
		{name: "gateway down", err: payments.ErrGatewayUnavailable, status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&stubCoordinator{err: tt.err}, "/api/v1/payments/"+publicID+"/cancel")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
