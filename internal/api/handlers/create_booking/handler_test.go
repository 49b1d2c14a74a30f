package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
)

type stubUseCase struct {
	got  *createBooking.Request
	resp *models.BookingResponse
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*models.BookingResponse, error) {
	s.got = req
	return s.resp, s.err
}

func serve(t *testing.T, uc CreateBookingUseCase, userHeader, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := mux.NewRouter()
	r.Handle("/api/v1/bookings", middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.NewNop()).Handle))).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if userHeader != "" {
		req.Header.Set(middleware.UserIDHeader, userHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const validBody = `{"courtId":1,"bookingDate":"2026-03-04","startTime":"18:00","endTime":"19:00","couponCode":"SAVE20"}`

func TestHandle_Created(t *testing.T) {
	url := "https://checkout.example/s/1"
	uc := &stubUseCase{resp: &models.BookingResponse{
		ID:          10,
		Status:      string(domain.StatusPending),
		FinalAmount: 52770,
		Payment:     &models.PaymentResponse{Status: string(domain.PaymentPending), CheckoutURL: &url},
	}}

	rec := serve(t, uc, "7", validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.UserID)
	assert.Equal(t, "2026-03-04", uc.got.Date.Format(domain.DateFormat))
	assert.Equal(t, "18:00", uc.got.StartTime.String())
	assert.Equal(t, "19:00", uc.got.EndTime.String())
	require.NotNil(t, uc.got.CouponCode)
	assert.Equal(t, "SAVE20", *uc.got.CouponCode)

	var resp models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(10), resp.ID)
	require.NotNil(t, resp.Payment)
	assert.Equal(t, url, *resp.Payment.CheckoutURL)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		header string
		body   string
		err    error
		status int
	}{
		{name: "no user", body: validBody, status: http.StatusUnauthorized},
		{name: "bad json", header: "7", body: `{`, status: http.StatusBadRequest},
		{name: "bad date", header: "7", body: `{"courtId":1,"bookingDate":"04.03.2026","startTime":"18:00","endTime":"19:00"}`, status: http.StatusBadRequest},
		{name: "slot taken", header: "7", body: validBody, err: bookings.ErrSlotNotAvailable, status: http.StatusConflict},
		{name: "slot missing", header: "7", body: validBody, err: bookings.ErrSlotNotFound, status: http.StatusNotFound},
		{name: "started", header: "7", body: validBody, err: bookings.ErrSlotStarted, status: http.StatusUnprocessableEntity},
		{name: "coupon expired", header: "7", body: validBody, err: domain.ErrCouponExpired, status: http.StatusUnprocessableEntity},
		{name: "end mismatch", header: "7", body: validBody, err: bookings.ErrInvalidTimeRange, status: http.StatusBadRequest},
		{name: "internal", header: "7", body: validBody, err: bookings.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &stubUseCase{err: tt.err}, tt.header, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
