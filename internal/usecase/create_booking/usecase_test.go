package create_booking

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

type stubBookings struct {
	booking *domain.Booking
	payment *domain.Payment
	err     error
	got     *models.ReserveRequest
}

func (s *stubBookings) Reserve(_ context.Context, req *models.ReserveRequest) (*domain.Booking, *domain.Payment, error) {
	s.got = req
	return s.booking, s.payment, s.err
}

type stubPayments struct {
	payment *domain.Payment
	err     error
	calls   int
}

func (s *stubPayments) StartSession(context.Context, *domain.Booking) (*domain.Payment, error) {
	s.calls++
	return s.payment, s.err
}

func reserved() (*domain.Booking, *domain.Payment) {
	b := &domain.Booking{
		ID:          11,
		UserID:      7,
		CourtID:     1,
		BookingDate: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:   "18:00",
		EndTime:     "19:00",
		Status:      domain.StatusPending,
		FinalAmount: 60770,
		Currency:    "INR",
	}
	p := &domain.Payment{BookingID: 11, Status: domain.PaymentPending, Amount: 60770, Currency: "INR"}
	return b, p
}

func request() *Request {
	return &Request{
		UserID:    7,
		CourtID:   1,
		Date:      time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime: "18:00",
		EndTime:   "19:00",
	}
}

func TestExecute_ReturnsCheckoutURL(t *testing.T) {
	b, p := reserved()
	withSession := *p
	withSession.GatewaySessionID = ptr.Ptr("cs_1")
	withSession.CheckoutURL = ptr.Ptr("https://checkout.example/cs_1")

	bookings := &stubBookings{booking: b, payment: p}
	payments := &stubPayments{payment: &withSession}
	uc := NewUseCase(bookings, payments, logger.NewNop())

	resp, err := uc.Execute(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	require.NotNil(t, resp.Payment)
	assert.Equal(t, "https://checkout.example/cs_1", *resp.Payment.CheckoutURL)
	assert.Equal(t, "18:00", bookings.got.StartTime.String())
}

func TestExecute_GatewayFailureKeepsReservation(t *testing.T) {
	b, p := reserved()
	failed := *p
	failed.Status = domain.PaymentFailed

	uc := NewUseCase(&stubBookings{booking: b, payment: p},
		&stubPayments{payment: &failed, err: fmt.Errorf("payments: %w", domain.ErrGateway)},
		logger.NewNop())

	resp, err := uc.Execute(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "failed", resp.Payment.Status)
}

func TestExecute_ReserveErrorIsReturned(t *testing.T) {
	payments := &stubPayments{}
	uc := NewUseCase(&stubBookings{err: domain.ErrSlotUnavailable}, payments, logger.NewNop())

	_, err := uc.Execute(context.Background(), request())
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Zero(t, payments.calls)
}

func TestExecute_CouponTooLong(t *testing.T) {
	bookings := &stubBookings{}
	uc := NewUseCase(bookings, &stubPayments{}, logger.NewNop())

	req := request()
	req.CouponCode = ptr.Ptr(strings.Repeat("A", domain.MaxCouponCodeLength+1))
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, bookings.got)
}
