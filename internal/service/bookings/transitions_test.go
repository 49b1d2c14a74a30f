package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

func TestConfirm(t *testing.T) {
	f := newFixture(t)
	f.addSlot("2026-03-04", "18:00", "19:00")
	b := f.reserve(t, "2026-03-04", "18:00", "19:00")
	ctx := context.Background()

	_, err := f.svc.Confirm(ctx, b.ID, domain.PaymentProof{Amount: b.FinalAmount - 1})
	assert.ErrorIs(t, err, ErrAmountMismatch)

	confirmed, err := f.svc.Confirm(ctx, b.ID, domain.PaymentProof{Amount: b.FinalAmount, TransactionID: "pi_123"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedAt)

	_, p, err := f.svc.GetWithPayment(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, p.Status)
	require.NotNil(t, p.TransactionID)
	assert.Equal(t, "pi_123", *p.TransactionID)
	assert.NotNil(t, p.PaidAt)

	snapshots := f.sink.Snapshots()
	require.Len(t, snapshots, 1)
	assert.Equal(t, b.ID, snapshots[0].BookingID)

	_, err = f.svc.Confirm(ctx, b.ID, domain.PaymentProof{Amount: b.FinalAmount})
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)
	assert.Len(t, f.sink.Snapshots(), 1)
}

func TestConfirm_IncrementsCouponUsage(t *testing.T) {
	f := newFixture(t)
	f.addSlot("2026-03-04", "18:00", "19:00")
	coupon := f.store.AddCoupon(domain.Coupon{
		Code:           "ONCE",
		DiscountType:   domain.DiscountFixedAmount,
		DiscountValue:  1000,
		UserUsageLimit: ptr.Ptr(1),
		ValidFrom:      start.AddDate(0, 0, -1),
		ValidUntil:     start.AddDate(0, 1, 0),
		IsActive:       true,
	})
	ctx := context.Background()

	b, _, err := f.svc.Reserve(ctx, &models.ReserveRequest{
		UserID: ownerID, CourtID: courtID, Date: day("2026-03-04"),
		StartTime: "18:00", EndTime: "19:00", CouponCode: ptr.Ptr("ONCE"),
	})
	require.NoError(t, err)
	f.confirm(t, b)

	usage, err := f.store.Coupons().CountUserUsage(ctx, coupon.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, usage)

	_, err = f.svc.Cancel(ctx, &models.CancelRequest{BookingID: b.ID, Actor: domain.UserActor(ownerID)})
	require.NoError(t, err)

	usage, err = f.store.Coupons().CountUserUsage(ctx, coupon.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 0, usage)
}

func TestReserve_PendingBookingsHoldCouponUses(t *testing.T) {
	f := newFixture(t)
	f.addSlot("2026-03-04", "18:00", "19:00")
	f.addSlot("2026-03-04", "19:00", "20:00")
	f.addSlot("2026-03-05", "18:00", "19:00")
	coupon := f.store.AddCoupon(domain.Coupon{
		Code:           "LAST",
		DiscountType:   domain.DiscountFixedAmount,
		DiscountValue:  1000,
		UsageLimit:     ptr.Ptr(1),
		UserUsageLimit: ptr.Ptr(1),
		ValidFrom:      start.AddDate(0, 0, -1),
		ValidUntil:     start.AddDate(0, 1, 0),
		IsActive:       true,
	})
	ctx := context.Background()

	reserve := func(userID int64, date, from, to string) (*domain.Booking, error) {
		b, _, err := f.svc.Reserve(ctx, &models.ReserveRequest{
			UserID: userID, CourtID: courtID, Date: day(date),
			StartTime: types.MustTimeString(from), EndTime: types.MustTimeString(to),
			CouponCode: ptr.Ptr("LAST"),
		})
		return b, err
	}

	first, err := reserve(ownerID, "2026-03-04", "18:00", "19:00")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), first.DiscountAmount)

	// Последнее использование удерживается ожидающим оплаты бронированием
	_, err = reserve(ownerID, "2026-03-04", "19:00", "20:00")
	assert.ErrorIs(t, err, domain.ErrCouponUsageExceeded)
	_, err = reserve(otherID, "2026-03-04", "19:00", "20:00")
	assert.ErrorIs(t, err, domain.ErrCouponUsageExceeded)

	_, err = f.svc.Cancel(ctx, &models.CancelRequest{BookingID: first.ID, Actor: domain.UserActor(ownerID)})
	require.NoError(t, err)

	second, err := reserve(otherID, "2026-03-04", "19:00", "20:00")
	require.NoError(t, err)
	f.confirm(t, second)

	_, err = reserve(ownerID, "2026-03-05", "18:00", "19:00")
	assert.ErrorIs(t, err, domain.ErrCouponUsageExceeded)

	stored, err := f.store.Coupons().GetByCode(ctx, "LAST")
	require.NoError(t, err)
	assert.Equal(t, coupon.ID, stored.ID)
	assert.Equal(t, 1, stored.UsedCount)
}

func TestCancel_Pending(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot("2026-03-02", "09:30", "10:30")
	b := f.reserve(t, "2026-03-02", "09:30", "10:30")
	ctx := context.Background()

	_, err := f.svc.Cancel(ctx, &models.CancelRequest{BookingID: b.ID, Actor: domain.UserActor(otherID)})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// pending отменяется даже внутри окна отмены
	cancelled, err := f.svc.Cancel(ctx, &models.CancelRequest{
		BookingID: b.ID,
		Actor:     domain.UserActor(ownerID),
		Reason:    ptr.Ptr("changed plans"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledBy)
	assert.Equal(t, "user:7", *cancelled.CancelledBy)
	assert.Equal(t, "changed plans", *cancelled.CancellationReason)

	assert.True(t, f.slot(t, slot.ID).IsAvailable())

	_, p, err := f.svc.GetWithPayment(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCancelled, p.Status)

	_, err = f.svc.Cancel(ctx, &models.CancelRequest{BookingID: b.ID, Actor: domain.UserActor(ownerID)})
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestCancel_ConfirmedRespectsWindow(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot("2026-03-04", "18:00", "19:00")
	b := f.confirm(t, f.reserve(t, "2026-03-04", "18:00", "19:00"))
	ctx := context.Background()

	// Ровно два часа до начала: отмена уже запрещена
	f.clock.Set(time.Date(2026, 3, 4, 16, 0, 0, 0, time.UTC))
	_, err := f.svc.Cancel(ctx, &models.CancelRequest{BookingID: b.ID, Actor: domain.UserActor(ownerID)})
	assert.ErrorIs(t, err, ErrCancellationWindow)
	assert.ErrorIs(t, err, domain.ErrPolicyViolation)
	assert.True(t, f.slot(t, slot.ID).IsBooked)

	f.clock.Set(time.Date(2026, 3, 4, 15, 59, 0, 0, time.UTC))
	cancelled, err := f.svc.Cancel(ctx, &models.CancelRequest{BookingID: b.ID, Actor: domain.UserActor(ownerID)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.True(t, f.slot(t, slot.ID).IsAvailable())
	assert.Len(t, f.sink.Snapshots(), 2)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	f := newFixture(t)
	long := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}

	_, err := f.svc.Cancel(context.Background(), &models.CancelRequest{
		BookingID: 1,
		Actor:     domain.UserActor(ownerID),
		Reason:    ptr.Ptr(string(long)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExpireReap(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot("2026-03-04", "18:00", "19:00")
	b := f.reserve(t, "2026-03-04", "18:00", "19:00")
	ctx := context.Background()

	f.clock.Set(start.Add(30 * time.Minute))
	reaped, err := f.svc.ExpireReap(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, reaped, "age equal to TTL is not expired")

	expired, err := f.svc.ListExpiredPending(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, expired)

	f.clock.Set(start.Add(31 * time.Minute))
	expired, err = f.svc.ListExpiredPending(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)

	reaped, err = f.svc.ExpireReap(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, reaped)

	got, _, err := f.svc.GetWithPayment(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, domain.ActorSystem, *got.CancelledBy)
	assert.True(t, f.slot(t, slot.ID).IsAvailable())

	reaped, err = f.svc.ExpireReap(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, reaped)
}

func TestExpireReap_ConfirmedBookingUntouched(t *testing.T) {
	f := newFixture(t)
	f.addSlot("2026-03-04", "18:00", "19:00")
	b := f.confirm(t, f.reserve(t, "2026-03-04", "18:00", "19:00"))

	f.clock.Set(start.Add(2 * time.Hour))
	reaped, err := f.svc.ExpireReap(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, reaped)
}

func TestReleaseUnpaid(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot("2026-03-04", "18:00", "19:00")
	f.addSlot("2026-03-04", "19:00", "20:00")
	ctx := context.Background()

	b := f.reserve(t, "2026-03-04", "18:00", "19:00")
	require.NoError(t, f.store.Payments().AttachSession(ctx, b.ID, "cs_old", "http://pay/old", start))
	require.NoError(t, f.store.Payments().AttachSession(ctx, b.ID, "cs_new", "http://pay/new", start))

	// Сигнал по устаревшей сессии не снимает резерв
	released, err := f.svc.ReleaseUnpaid(ctx, b.ID, "cs_old", "payment session expired")
	require.NoError(t, err)
	assert.False(t, released)
	assert.True(t, f.slot(t, slot.ID).IsBooked)

	released, err = f.svc.ReleaseUnpaid(ctx, b.ID, "cs_new", "payment session expired")
	require.NoError(t, err)
	assert.True(t, released)
	assert.True(t, f.slot(t, slot.ID).IsAvailable())

	got, _, err := f.svc.GetWithPayment(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, domain.ActorSystem, *got.CancelledBy)

	// Подтвержденное бронирование сигналом провайдера не отменяется
	paid := f.reserve(t, "2026-03-04", "19:00", "20:00")
	require.NoError(t, f.store.Payments().AttachSession(ctx, paid.ID, "cs_paid", "http://pay/paid", start))
	f.confirm(t, paid)

	released, err = f.svc.ReleaseUnpaid(ctx, paid.ID, "cs_paid", "payment session expired")
	require.NoError(t, err)
	assert.False(t, released)
	released, err = f.svc.ReleaseUnpaid(ctx, paid.ID, "", "payment cancelled by user")
	require.NoError(t, err)
	assert.False(t, released)

	got, _, err = f.svc.GetWithPayment(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestComplete(t *testing.T) {
	f := newFixture(t)
	f.addSlot("2026-03-04", "18:00", "19:00")
	f.addSlot("2026-03-04", "19:00", "20:00")
	b := f.confirm(t, f.reserve(t, "2026-03-04", "18:00", "19:00"))
	later := f.confirm(t, f.reserve(t, "2026-03-04", "19:00", "20:00"))
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotEnded)

	f.clock.Set(time.Date(2026, 3, 4, 19, 30, 0, 0, time.UTC))
	completed, err := f.svc.CompleteEnded(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	got, _, err := f.svc.GetWithPayment(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	again, err := f.svc.Complete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, again.Status)

	pending, _, err := f.svc.GetWithPayment(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, pending.Status)
}

func TestGetByID_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.addSlot("2026-03-04", "18:00", "19:00")
	b := f.reserve(t, "2026-03-04", "18:00", "19:00")
	ctx := context.Background()

	resp, err := f.svc.GetByID(ctx, b.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", resp.BookingDate)
	require.NotNil(t, resp.Payment)
	assert.Equal(t, "pending", resp.Payment.Status)

	_, err = f.svc.GetByID(ctx, b.ID, otherID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(ctx, 999, ownerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetUserBookings(t *testing.T) {
	f := newFixture(t)
	f.addSlot("2026-03-04", "18:00", "19:00")
	f.addSlot("2026-03-05", "18:00", "19:00")
	f.confirm(t, f.reserve(t, "2026-03-04", "18:00", "19:00"))
	f.reserve(t, "2026-03-05", "18:00", "19:00")
	ctx := context.Background()

	all, err := f.svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{UserID: ownerID, RequesterID: ownerID})
	require.NoError(t, err)
	assert.Len(t, all.Bookings, 2)

	confirmed, err := f.svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{UserID: ownerID, RequesterID: ownerID, Status: ptr.Ptr("confirmed")})
	require.NoError(t, err)
	require.Len(t, confirmed.Bookings, 1)
	assert.Equal(t, "2026-03-04", confirmed.Bookings[0].BookingDate)

	_, err = f.svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{UserID: ownerID, RequesterID: ownerID, Status: ptr.Ptr("bogus")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GetUserBookings(ctx, &models.GetUserBookingsRequest{UserID: ownerID, RequesterID: otherID})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
