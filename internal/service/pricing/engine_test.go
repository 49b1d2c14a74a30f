package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newEngine(t *testing.T) (*Engine, *memory.Store) {
	t.Helper()

	store := memory.NewStore().WithClock(func() time.Time { return now })
	store.AddSlot(domain.TimeSlot{
		CourtID:      1,
		Date:         time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:    types.MustTimeString("18:00"),
		EndTime:      types.MustTimeString("19:00"),
		PricePerHour: 50000,
	})
	store.AddCoupon(domain.Coupon{
		Code:              "WELCOME20",
		DiscountType:      domain.DiscountPercentage,
		DiscountValue:     20,
		MaxDiscountAmount: ptr.Ptr[int64](8000),
		UserUsageLimit:    ptr.Ptr(1),
		ValidFrom:         now.AddDate(0, 0, -1),
		ValidUntil:        now.AddDate(0, 1, 0),
		IsActive:          true,
	})
	store.AddCoupon(domain.Coupon{
		Code:          "OLD",
		DiscountType:  domain.DiscountFixedAmount,
		DiscountValue: 1000,
		ValidFrom:     now.AddDate(0, -2, 0),
		ValidUntil:    now.AddDate(0, -1, 0),
		IsActive:      true,
	})

	policy := domain.DefaultPolicy()
	policy.Location = time.UTC

	engine := NewEngine(store.Coupons(), store.Slots(), policy, logger.NewNop()).WithTimeProvider(fixedClock{now})
	return engine, store
}

func TestEngine_Quote(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	t.Run("without coupon", func(t *testing.T) {
		q, err := engine.Quote(ctx, QuoteRequest{PricePerHour: 50000, Minutes: 60, UserID: 7})
		require.NoError(t, err)
		assert.Equal(t, int64(60770), q.FinalAmount)
		assert.Equal(t, domain.DefaultCurrency, q.Currency)
		assert.Nil(t, q.CouponCode())
	})

	t.Run("coupon code is trimmed and case-insensitive", func(t *testing.T) {
		q, err := engine.Quote(ctx, QuoteRequest{PricePerHour: 50000, Minutes: 60, UserID: 7, CouponCode: ptr.Ptr("  welcome20 ")})
		require.NoError(t, err)
		assert.Equal(t, int64(8000), q.DiscountAmount)
		assert.Equal(t, int64(52770), q.FinalAmount)
		require.NotNil(t, q.CouponCode())
		assert.Equal(t, "WELCOME20", *q.CouponCode())
	})

	t.Run("blank coupon is ignored", func(t *testing.T) {
		q, err := engine.Quote(ctx, QuoteRequest{PricePerHour: 50000, Minutes: 60, UserID: 7, CouponCode: ptr.Ptr("   ")})
		require.NoError(t, err)
		assert.Zero(t, q.DiscountAmount)
	})

	t.Run("unknown coupon", func(t *testing.T) {
		_, err := engine.Quote(ctx, QuoteRequest{PricePerHour: 50000, Minutes: 60, UserID: 7, CouponCode: ptr.Ptr("NOPE")})
		assert.ErrorIs(t, err, ErrCouponNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("expired coupon", func(t *testing.T) {
		_, err := engine.Quote(ctx, QuoteRequest{PricePerHour: 50000, Minutes: 60, UserID: 7, CouponCode: ptr.Ptr("OLD")})
		assert.ErrorIs(t, err, domain.ErrCouponExpired)
		assert.ErrorIs(t, err, domain.ErrPolicyViolation)
	})
}

func TestEngine_Quote_UserLimit(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	require.NoError(t, store.Coupons().IncrementUsage(ctx, "WELCOME20", 7, 100))

	_, err := engine.Quote(ctx, QuoteRequest{PricePerHour: 50000, Minutes: 60, UserID: 7, CouponCode: ptr.Ptr("WELCOME20")})
	assert.ErrorIs(t, err, domain.ErrCouponUserLimit)

	q, err := engine.Quote(ctx, QuoteRequest{PricePerHour: 50000, Minutes: 60, UserID: 8, CouponCode: ptr.Ptr("WELCOME20")})
	require.NoError(t, err)
	assert.Equal(t, int64(52770), q.FinalAmount)
}

func TestEngine_QuoteSlot(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()

	q, err := engine.QuoteSlot(ctx, SlotQuoteRequest{
		CourtID:   1,
		Date:      time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime: types.MustTimeString("18:00"),
		UserID:    7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50000), q.BaseAmount)
	assert.Equal(t, int64(60770), q.FinalAmount)
	require.NotNil(t, q.Slot)
	assert.Equal(t, types.MustTimeString("19:00"), q.Slot.EndTime)

	_, err = engine.QuoteSlot(ctx, SlotQuoteRequest{
		CourtID:   1,
		Date:      time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime: types.MustTimeString("07:00"),
	})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestEngine_Quote_PendingHolds(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	_, err := store.Bookings().Create(ctx, &domain.Booking{
		UserID:            7,
		CourtID:           1,
		Status:            domain.StatusPending,
		AppliedCouponCode: ptr.Ptr("WELCOME20"),
	})
	require.NoError(t, err)

	_, err = engine.Quote(ctx, QuoteRequest{PricePerHour: 50000, Minutes: 60, UserID: 7, CouponCode: ptr.Ptr("WELCOME20")})
	assert.ErrorIs(t, err, domain.ErrCouponUserLimit)

	q, err := engine.Quote(ctx, QuoteRequest{PricePerHour: 50000, Minutes: 60, UserID: 8, CouponCode: ptr.Ptr("WELCOME20")})
	require.NoError(t, err)
	assert.Equal(t, int64(8000), q.DiscountAmount)
}
