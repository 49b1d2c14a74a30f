package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:          1,
		CourtID:     2,
		FacilityID:  10,
		Status:      domain.StatusConfirmed,
		BookingDate: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:   types.MustTimeString("18:00"),
		EndTime:     types.MustTimeString("19:00"),
		FinalAmount: 60000,
	}
}

func TestNoFees(t *testing.T) {
	ctx := context.Background()

	fee, err := NoFees{}.CancellationFee(ctx, confirmedBooking(), now)
	require.NoError(t, err)
	assert.Zero(t, fee)

	fee, err = NoFees{}.ModificationFee(ctx, confirmedBooking(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, fee)
}

func TestFacilityFees(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	courtID := int64(2)

	_, err := store.Policies().Create(ctx, &domain.FacilityPolicy{
		FacilityID:            10,
		CancellationFeeBps:    2500,
		FreeCancellationHours: 24,
		ModificationFee:       1000,
	})
	require.NoError(t, err)

	fees := NewFacilityFees(store.Policies(), time.UTC)
	booking := confirmedBooking()
	startsAt := time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC)

	t.Run("free before the window", func(t *testing.T) {
		fee, err := fees.CancellationFee(ctx, booking, startsAt.Add(-48*time.Hour))
		require.NoError(t, err)
		assert.Zero(t, fee)
	})

	t.Run("late cancellation keeps a share", func(t *testing.T) {
		fee, err := fees.CancellationFee(ctx, booking, startsAt.Add(-3*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(15000), fee)
	})

	t.Run("pending booking is never charged", func(t *testing.T) {
		pending := confirmedBooking()
		pending.Status = domain.StatusPending
		fee, err := fees.CancellationFee(ctx, pending, startsAt.Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, fee)
	})

	t.Run("facility modification fee", func(t *testing.T) {
		fee, err := fees.ModificationFee(ctx, booking, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), fee)
	})

	t.Run("court policy overrides facility policy", func(t *testing.T) {
		_, err := store.Policies().Create(ctx, &domain.FacilityPolicy{
			FacilityID:            10,
			CourtID:               &courtID,
			CancellationFlatFee:   100000,
			FreeCancellationHours: 48,
		})
		require.NoError(t, err)

		fee, err := fees.ModificationFee(ctx, booking, nil, nil)
		require.NoError(t, err)
		assert.Zero(t, fee)

		fee, err = fees.CancellationFee(ctx, booking, startsAt.Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, booking.FinalAmount, fee, "fee never exceeds the amount paid")
	})

	t.Run("no policy means no fees", func(t *testing.T) {
		other := confirmedBooking()
		other.FacilityID = 99
		fee, err := fees.CancellationFee(ctx, other, startsAt.Add(-time.Hour))
		require.NoError(t, err)
		assert.Zero(t, fee)
	})
}
