package get_available_slots

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

func TestExecute_TagsSlotStates(t *testing.T) {
	store := memory.NewStore()
	store.AddCourt(domain.Court{ID: 1, FacilityID: 10, PricePerHour: 50000, IsActive: true})

	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	slot := func(start, end string) domain.TimeSlot {
		return domain.TimeSlot{CourtID: 1, Date: day, StartTime: types.MustTimeString(start), EndTime: types.MustTimeString(end), PricePerHour: 50000}
	}

	s3 := slot("20:00", "21:00")
	s3.IsBlocked = true
	s3.BlockReason = ptr.Ptr("lights broken")
	store.AddSlot(s3)

	s2 := slot("19:00", "20:00")
	s2.IsBooked = true
	s2.BookingID = ptr.Ptr(int64(5))
	store.AddSlot(s2)

	store.AddSlot(slot("18:00", "19:00"))
	store.AddSlot(domain.TimeSlot{CourtID: 1, Date: day.AddDate(0, 0, 1), StartTime: types.MustTimeString("18:00"), EndTime: types.MustTimeString("19:00")})

	uc := NewUseCase(store.Facilities(), store.Slots(), logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: day.Add(15 * time.Hour)})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-04", resp.Date)
	require.Len(t, resp.Slots, 3)

	assert.Equal(t, "18:00", resp.Slots[0].StartTime)
	assert.Equal(t, domain.SlotAvailable, resp.Slots[0].State)

	assert.Equal(t, "19:00", resp.Slots[1].StartTime)
	assert.Equal(t, domain.SlotBooked, resp.Slots[1].State)
	assert.Nil(t, resp.Slots[1].BlockReason)

	assert.Equal(t, domain.SlotBlocked, resp.Slots[2].State)
	require.NotNil(t, resp.Slots[2].BlockReason)
	assert.Equal(t, "lights broken", *resp.Slots[2].BlockReason)
}

func TestExecute_EmptyDay(t *testing.T) {
	store := memory.NewStore()
	store.AddCourt(domain.Court{ID: 1, FacilityID: 10, IsActive: true})

	uc := NewUseCase(store.Facilities(), store.Slots(), logger.NewNop())
	resp, err := uc.Execute(context.Background(), &Request{CourtID: 1, Date: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	store := memory.NewStore()
	uc := NewUseCase(store.Facilities(), store.Slots(), logger.NewNop())
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{CourtID: 1, Date: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrCourtNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Execute(ctx, &Request{CourtID: 1})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(ctx, &Request{CourtID: 0, Date: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
