package generate_slots

import (
	"context"
	"errors"
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

const adminID = 900

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// Понедельник, 2 марта 2026
var monday = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func setup(t *testing.T) (*UseCase, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	store.AddCourt(domain.Court{ID: 1, FacilityID: 10, Name: "Court 1", PricePerHour: 50000, IsActive: true})
	for day := time.Sunday; day <= time.Saturday; day++ {
		store.SetOperatingHours(domain.OperatingHours{
			FacilityID: 10,
			DayOfWeek:  day,
			OpenTime:   types.MustTimeString("06:00"),
			CloseTime:  types.MustTimeString("22:00"),
			IsClosed:   day == time.Sunday,
		})
	}

	policy := domain.DefaultPolicy()
	policy.Location = time.UTC
	uc := NewUseCase(store.Facilities(), store.Slots(), memory.NewTxManager(store), policy,
		domain.NewAdmins([]int64{adminID}), logger.NewNop()).
		WithTimeProvider(fixedClock{now: monday})
	return uc, store
}

func TestGenerateWindows(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		duration int
		want     []string
	}{
		{name: "exact fit", start: "08:00", end: "10:00", duration: 60, want: []string{"08:00-09:00", "09:00-10:00"}},
		{name: "tail dropped", start: "08:00", end: "10:30", duration: 60, want: []string{"08:00-09:00", "09:00-10:00"}},
		{name: "shorter than duration", start: "08:00", end: "08:45", duration: 60, want: []string{}},
		{name: "until midnight", start: "22:30", end: "24:00", duration: 45, want: []string{"22:30-23:15", "23:15-24:00"}},
		{name: "odd duration", start: "06:00", end: "07:30", duration: 25, want: []string{"06:00-06:25", "06:25-06:50", "06:50-07:15"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := GenerateWindows(types.MustTimeString(tt.start), types.MustTimeString(tt.end), tt.duration)
			require.NoError(t, err)

			got := make([]string, 0, len(windows))
			for _, w := range windows {
				got = append(got, w.StartTime.String()+"-"+w.EndTime.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateWindows_InvalidDuration(t *testing.T) {
	_, err := GenerateWindows(types.MustTimeString("08:00"), types.MustTimeString("10:00"), 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTargetDates(t *testing.T) {
	dates := targetDates(date("2026-03-02"), 30, time.Wednesday)

	require.Len(t, dates, 5)
	assert.Equal(t, date("2026-03-04"), dates[0])
	assert.Equal(t, date("2026-04-01"), dates[4])

	dates = targetDates(date("2026-03-02"), 0, time.Monday)
	assert.Equal(t, []time.Time{date("2026-03-02")}, dates)
}

func TestExecute_CreatesSlotsAcrossHorizon(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, &Request{
		UserID:              adminID,
		CourtID:             1,
		DayOfWeek:           time.Wednesday,
		SlotDurationMinutes: 60,
	})
	require.NoError(t, err)

	assert.Len(t, resp.Dates, 5)
	assert.Len(t, resp.Windows, 16)
	assert.Equal(t, 80, resp.Created)
	assert.Equal(t, int64(50000), resp.PricePerHour)

	slots, err := store.Slots().ListByCourtAndDate(ctx, 1, date("2026-03-11"))
	require.NoError(t, err)
	require.Len(t, slots, 16)
	assert.Equal(t, "06:00", slots[0].StartTime.String())
	assert.Equal(t, "22:00", slots[15].EndTime.String())
	for _, s := range slots {
		assert.True(t, s.IsAvailable())
	}
}

func TestExecute_WindowAndPriceOverride(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, &Request{
		UserID:              adminID,
		CourtID:             1,
		DayOfWeek:           time.Tuesday,
		SlotDurationMinutes: 60,
		PricePerHour:        ptr.Ptr(int64(70000)),
		WindowStart:         ptr.Ptr(types.MustTimeString("05:00")),
		WindowEnd:           ptr.Ptr(types.MustTimeString("08:30")),
	})
	require.NoError(t, err)
	require.Len(t, resp.Windows, 2)
	assert.Equal(t, "06:00", resp.Windows[0].StartTime.String())

	slots, err := store.Slots().ListByCourtAndDate(ctx, 1, date("2026-03-03"))
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, int64(70000), slots[0].PricePerHour)
}

func TestExecute_ReplacesFreeSlots(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	store.AddSlot(domain.TimeSlot{CourtID: 1, Date: date("2026-03-11"), StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("09:30"), PricePerHour: 1})
	store.AddSlot(domain.TimeSlot{CourtID: 1, Date: date("2026-03-11"), StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("10:30"), IsBlocked: true, BlockReason: ptr.Ptr("repairs")})

	resp, err := uc.Execute(ctx, &Request{UserID: adminID, CourtID: 1, DayOfWeek: time.Wednesday, SlotDurationMinutes: 120})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Replaced)

	slots, err := store.Slots().ListByCourtAndDate(ctx, 1, date("2026-03-11"))
	require.NoError(t, err)
	require.Len(t, slots, 8)
	for _, s := range slots {
		assert.False(t, s.IsBlocked)
		assert.Equal(t, int64(50000), s.PricePerHour)
	}
}

func TestExecute_BookedSlotsConflict(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	free := store.AddSlot(domain.TimeSlot{CourtID: 1, Date: date("2026-03-04"), StartTime: types.MustTimeString("08:00"), EndTime: types.MustTimeString("09:00")})
	booked := store.AddSlot(domain.TimeSlot{CourtID: 1, Date: date("2026-03-18"), StartTime: types.MustTimeString("18:00"), EndTime: types.MustTimeString("19:00"), IsBooked: true, BookingID: ptr.Ptr(int64(77))})

	_, err := uc.Execute(ctx, &Request{UserID: adminID, CourtID: 1, DayOfWeek: time.Wednesday, SlotDurationMinutes: 60})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotsBooked)
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, booked.ID, conflict.Conflicts[0].SlotID)
	assert.Equal(t, int64(77), *conflict.Conflicts[0].BookingID)

	// Ничего не изменилось
	slots, err := store.Slots().ListByCourtAndDate(ctx, 1, date("2026-03-04"))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, free.ID, slots[0].ID)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "not admin", req: Request{UserID: 5, CourtID: 1, DayOfWeek: time.Monday, SlotDurationMinutes: 60}, wantErr: ErrAccessDenied},
		{name: "closed day", req: Request{UserID: adminID, CourtID: 1, DayOfWeek: time.Sunday, SlotDurationMinutes: 60}, wantErr: ErrFacilityClosed},
		{name: "unknown court", req: Request{UserID: adminID, CourtID: 99, DayOfWeek: time.Monday, SlotDurationMinutes: 60}, wantErr: ErrCourtNotFound},
		{name: "duration too short", req: Request{UserID: adminID, CourtID: 1, DayOfWeek: time.Monday, SlotDurationMinutes: 10}, wantErr: ErrInvalidInput},
		{name: "bad weekday", req: Request{UserID: adminID, CourtID: 1, DayOfWeek: 7, SlotDurationMinutes: 60}, wantErr: ErrInvalidInput},
		{name: "negative price", req: Request{UserID: adminID, CourtID: 1, DayOfWeek: time.Monday, SlotDurationMinutes: 60, PricePerHour: ptr.Ptr(int64(-1))}, wantErr: ErrInvalidInput},
		{
			name: "window outside hours",
			req: Request{UserID: adminID, CourtID: 1, DayOfWeek: time.Monday, SlotDurationMinutes: 60,
				WindowStart: ptr.Ptr(types.MustTimeString("22:00")), WindowEnd: ptr.Ptr(types.MustTimeString("23:00"))},
			wantErr: ErrEmptyWindow,
		},
		{
			name: "window shorter than slot",
			req: Request{UserID: adminID, CourtID: 1, DayOfWeek: time.Monday, SlotDurationMinutes: 90,
				WindowStart: ptr.Ptr(types.MustTimeString("10:00")), WindowEnd: ptr.Ptr(types.MustTimeString("11:00"))},
			wantErr: ErrEmptyWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := setup(t)
			req := tt.req
			_, err := uc.Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
