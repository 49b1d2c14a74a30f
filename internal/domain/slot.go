package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// SlotAvailability is the projected state of a slot
type SlotAvailability string

const (
	SlotAvailable SlotAvailability = "available"
	SlotBooked    SlotAvailability = "booked"
	SlotBlocked   SlotAvailability = "blocked"
)

// TimeSlot is a bookable interval of one court on one date.
// (CourtID, Date, StartTime) is unique.
type TimeSlot struct {
	ID           int64
	CourtID      int64
	Date         time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	PricePerHour int64
	IsBooked     bool
	IsBlocked    bool
	BlockReason  *string
	BookingID    *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Availability projects the slot flags onto a single state
func (s *TimeSlot) Availability() SlotAvailability {
	switch {
	case s.IsBooked:
		return SlotBooked
	case s.IsBlocked:
		return SlotBlocked
	default:
		return SlotAvailable
	}
}

// IsAvailable returns true if the slot can be reserved
func (s *TimeSlot) IsAvailable() bool {
	return !s.IsBooked && !s.IsBlocked
}

// DurationMinutes returns the slot length
func (s *TimeSlot) DurationMinutes() (int, error) {
	return s.StartTime.MinutesUntil(s.EndTime)
}

// StartsAt returns the absolute start of the slot
func (s *TimeSlot) StartsAt(loc *time.Location) (time.Time, error) {
	return s.StartTime.On(s.Date, loc)
}

// SlotKey identifies a slot by its natural key
type SlotKey struct {
	CourtID   int64
	Date      time.Time
	StartTime types.TimeString
}

// SlotWindow is a [StartTime, EndTime) interval produced by the slot generator
type SlotWindow struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// SlotConflict describes an existing booked slot that blocks regeneration
type SlotConflict struct {
	SlotID    int64
	Date      time.Time
	StartTime types.TimeString
	BookingID *int64
}
