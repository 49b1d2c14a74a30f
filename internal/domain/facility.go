package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Court is a bookable playing surface of a facility
type Court struct {
	ID           int64
	FacilityID   int64
	Name         string
	SportType    string
	PricePerHour int64
	Capacity     int
	IsActive     bool
}

// OperatingHours is the opening window of a facility for one weekday
type OperatingHours struct {
	FacilityID int64
	DayOfWeek  time.Weekday
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	IsClosed   bool
}

// IsOpen returns true if the facility accepts bookings on that weekday
func (h *OperatingHours) IsOpen() bool {
	return !h.IsClosed && !h.OpenTime.IsZero() && !h.CloseTime.IsZero() && h.OpenTime.IsBefore(h.CloseTime)
}
