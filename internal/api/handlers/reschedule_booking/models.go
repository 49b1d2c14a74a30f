package reschedule_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	modifyBooking "github.com/m04kA/SMC-CourtBookingService/internal/usecase/modify_booking"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	NewDate      string `json:"newDate" validate:"required"`      // "2026-03-10"
	NewStartTime string `json:"newStartTime" validate:"required"` // "18:00"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(bookingID, userID int64) (*modifyBooking.Request, error) {
	date, err := handlers.ParseDate(r.NewDate)
	if err != nil {
		return nil, fmt.Errorf("newDate: %w", err)
	}
	start, err := handlers.ParseTime(r.NewStartTime)
	if err != nil {
		return nil, fmt.Errorf("newStartTime: %w", err)
	}

	return &modifyBooking.Request{
		BookingID:    bookingID,
		UserID:       userID,
		NewDate:      date,
		NewStartTime: start,
	}, nil
}
