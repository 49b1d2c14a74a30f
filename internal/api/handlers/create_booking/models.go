package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-CourtBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CourtID     int64   `json:"courtId" validate:"required,gt=0"`
	BookingDate string  `json:"bookingDate" validate:"required"` // "2026-03-04"
	StartTime   string  `json:"startTime" validate:"required"`   // "18:00"
	EndTime     string  `json:"endTime" validate:"required"`     // "19:00"
	CouponCode  *string `json:"couponCode,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	date, err := handlers.ParseDate(r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("bookingDate: %w", err)
	}

	start, err := handlers.ParseTime(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	end, err := handlers.ParseTime(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("endTime: %w", err)
	}

	return &createBooking.Request{
		UserID:     userID,
		CourtID:    r.CourtID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		CouponCode: r.CouponCode,
	}, nil
}
