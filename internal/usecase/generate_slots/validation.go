package generate_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// validateRequest валидирует входные данные генерации
func validateRequest(req *Request) error {
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: court id must be positive", ErrInvalidInput)
	}
	if req.DayOfWeek < time.Sunday || req.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day of week must be in 0..6", ErrInvalidInput)
	}
	if req.SlotDurationMinutes < domain.MinSlotDurationMinutes || req.SlotDurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidInput, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}
	if req.PricePerHour != nil && *req.PricePerHour < 0 {
		return fmt.Errorf("%w: price per hour must not be negative", ErrInvalidInput)
	}
	if req.WindowStart != nil {
		if err := req.WindowStart.Validate(); err != nil {
			return fmt.Errorf("%w: window start: %v", ErrInvalidInput, err)
		}
	}
	if req.WindowEnd != nil {
		if err := req.WindowEnd.Validate(); err != nil {
			return fmt.Errorf("%w: window end: %v", ErrInvalidInput, err)
		}
	}
	if req.WindowStart != nil && req.WindowEnd != nil && !req.WindowStart.IsBefore(*req.WindowEnd) {
		return fmt.Errorf("%w: window end must be after window start", ErrInvalidInput)
	}
	return nil
}
