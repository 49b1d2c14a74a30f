package unblock_slot

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

type SlotService interface {
	Unblock(ctx context.Context, slotID, userID int64) (*domain.TimeSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
