package block_slot

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

type SlotService interface {
	Block(ctx context.Context, slotID, userID int64, reason string) (*domain.TimeSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
