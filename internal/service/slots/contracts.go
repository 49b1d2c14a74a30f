package slots

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// SlotRepository интерфейс блокировки слотов
type SlotRepository interface {
	Block(ctx context.Context, slotID int64, reason string) (*domain.TimeSlot, error)
	Unblock(ctx context.Context, slotID int64) (*domain.TimeSlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
