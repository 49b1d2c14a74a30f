package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// CourtRepository интерфейс чтения кортов
type CourtRepository interface {
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
}

// SlotRepository интерфейс чтения слотов
type SlotRepository interface {
	// ListByCourtAndDate возвращает слоты корта на дату, упорядоченные по времени начала
	ListByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.TimeSlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
