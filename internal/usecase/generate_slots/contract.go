package generate_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// CourtRepository интерфейс чтения кортов и часов работы
type CourtRepository interface {
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
	GetOperatingHours(ctx context.Context, facilityID int64, day time.Weekday) (*domain.OperatingHours, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// ListByCourtAndDatesForUpdate блокирует существующие слоты корта на указанные даты
	ListByCourtAndDatesForUpdate(ctx context.Context, courtID int64, dates []time.Time) ([]*domain.TimeSlot, error)
	DeleteByIDs(ctx context.Context, ids []int64) error
	InsertBatch(ctx context.Context, slots []*domain.TimeSlot) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
