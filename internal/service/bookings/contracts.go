package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricing"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Acquire(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error)
	AttachBooking(ctx context.Context, slotID, bookingID int64) error
	Release(ctx context.Context, slotID, bookingID int64) error
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	GetByPublicID(ctx context.Context, publicID string) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, afterID int64, limit int) ([]*domain.Booking, error)
	ListConfirmedEndedBefore(ctx context.Context, localNow time.Time, limit int) ([]*domain.Booking, error)
	MarkConfirmed(ctx context.Context, id int64, at time.Time) error
	MarkCompleted(ctx context.Context, id int64, at time.Time) error
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, info booking.CancelInfo) error
	Reschedule(ctx context.Context, id int64, info booking.RescheduleInfo) error
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	GetByBookingIDForUpdate(ctx context.Context, bookingID int64) (*domain.Payment, error)
	MarkCompleted(ctx context.Context, bookingID int64, transactionID *string, at time.Time) error
	MarkCancelled(ctx context.Context, bookingID int64) error
}

// CouponRepository интерфейс учета использований купонов
type CouponRepository interface {
	IncrementUsage(ctx context.Context, code string, userID, bookingID int64) error
	DecrementUsage(ctx context.Context, code string, bookingID int64) error
}

// CourtRepository интерфейс чтения кортов
type CourtRepository interface {
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
}

// PriceQuoter интерфейс движка ценообразования
type PriceQuoter interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) (*pricing.Quote, error)
}

// CancellationFeePolicy политика удержания при отмене
type CancellationFeePolicy interface {
	CancellationFee(ctx context.Context, booking *domain.Booking, now time.Time) (int64, error)
}

// ModificationFeeSchedule расписание платы за перенос
type ModificationFeeSchedule interface {
	ModificationFee(ctx context.Context, booking *domain.Booking, from, to *domain.TimeSlot) (int64, error)
}

// AuditSink получатель событий переходов; не должен блокировать вызывающего
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent)
}

// SnapshotPublisher передает снимок бронирования генератору чеков
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snapshot domain.BookingSnapshot)
}

// MetricsRecorder интерфейс учета переходов
type MetricsRecorder interface {
	RecordTransition(from, to string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
