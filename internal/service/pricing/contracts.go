package pricing

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// CouponRepository интерфейс хранилища купонов
type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	CountUserUsage(ctx context.Context, couponID, userID int64) (int, error)
	CountPendingHolds(ctx context.Context, code string, userID int64) (int, int, error)
}

// SlotReader интерфейс чтения слотов для предварительного расчета
type SlotReader interface {
	GetByKey(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error)
}

// PolicyRepository интерфейс хранилища политик сборов площадок
type PolicyRepository interface {
	GetWithHierarchy(ctx context.Context, facilityID int64, courtID *int64) (*domain.FacilityPolicy, error)
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
