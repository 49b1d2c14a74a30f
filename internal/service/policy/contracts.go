package policy

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// PolicyRepository интерфейс репозитория политик сборов
type PolicyRepository interface {
	Create(ctx context.Context, policy *domain.FacilityPolicy) (*domain.FacilityPolicy, error)
	GetByFacilityAndCourt(ctx context.Context, facilityID int64, courtID *int64) (*domain.FacilityPolicy, error)
	GetWithHierarchy(ctx context.Context, facilityID int64, courtID *int64) (*domain.FacilityPolicy, error)
	GetAllByFacility(ctx context.Context, facilityID int64) ([]*domain.FacilityPolicy, error)
	Update(ctx context.Context, id int64, policy *domain.FacilityPolicy) (*domain.FacilityPolicy, error)
}

// CourtRepository интерфейс чтения кортов
type CourtRepository interface {
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
