package get_facility_policy

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy/models"
)

type PolicyService interface {
	GetAllByFacility(ctx context.Context, facilityID int64) (*models.PolicyListResponse, error)
	GetEffective(ctx context.Context, facilityID int64, courtID *int64) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
