package update_facility_policy

import (
	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy/models"
)

// UpdatePolicyRequest HTTP request model
// courtId не указан - политика уровня объекта
type UpdatePolicyRequest struct {
	CourtID               *int64 `json:"courtId,omitempty" validate:"omitempty,gt=0"`
	CancellationFeeBps    *int64 `json:"cancellationFeeBps,omitempty" validate:"omitempty,min=0,max=10000"`
	CancellationFlatFee   *int64 `json:"cancellationFlatFee,omitempty" validate:"omitempty,min=0"`
	FreeCancellationHours *int   `json:"freeCancellationHours,omitempty" validate:"omitempty,min=0"`
	ModificationFee       *int64 `json:"modificationFee,omitempty" validate:"omitempty,min=0"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdatePolicyRequest) ToServiceRequest(userID, facilityID int64) *models.UpsertPolicyRequest {
	return &models.UpsertPolicyRequest{
		UserID:                userID,
		FacilityID:            facilityID,
		CourtID:               r.CourtID,
		CancellationFeeBps:    r.CancellationFeeBps,
		CancellationFlatFee:   r.CancellationFlatFee,
		FreeCancellationHours: r.FreeCancellationHours,
		ModificationFee:       r.ModificationFee,
	}
}
