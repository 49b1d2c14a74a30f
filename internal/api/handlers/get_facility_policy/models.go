package get_facility_policy

import (
	"strconv"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy/models"
)

// ParseCourtID разбирает опциональный параметр courtId
func ParseCourtID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// GetDefaultPolicyResponse политика без сборов, действующая при отсутствии настроек
func GetDefaultPolicyResponse(facilityID int64, courtID *int64) *models.PolicyResponse {
	return &models.PolicyResponse{
		FacilityID: facilityID,
		CourtID:    courtID,
	}
}
