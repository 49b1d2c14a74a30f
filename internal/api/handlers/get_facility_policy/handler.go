package get_facility_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy"
)

const (
	msgInvalidFacilityID = "некорректный ID объекта"
	msgInvalidCourtID    = "некорректный ID корта"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/facilities/{facilityId}/policy
// Query params: courtId (опционально) - вернуть политику, действующую для корта
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	facilityID, err := handlers.PathInt64(r, "facilityId")
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/policy - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	courtID, err := ParseCourtID(r.URL.Query().Get("courtId"))
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/policy - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	if courtID == nil {
		list, err := h.service.GetAllByFacility(r.Context(), facilityID)
		if err != nil {
			h.logger.Error("GET /facilities/{id}/policy - Failed to get policies: facility_id=%d, error=%v", facilityID, err)
			handlers.RespondInternalError(w)
			return
		}

		h.logger.Info("GET /facilities/{id}/policy - Policies retrieved: facility_id=%d, count=%d", facilityID, len(list.Policies))
		handlers.RespondJSON(w, http.StatusOK, list)
		return
	}

	result, err := h.service.GetEffective(r.Context(), facilityID, courtID)
	if err != nil {
		// Без настроенной политики сборов нет
		if errors.Is(err, policy.ErrPolicyNotFound) {
			h.logger.Info("GET /facilities/{id}/policy - Policy not found, returning defaults: facility_id=%d, court_id=%d",
				facilityID, *courtID)
			handlers.RespondJSON(w, http.StatusOK, GetDefaultPolicyResponse(facilityID, courtID))
			return
		}

		h.logger.Error("GET /facilities/{id}/policy - Failed to get policy: facility_id=%d, error=%v", facilityID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /facilities/{id}/policy - Policy retrieved: facility_id=%d, policy_id=%d", facilityID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
