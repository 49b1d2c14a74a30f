package generate_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	generateSlots "github.com/m04kA/SMC-CourtBookingService/internal/usecase/generate_slots"
)

const (
	msgInvalidCourtID     = "некорректный ID корта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgCourtNotFound      = "корт не найден"
	msgFacilityClosed     = "объект не работает в выбранный день недели"
	msgEmptyWindow        = "в выбранное окно не помещается ни один слот"
	msgInvalidInput       = "некорректные параметры генерации"
	msgSlotsBooked        = "среди заменяемых слотов есть забронированные"
)

type Handler struct {
	useCase GenerateSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GenerateSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/courts/{courtId}/slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathInt64(r, "courtId")
	if err != nil {
		h.logger.Warn("PUT /courts/{id}/slots/generate - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /courts/{id}/slots/generate - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /courts/{id}/slots/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, courtID)
	if err != nil {
		h.logger.Warn("PUT /courts/{id}/slots/generate - Invalid window time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *generateSlots.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("PUT /courts/{id}/slots/generate - Booked slots block regeneration: court_id=%d, conflicts=%d",
				courtID, len(conflict.Conflicts))
			handlers.RespondJSON(w, http.StatusConflict, FromConflictError(http.StatusConflict, msgSlotsBooked, conflict))

		case errors.Is(err, generateSlots.ErrAccessDenied):
			h.logger.Warn("PUT /courts/{id}/slots/generate - Access denied: court_id=%d, user_id=%d", courtID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, generateSlots.ErrCourtNotFound):
			h.logger.Warn("PUT /courts/{id}/slots/generate - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, generateSlots.ErrFacilityClosed):
			h.logger.Warn("PUT /courts/{id}/slots/generate - Facility closed: court_id=%d, day=%d", courtID, *req.DayOfWeek)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgFacilityClosed)

		case errors.Is(err, generateSlots.ErrEmptyWindow):
			h.logger.Warn("PUT /courts/{id}/slots/generate - Empty window: court_id=%d", courtID)
			handlers.RespondBadRequest(w, msgEmptyWindow)

		case errors.Is(err, generateSlots.ErrInvalidInput):
			h.logger.Warn("PUT /courts/{id}/slots/generate - Invalid input: court_id=%d, error=%v", courtID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, generateSlots.ErrSlotsBooked):
			h.logger.Warn("PUT /courts/{id}/slots/generate - Booked slots: court_id=%d", courtID)
			handlers.RespondConflict(w, msgSlotsBooked)

		default:
			h.logger.Error("PUT /courts/{id}/slots/generate - Failed to generate slots: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /courts/{id}/slots/generate - Slots generated: court_id=%d, day=%s, created=%d, replaced=%d",
		courtID, result.DayOfWeek, result.Created, result.Replaced)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
