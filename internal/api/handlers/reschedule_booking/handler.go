package reschedule_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	modifyBooking "github.com/m04kA/SMC-CourtBookingService/internal/usecase/modify_booking"
)

const (
	msgRequestFailed = "запрос не может быть выполнен"

	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgSlotNotFound       = "новый слот не найден"
	msgForbidden          = "доступ запрещен"
	msgSlotNotAvailable   = "новый слот недоступен"
	msgNotConfirmed       = "перенести можно только подтвержденное бронирование"
	msgSameSlot           = "новый слот совпадает с текущим"
	msgModificationWindow = "до начала бронирования осталось слишком мало времени для переноса"
	msgDateOutOfRange     = "новая дата вне допустимого диапазона"
)

type Handler struct {
	useCase ModifyBookingUseCase
	logger  Logger
}

func NewHandler(useCase ModifyBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, userID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrSlotNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - New slot not found: booking_id=%d, date=%s, start=%s",
				bookingID, req.NewDate, req.NewStartTime)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - New slot not available: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, bookings.ErrAlreadyFinalized):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not confirmed: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotConfirmed)

		case errors.Is(err, bookings.ErrSameSlot):
			handlers.RespondBadRequest(w, msgSameSlot)

		case errors.Is(err, modifyBooking.ErrModificationWindow):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Inside modification window: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgModificationWindow)

		case errors.Is(err, modifyBooking.ErrDateOutOfRange):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Date out of range: booking_id=%d, date=%s", bookingID, req.NewDate)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgDateOutOfRange)

		case errors.Is(err, modifyBooking.ErrInvalidInput), errors.Is(err, bookings.ErrInvalidTimeRange):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateOrTime)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed to reschedule: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondDomainError(w, err, msgRequestFailed)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: booking_id=%d, slot_id=%d", bookingID, result.SlotID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
