package payment_success

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/payments"
)

const (
	msgRequestFailed = "запрос не может быть выполнен"

	msgInvalidBookingID   = "некорректный ID бронирования"
	msgNotFound           = "бронирование не найдено"
	msgSessionMismatch    = "сессия оплаты не относится к бронированию"
	msgPaymentNotComplete = "оплата еще не завершена"
	msgAlreadyFinalized   = "бронирование уже отменено"
	msgAmountMismatch     = "сумма оплаты не совпадает с суммой бронирования"
	msgGatewayError       = "платежный провайдер недоступен, повторите позже"
)

type Handler struct {
	payments PaymentCoordinator
	logger   Logger
}

func NewHandler(payments PaymentCoordinator, logger Logger) *Handler {
	return &Handler{
		payments: payments,
		logger:   logger,
	}
}

// Handle GET /api/v1/payments/{publicId}/success
// Query params: session_id (подставляется провайдером)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	publicID, err := handlers.PathUUID(r, "publicId")
	if err != nil {
		h.logger.Warn("GET /payments/{id}/success - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	sessionID := r.URL.Query().Get("session_id")

	booking, err := h.payments.HandleSuccess(r.Context(), publicID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /payments/{id}/success - Booking not found: public_id=%s", publicID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrSessionMismatch), errors.Is(err, payments.ErrNoSession), errors.Is(err, bookings.ErrSessionMismatch):
			h.logger.Warn("GET /payments/{id}/success - Session mismatch: public_id=%s, session=%s", publicID, sessionID)
			handlers.RespondBadRequest(w, msgSessionMismatch)

		case errors.Is(err, payments.ErrPaymentNotCompleted):
			h.logger.Warn("GET /payments/{id}/success - Payment not completed: public_id=%s", publicID)
			handlers.RespondError(w, http.StatusAccepted, msgPaymentNotComplete)

		case errors.Is(err, bookings.ErrAmountMismatch):
			h.logger.Error("GET /payments/{id}/success - Amount mismatch: public_id=%s, error=%v", publicID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgAmountMismatch)

		case errors.Is(err, domain.ErrAlreadyFinalized):
			h.logger.Warn("GET /payments/{id}/success - Booking already finalized: public_id=%s", publicID)
			handlers.RespondConflict(w, msgAlreadyFinalized)

		case errors.Is(err, domain.ErrGateway):
			h.logger.Warn("GET /payments/{id}/success - Gateway error: public_id=%s, error=%v", publicID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayError)

		default:
			h.logger.Error("GET /payments/{id}/success - Failed to confirm payment: public_id=%s, error=%v", publicID, err)
			handlers.RespondDomainError(w, err, msgRequestFailed)
		}
		return
	}

	h.logger.Info("GET /payments/{id}/success - Booking confirmed: public_id=%s, status=%s", publicID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking, nil))
}
