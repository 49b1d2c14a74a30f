package retry_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/payments"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
	msgNotRetryable     = "бронирование не ожидает оплаты"
	msgSessionExpired   = "время на оплату резерва истекло"
	msgGatewayError     = "платежный провайдер недоступен, повторите позже"
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

// Handle POST /api/v1/bookings/{bookingId}/payment/retry
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment/retry - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment/retry - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	payment, err := h.payments.RetryPayment(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment/retry - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment/retry - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, payments.ErrNotRetryable):
			h.logger.Warn("POST /bookings/{id}/payment/retry - Not retryable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotRetryable)

		case errors.Is(err, payments.ErrSessionExpired):
			h.logger.Warn("POST /bookings/{id}/payment/retry - Reservation expired: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusGone, msgSessionExpired)

		case errors.Is(err, payments.ErrGatewayUnavailable):
			h.logger.Warn("POST /bookings/{id}/payment/retry - Gateway unavailable: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayError)

		default:
			h.logger.Error("POST /bookings/{id}/payment/retry - Failed to retry payment: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment/retry - Payment session created: booking_id=%d, attempts=%d", bookingID, payment.Attempts)
	handlers.RespondJSON(w, http.StatusOK, FromDomainPayment(payment))
}
