package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricing"
)

const (
	msgRequestFailed = "запрос не может быть выполнен"

	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgSlotNotFound       = "временной слот не найден"
	msgCourtNotFound      = "корт не найден"
	msgCouponNotFound     = "купон не найден"
	msgCouponNotValid     = "купон не может быть применен"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgTooLateToBook      = "слот уже начался"
	msgDateOutOfRange     = "дата бронирования вне допустимого диапазона"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Резервирует слот и открывает сессию оплаты; ссылка на оплату в payment.checkoutUrl
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, bookings.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: court_id=%d, date=%s, start=%s", req.CourtID, req.BookingDate, req.StartTime)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, bookings.ErrCourtNotFound):
			h.logger.Warn("POST /bookings - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, pricing.ErrCouponNotFound):
			h.logger.Warn("POST /bookings - Coupon not found: user_id=%d, code=%v", userID, req.CouponCode)
			handlers.RespondNotFound(w, msgCouponNotFound)

		case errors.Is(err, bookings.ErrSlotStarted):
			h.logger.Warn("POST /bookings - Too late to book: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgTooLateToBook)

		case errors.Is(err, bookings.ErrBookingDateOutOfRange):
			h.logger.Warn("POST /bookings - Date out of range: user_id=%d, date=%s", userID, req.BookingDate)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgDateOutOfRange)

		case errors.Is(err, domain.ErrPolicyViolation):
			h.logger.Warn("POST /bookings - Coupon rejected: user_id=%d, code=%v, error=%v", userID, req.CouponCode, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgCouponNotValid)

		case errors.Is(err, bookings.ErrInvalidTimeRange):
			h.logger.Warn("POST /bookings - Invalid time slot: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, court_id=%d, error=%v",
				userID, req.CourtID, err)
			handlers.RespondDomainError(w, err, msgRequestFailed)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, court_id=%d",
		result.ID, userID, req.CourtID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
