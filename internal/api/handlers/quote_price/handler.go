package quote_price

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricing"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgSlotNotFound       = "слот не найден"
	msgCouponNotFound     = "купон не найден"
	msgCouponNotValid     = "купон не может быть применен"
	msgInvalidInput       = "некорректные параметры расчета"
)

type Handler struct {
	quoter PriceQuoter
	logger Logger
}

func NewHandler(quoter PriceQuoter, logger Logger) *Handler {
	return &Handler{
		quoter: quoter,
		logger: logger,
	}
}

// Handle POST /api/v1/pricing/quote
// X-User-ID опционален: без него лимиты купона на пользователя не учитываются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /pricing/quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	serviceReq, err := req.ToServiceRequest(userID)
	if err != nil {
		h.logger.Warn("POST /pricing/quote - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	quote, err := h.quoter.QuoteSlot(r.Context(), *serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrSlotNotFound):
			h.logger.Warn("POST /pricing/quote - Slot not found: court_id=%d, date=%s, start=%s", req.CourtID, req.Date, req.StartTime)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, pricing.ErrCouponNotFound):
			h.logger.Warn("POST /pricing/quote - Coupon not found: code=%v", req.CouponCode)
			handlers.RespondNotFound(w, msgCouponNotFound)

		case errors.Is(err, domain.ErrPolicyViolation):
			h.logger.Warn("POST /pricing/quote - Coupon rejected: code=%v, error=%v", req.CouponCode, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgCouponNotValid)

		case errors.Is(err, pricing.ErrInvalidInput):
			h.logger.Warn("POST /pricing/quote - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /pricing/quote - Failed to quote: court_id=%d, error=%v", req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /pricing/quote - Quote calculated: slot_id=%d, final=%d %s", quote.Slot.ID, quote.FinalAmount, quote.Currency)
	handlers.RespondJSON(w, http.StatusOK, FromSlotQuote(quote))
}
