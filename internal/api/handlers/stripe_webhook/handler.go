package stripe_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/paymentgateway"
)

const (
	SignatureHeader = "Stripe-Signature"

	maxPayloadBytes = 64 << 10

	msgInvalidPayload   = "некорректное тело события"
	msgInvalidSignature = "некорректная подпись события"
)

type Handler struct {
	processor WebhookProcessor
	logger    Logger
}

func NewHandler(processor WebhookProcessor, logger Logger) *Handler {
	return &Handler{
		processor: processor,
		logger:    logger,
	}
}

// Handle POST /api/v1/webhooks/stripe
// Ошибка обработки возвращает 5xx, чтобы провайдер повторил доставку
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/stripe - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	err = h.processor.HandleWebhook(r.Context(), payload, r.Header.Get(SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, paymentgateway.ErrInvalidSignature):
			h.logger.Warn("POST /webhooks/stripe - Invalid signature: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSignature)

		case errors.Is(err, paymentgateway.ErrInvalidPayload):
			h.logger.Warn("POST /webhooks/stripe - Invalid payload: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPayload)

		default:
			h.logger.Error("POST /webhooks/stripe - Failed to process event: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}
