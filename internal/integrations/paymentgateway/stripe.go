package paymentgateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/tidwall/gjson"
)

// Stripe не принимает expires_at ближе 30 минут от момента создания
const stripeMinSessionLifetime = 31 * time.Minute

// StripeGateway платежный шлюз на Stripe Checkout
type StripeGateway struct {
	client        *stripe.Client
	webhookSecret string
	productName   string
	log           Logger
}

// NewStripeGateway создает шлюз Stripe
func NewStripeGateway(secretKey, webhookSecret, productName string, log Logger) *StripeGateway {
	return &StripeGateway{
		client:        stripe.NewClient(secretKey),
		webhookSecret: webhookSecret,
		productName:   productName,
		log:           log,
	}
}

// CreateCheckoutSession открывает сессию Stripe Checkout на полную сумму бронирования
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	bookingID := strconv.FormatInt(req.BookingID, 10)

	params := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(bookingID),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name:        stripe.String(g.productName),
						Description: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			metadataBookingID: bookingID,
			metadataPublicID:  req.PublicID,
		},
	}
	if !req.ExpiresAt.IsZero() {
		expiresAt := req.ExpiresAt
		if minExpiry := time.Now().Add(stripeMinSessionLifetime); expiresAt.Before(minExpiry) {
			expiresAt = minExpiry
		}
		params.ExpiresAt = stripe.Int64(expiresAt.Unix())
	}

	cs, err := g.client.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		g.log.Error("[Stripe] failed to create checkout session for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: create checkout session: %v", ErrGateway, err)
	}

	g.log.Info("[Stripe] checkout session %s created for booking id=%d", cs.ID, req.BookingID)
	return &CheckoutSession{ID: cs.ID, URL: cs.URL}, nil
}

// VerifySession получает состояние сессии у Stripe
func (g *StripeGateway) VerifySession(ctx context.Context, sessionID string) (*SessionState, error) {
	cs, err := g.client.V1CheckoutSessions.Retrieve(ctx, sessionID, &stripe.CheckoutSessionRetrieveParams{})
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, ErrSessionNotFound
		}
		g.log.Error("[Stripe] failed to retrieve session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: retrieve checkout session: %v", ErrGateway, err)
	}

	state := &SessionState{
		SessionID: cs.ID,
		Status:    SessionOpen,
		Amount:    cs.AmountTotal,
	}
	switch {
	case cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		state.Status = SessionPaid
	case cs.Status == stripe.CheckoutSessionStatusExpired:
		state.Status = SessionExpired
	}
	if cs.PaymentIntent != nil {
		state.TransactionID = cs.PaymentIntent.ID
	}
	return state, nil
}

// ExpireSession закрывает открытую сессию Stripe Checkout
// Stripe отклоняет закрытие завершенной сессии, в этом случае возвращается ErrSessionNotOpen
func (g *StripeGateway) ExpireSession(ctx context.Context, sessionID string) error {
	_, err := g.client.V1CheckoutSessions.Expire(ctx, sessionID, &stripe.CheckoutSessionExpireParams{})
	if err == nil {
		g.log.Info("[Stripe] checkout session %s expired", sessionID)
		return nil
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch {
		case stripeErr.Code == stripe.ErrorCodeResourceMissing:
			return ErrSessionNotFound
		case stripeErr.HTTPStatusCode == http.StatusBadRequest:
			g.log.Warn("[Stripe] session %s cannot be expired: %v", sessionID, err)
			return ErrSessionNotOpen
		}
	}
	g.log.Error("[Stripe] failed to expire session %s: %v", sessionID, err)
	return fmt.Errorf("%w: expire checkout session: %v", ErrGateway, err)
}

// ParseWebhook проверяет подпись Stripe-Signature и разбирает событие checkout.session.*
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		g.log.Warn("[Stripe] webhook signature verification failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if event.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data", ErrInvalidPayload, event.ID)
	}

	return parseCheckoutEvent(event.ID, string(event.Type), event.Data.Raw)
}

// parseCheckoutEvent извлекает поля сессии из объекта события
func parseCheckoutEvent(eventID, eventType string, object []byte) (*WebhookEvent, error) {
	typ := EventType(eventType)
	if typ != EventSessionCompleted && typ != EventSessionExpired {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEvent, eventType)
	}
	if !gjson.ValidBytes(object) {
		return nil, fmt.Errorf("%w: event %s object is not valid JSON", ErrInvalidPayload, eventID)
	}

	sessionID := gjson.GetBytes(object, "id").String()
	rawBookingID := gjson.GetBytes(object, "metadata."+metadataBookingID).String()
	if rawBookingID == "" {
		rawBookingID = gjson.GetBytes(object, "client_reference_id").String()
	}
	bookingID, err := strconv.ParseInt(rawBookingID, 10, 64)
	if err != nil || sessionID == "" {
		return nil, fmt.Errorf("%w: event %s does not reference a booking", ErrInvalidPayload, eventID)
	}

	paymentIntent := gjson.GetBytes(object, "payment_intent")
	transactionID := paymentIntent.String()
	if paymentIntent.IsObject() {
		transactionID = paymentIntent.Get("id").String()
	}

	return &WebhookEvent{
		ID:            eventID,
		Type:          typ,
		SessionID:     sessionID,
		BookingID:     bookingID,
		Amount:        gjson.GetBytes(object, "amount_total").Int(),
		TransactionID: transactionID,
		Paid:          gjson.GetBytes(object, "payment_status").String() == string(SessionPaid),
	}, nil
}
