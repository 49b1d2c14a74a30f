package paymentgateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// SandboxGateway платежный шлюз в памяти для локального запуска и тестов
// Повторяет модель Stripe Checkout: сессия, проверка сессии и подписанный webhook
type SandboxGateway struct {
	mu       sync.Mutex
	sessions map[string]*sandboxSession
	baseURL  string
	secret   string
	autoPay  bool
	failures int
	created  int
	log      Logger
}

type sandboxSession struct {
	req   CheckoutRequest
	state SessionState
}

// NewSandboxGateway создает шлюз-песочницу
// baseURL - адрес, на котором строятся ссылки на оплату
func NewSandboxGateway(baseURL, webhookSecret string, log Logger) *SandboxGateway {
	return &SandboxGateway{
		sessions: make(map[string]*sandboxSession),
		baseURL:  strings.TrimRight(baseURL, "/"),
		secret:   webhookSecret,
		log:      log,
	}
}

// WithAutoPay помечает каждую новую сессию оплаченной
func (g *SandboxGateway) WithAutoPay(autoPay bool) *SandboxGateway {
	g.autoPay = autoPay
	return g
}

// FailNext заставляет следующие n вызовов CreateCheckoutSession вернуть ErrGateway
func (g *SandboxGateway) FailNext(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures = n
}

// SessionsCreated количество успешно созданных сессий
func (g *SandboxGateway) SessionsCreated() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.created
}

// CreateCheckoutSession создает сессию оплаты
func (g *SandboxGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failures > 0 {
		g.failures--
		g.log.Warn("[Sandbox] injected failure for booking id=%d", req.BookingID)
		return nil, fmt.Errorf("%w: sandbox: injected failure", ErrGateway)
	}

	id := "cs_sandbox_" + uuid.NewString()
	session := &sandboxSession{
		req: req,
		state: SessionState{
			SessionID: id,
			Status:    SessionOpen,
		},
	}
	g.sessions[id] = session
	g.created++

	if g.autoPay {
		g.markPaid(session, req.Amount)
	}

	g.log.Info("[Sandbox] checkout session %s created for booking id=%d amount=%d %s", id, req.BookingID, req.Amount, req.Currency)
	return &CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("%s/sandbox/checkout/%s", g.baseURL, id),
	}, nil
}

// VerifySession возвращает состояние сессии
func (g *SandboxGateway) VerifySession(ctx context.Context, sessionID string) (*SessionState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, ok := g.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	state := session.state
	return &state, nil
}

// Pay оплачивает открытую сессию на запрошенную сумму
func (g *SandboxGateway) Pay(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, ok := g.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if session.state.Status == SessionExpired {
		return ErrSessionNotOpen
	}
	g.markPaid(session, session.req.Amount)
	return nil
}

// PayAmount оплачивает сессию на произвольную сумму
func (g *SandboxGateway) PayAmount(sessionID string, amount int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, ok := g.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if session.state.Status == SessionExpired {
		return ErrSessionNotOpen
	}
	g.markPaid(session, amount)
	return nil
}

// ExpireSession закрывает открытую сессию по запросу сервиса
// Оплаченную сессию закрыть нельзя
func (g *SandboxGateway) ExpireSession(ctx context.Context, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, ok := g.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if session.state.IsPaid() {
		return ErrSessionNotOpen
	}
	session.state.Status = SessionExpired
	g.log.Info("[Sandbox] checkout session %s expired on request", sessionID)
	return nil
}

// Expire закрывает сессию без оплаты на стороне провайдера
func (g *SandboxGateway) Expire(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	session, ok := g.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	session.state.Status = SessionExpired
	return nil
}

func (g *SandboxGateway) markPaid(session *sandboxSession, amount int64) {
	session.state.Status = SessionPaid
	session.state.Amount = amount
	session.state.TransactionID = "pi_sandbox_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// EventPayload собирает тело webhook в формате Stripe для известной сессии
func (g *SandboxGateway) EventPayload(sessionID string, typ EventType) ([]byte, error) {
	g.mu.Lock()
	session, ok := g.sessions[sessionID]
	if !ok {
		g.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	state := session.state
	req := session.req
	g.mu.Unlock()

	paymentStatus := "unpaid"
	if state.IsPaid() {
		paymentStatus = string(SessionPaid)
	}

	return json.Marshal(map[string]interface{}{
		"id":   "evt_sandbox_" + uuid.NewString(),
		"type": string(typ),
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":                  state.SessionID,
				"client_reference_id": strconv.FormatInt(req.BookingID, 10),
				"amount_total":        state.Amount,
				"payment_status":      paymentStatus,
				"payment_intent":      state.TransactionID,
				"metadata": map[string]string{
					metadataBookingID: strconv.FormatInt(req.BookingID, 10),
					metadataPublicID:  req.PublicID,
				},
			},
		},
	})
}

// Sign вычисляет подпись тела webhook
func (g *SandboxGateway) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// ParseWebhook проверяет HMAC-подпись и разбирает событие
func (g *SandboxGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if !hmac.Equal([]byte(g.Sign(payload)), []byte(signature)) {
		g.log.Warn("[Sandbox] webhook signature mismatch")
		return nil, ErrInvalidSignature
	}
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrInvalidPayload)
	}

	event := gjson.ParseBytes(payload)
	return parseCheckoutEvent(
		event.Get("id").String(),
		event.Get("type").String(),
		[]byte(event.Get("data.object").Raw),
	)
}
