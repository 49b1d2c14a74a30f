package paymentgateway

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// CheckoutRequest параметры создания платежной сессии
type CheckoutRequest struct {
	BookingID   int64
	PublicID    string
	UserID      int64
	Amount      int64 // в минимальных единицах валюты
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
	ExpiresAt   time.Time
}

// CheckoutSession созданная сессия оплаты
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionStatus состояние сессии у провайдера
type SessionStatus string

const (
	SessionOpen    SessionStatus = "open"
	SessionPaid    SessionStatus = "paid"
	SessionExpired SessionStatus = "expired"
)

// Ключи metadata, по которым событие провайдера связывается с бронированием
const (
	metadataBookingID = "booking_id"
	metadataPublicID  = "booking_public_id"
)

// SessionState результат проверки сессии у провайдера
type SessionState struct {
	SessionID     string
	Status        SessionStatus
	Amount        int64
	TransactionID string
}

// IsPaid возвращает true, если сессия оплачена
func (s *SessionState) IsPaid() bool {
	return s.Status == SessionPaid
}

// Proof подтверждение оплаты для машины состояний бронирования
func (s *SessionState) Proof() domain.PaymentProof {
	return domain.PaymentProof{
		SessionID:     s.SessionID,
		TransactionID: s.TransactionID,
		Amount:        s.Amount,
	}
}

// EventType тип события webhook
type EventType string

const (
	EventSessionCompleted EventType = "checkout.session.completed"
	EventSessionExpired   EventType = "checkout.session.expired"
)

// WebhookEvent проверенное событие провайдера
type WebhookEvent struct {
	ID            string
	Type          EventType
	SessionID     string
	BookingID     int64
	Amount        int64
	TransactionID string
	Paid          bool
}

// Proof подтверждение оплаты из события
func (e *WebhookEvent) Proof() domain.PaymentProof {
	return domain.PaymentProof{
		SessionID:     e.SessionID,
		TransactionID: e.TransactionID,
		Amount:        e.Amount,
	}
}
