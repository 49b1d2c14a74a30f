package domain

import "time"

// PaymentStatus represents the status of the payment attached to a booking
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment is the 1:1 payment record of a booking
type Payment struct {
	ID               int64
	BookingID        int64
	Status           PaymentStatus
	Amount           int64
	Currency         string
	GatewaySessionID *string
	CheckoutURL      *string
	TransactionID    *string
	Attempts         int
	FailureReason    *string
	PaidAt           *time.Time
	SessionCreatedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsRetryable returns true if a new checkout session may be opened
func (p *Payment) IsRetryable() bool {
	return p.Status == PaymentPending || p.Status == PaymentFailed
}

// HasSession returns true once a gateway session was created
func (p *Payment) HasSession() bool {
	return p.GatewaySessionID != nil && *p.GatewaySessionID != ""
}

// PaymentProof is what the gateway reports back for a paid session
type PaymentProof struct {
	SessionID     string
	TransactionID string
	Amount        int64
}
