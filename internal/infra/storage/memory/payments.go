package memory

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/payment"
)

// PaymentRepository is the in-memory counterpart of payment.Repository
type PaymentRepository struct {
	store *Store
}

// Payments returns the payment repository of the store
func (s *Store) Payments() *PaymentRepository {
	return &PaymentRepository{store: s}
}

// Create stores the payment of a booking
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	defer r.store.lock(ctx)()

	now := r.store.clock()
	p.ID = r.store.data.nextID()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.store.data.payments[p.BookingID] = *p

	return p, nil
}

// GetByBookingID returns the payment of a booking
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	defer r.store.lock(ctx)()

	p, ok := r.store.data.payments[bookingID]
	if !ok {
		return nil, payment.ErrPaymentNotFound
	}
	return &p, nil
}

// GetByBookingIDForUpdate returns the payment of a booking
func (r *PaymentRepository) GetByBookingIDForUpdate(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	return r.GetByBookingID(ctx, bookingID)
}

// GetBySessionID returns the payment owning a gateway session
func (r *PaymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	defer r.store.lock(ctx)()

	for _, p := range r.store.data.payments {
		if p.GatewaySessionID != nil && *p.GatewaySessionID == sessionID {
			return &p, nil
		}
	}
	return nil, payment.ErrPaymentNotFound
}

// AttachSession stores a new gateway session on a pending or failed payment
func (r *PaymentRepository) AttachSession(ctx context.Context, bookingID int64, sessionID, checkoutURL string, at time.Time) error {
	return r.update(ctx, bookingID, retryable, func(p *domain.Payment) {
		p.GatewaySessionID = &sessionID
		p.CheckoutURL = &checkoutURL
		p.Status = domain.PaymentPending
		p.FailureReason = nil
		p.SessionCreatedAt = &at
		p.Attempts++
	})
}

// MarkFailed records a failed session creation
func (r *PaymentRepository) MarkFailed(ctx context.Context, bookingID int64, reason string) error {
	return r.update(ctx, bookingID, retryable, func(p *domain.Payment) {
		p.Status = domain.PaymentFailed
		p.FailureReason = &reason
		p.Attempts++
	})
}

// MarkCompleted records a successful payment
func (r *PaymentRepository) MarkCompleted(ctx context.Context, bookingID int64, transactionID *string, at time.Time) error {
	return r.update(ctx, bookingID, retryable, func(p *domain.Payment) {
		p.Status = domain.PaymentCompleted
		p.TransactionID = transactionID
		p.FailureReason = nil
		p.PaidAt = &at
	})
}

// MarkCancelled moves the payment to cancelled
func (r *PaymentRepository) MarkCancelled(ctx context.Context, bookingID int64) error {
	return r.update(ctx, bookingID, func(p domain.Payment) bool {
		return p.Status != domain.PaymentCancelled
	}, func(p *domain.Payment) {
		p.Status = domain.PaymentCancelled
	})
}

func retryable(p domain.Payment) bool {
	return p.IsRetryable()
}

func (r *PaymentRepository) update(ctx context.Context, bookingID int64, allowed func(p domain.Payment) bool, apply func(p *domain.Payment)) error {
	defer r.store.lock(ctx)()

	p, ok := r.store.data.payments[bookingID]
	if !ok || !allowed(p) {
		return payment.ErrStatusConflict
	}

	apply(&p)
	p.UpdatedAt = r.store.clock()
	r.store.data.payments[bookingID] = p

	return nil
}
