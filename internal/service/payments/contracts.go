package payments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/paymentgateway"
)

// BookingStateMachine интерфейс машины состояний бронирования
type BookingStateMachine interface {
	GetWithPayment(ctx context.Context, id int64) (*domain.Booking, *domain.Payment, error)
	GetWithPaymentByPublicID(ctx context.Context, publicID string) (*domain.Booking, *domain.Payment, error)
	Confirm(ctx context.Context, bookingID int64, proof domain.PaymentProof) (*domain.Booking, error)
	ReleaseUnpaid(ctx context.Context, bookingID int64, sessionID, reason string) (bool, error)
	ExpireReap(ctx context.Context, bookingID int64) (bool, error)
	ListExpiredPending(ctx context.Context, afterID int64, limit int) ([]*domain.Booking, error)
	Policy() domain.Policy
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	AttachSession(ctx context.Context, bookingID int64, sessionID, checkoutURL string, at time.Time) error
	MarkFailed(ctx context.Context, bookingID int64, reason string) error
}

// Gateway интерфейс платежного провайдера
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req paymentgateway.CheckoutRequest) (*paymentgateway.CheckoutSession, error)
	VerifySession(ctx context.Context, sessionID string) (*paymentgateway.SessionState, error)
	ExpireSession(ctx context.Context, sessionID string) error
	ParseWebhook(payload []byte, signature string) (*paymentgateway.WebhookEvent, error)
}

// DedupStore интерфейс учета обработанных событий провайдера
type DedupStore interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// MetricsRecorder интерфейс учета вызовов провайдера
type MetricsRecorder interface {
	RecordGatewayCall(operation, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
