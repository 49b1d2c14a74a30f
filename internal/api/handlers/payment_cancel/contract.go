package payment_cancel

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

type PaymentCoordinator interface {
	HandleCancel(ctx context.Context, publicID string, sessionID string) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
