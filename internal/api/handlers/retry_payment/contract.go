package retry_payment

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

type PaymentCoordinator interface {
	RetryPayment(ctx context.Context, bookingID, userID int64) (*domain.Payment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
