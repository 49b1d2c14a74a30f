package create_booking

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
)

// BookingService интерфейс машины состояний бронирования
type BookingService interface {
	Reserve(ctx context.Context, req *models.ReserveRequest) (*domain.Booking, *domain.Payment, error)
}

// PaymentCoordinator интерфейс координатора платежей
type PaymentCoordinator interface {
	StartSession(ctx context.Context, booking *domain.Booking) (*domain.Payment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
