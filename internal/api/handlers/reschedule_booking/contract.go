package reschedule_booking

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	modifyBooking "github.com/m04kA/SMC-CourtBookingService/internal/usecase/modify_booking"
)

type ModifyBookingUseCase interface {
	Execute(ctx context.Context, req *modifyBooking.Request) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
