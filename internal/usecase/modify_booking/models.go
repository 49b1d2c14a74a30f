package modify_booking

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID    int64            // ID бронирования
	UserID       int64            // ID владельца
	NewDate      time.Time        // Новая дата
	NewStartTime types.TimeString // Начало нового слота
}
