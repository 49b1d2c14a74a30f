package create_booking

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64            // ID пользователя
	CourtID    int64            // ID корта
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Начало слота, например "18:00"
	EndTime    types.TimeString // Конец слота, должен совпадать с концом слота
	CouponCode *string          // Код купона (опционально)
}
