package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модель запроса на генерацию слотов корта на день недели
type Request struct {
	UserID              int64             // ID администратора
	CourtID             int64             // ID корта
	DayOfWeek           time.Weekday      // День недели
	SlotDurationMinutes int               // Длительность слота
	PricePerHour        *int64            // Цена часа; по умолчанию цена корта
	WindowStart         *types.TimeString // Начало окна; по умолчанию открытие
	WindowEnd           *types.TimeString // Конец окна; по умолчанию закрытие
}

// Response модель ответа с результатом генерации
type Response struct {
	CourtID      int64
	DayOfWeek    time.Weekday
	Dates        []time.Time         // Даты, на которые созданы слоты
	Windows      []domain.SlotWindow // Интервалы, созданные на каждую дату
	PricePerHour int64
	Created      int // Всего создано слотов
	Replaced     int // Удалено прежних свободных слотов
}
