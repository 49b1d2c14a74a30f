package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Request модель запроса на получение доступности корта
type Request struct {
	CourtID int64     // ID корта
	Date    time.Time // Дата
}

// Response модель ответа с доступностью
type Response struct {
	CourtID int64      `json:"court_id"`
	Date    string     `json:"date"`
	Slots   []SlotInfo `json:"slots"`
}

// SlotInfo информация о слоте
type SlotInfo struct {
	ID           int64                   `json:"id"`
	StartTime    string                  `json:"start_time"`
	EndTime      string                  `json:"end_time"`
	PricePerHour int64                   `json:"price_per_hour"`
	State        domain.SlotAvailability `json:"state"`
	BlockReason  *string                 `json:"block_reason,omitempty"`
}

// fromDomainSlot преобразует доменный слот в элемент ответа
func fromDomainSlot(slot *domain.TimeSlot) SlotInfo {
	info := SlotInfo{
		ID:           slot.ID,
		StartTime:    slot.StartTime.String(),
		EndTime:      slot.EndTime.String(),
		PricePerHour: slot.PricePerHour,
		State:        slot.Availability(),
	}
	if info.State == domain.SlotBlocked {
		info.BlockReason = slot.BlockReason
	}
	return info
}
