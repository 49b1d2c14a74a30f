package block_slot

import (
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// BlockSlotRequest HTTP request model
type BlockSlotRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

// SlotResponse HTTP response model
type SlotResponse struct {
	ID           int64   `json:"id"`
	CourtID      int64   `json:"courtId"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	PricePerHour int64   `json:"pricePerHour"`
	State        string  `json:"state"`
	BlockReason  *string `json:"blockReason,omitempty"`
}

// FromDomainSlot конвертирует слот в HTTP response
func FromDomainSlot(s *domain.TimeSlot) *SlotResponse {
	return &SlotResponse{
		ID:           s.ID,
		CourtID:      s.CourtID,
		Date:         s.Date.Format(domain.DateFormat),
		StartTime:    s.StartTime.String(),
		EndTime:      s.EndTime.String(),
		PricePerHour: s.PricePerHour,
		State:        string(s.Availability()),
		BlockReason:  s.BlockReason,
	}
}
