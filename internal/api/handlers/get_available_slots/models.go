package get_available_slots

import (
	getAvailableSlots "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_available_slots"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	CourtID int64          `json:"courtId"`
	Date    string         `json:"date"`
	Slots   []SlotResponse `json:"slots"`
}

// SlotResponse слот с состоянием доступности
type SlotResponse struct {
	ID           int64   `json:"id"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	PricePerHour int64   `json:"pricePerHour"`
	State        string  `json:"state"` // available | booked | blocked
	BlockReason  *string `json:"blockReason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			ID:           s.ID,
			StartTime:    s.StartTime,
			EndTime:      s.EndTime,
			PricePerHour: s.PricePerHour,
			State:        string(s.State),
			BlockReason:  s.BlockReason,
		})
	}

	return &AvailabilityResponse{
		CourtID: resp.CourtID,
		Date:    resp.Date,
		Slots:   slots,
	}
}
