package quote_price

import (
	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricing"
)

// QuoteRequest HTTP request model
type QuoteRequest struct {
	CourtID    int64   `json:"courtId" validate:"required,gt=0"`
	Date       string  `json:"date" validate:"required"`      // "2026-03-04"
	StartTime  string  `json:"startTime" validate:"required"` // "18:00"
	CouponCode *string `json:"couponCode,omitempty" validate:"omitempty,max=50"`
}

// QuoteResponse HTTP response model
// Суммы в минимальных единицах валюты
type QuoteResponse struct {
	SlotID         int64   `json:"slotId"`
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Available      bool    `json:"available"`
	BaseAmount     int64   `json:"baseAmount"`
	PlatformFee    int64   `json:"platformFee"`
	Tax            int64   `json:"tax"`
	DiscountAmount int64   `json:"discountAmount"`
	FinalAmount    int64   `json:"finalAmount"`
	Currency       string  `json:"currency"`
	CouponCode     *string `json:"couponCode,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос движка цен
func (r *QuoteRequest) ToServiceRequest(userID int64) (*pricing.SlotQuoteRequest, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	start, err := handlers.ParseTime(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &pricing.SlotQuoteRequest{
		CourtID:    r.CourtID,
		Date:       date,
		StartTime:  start,
		UserID:     userID,
		CouponCode: r.CouponCode,
	}, nil
}

// FromSlotQuote конвертирует расчет в HTTP response
func FromSlotQuote(q *pricing.SlotQuote) *QuoteResponse {
	return &QuoteResponse{
		SlotID:         q.Slot.ID,
		Date:           q.Slot.Date.Format(domain.DateFormat),
		StartTime:      q.Slot.StartTime.String(),
		EndTime:        q.Slot.EndTime.String(),
		Available:      q.Slot.IsAvailable(),
		BaseAmount:     q.BaseAmount,
		PlatformFee:    q.PlatformFee,
		Tax:            q.Tax,
		DiscountAmount: q.DiscountAmount,
		FinalAmount:    q.FinalAmount,
		Currency:       q.Currency,
		CouponCode:     q.CouponCode(),
	}
}
