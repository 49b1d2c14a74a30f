package retry_payment

import (
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// PaymentResponse HTTP response model
type PaymentResponse struct {
	BookingID     int64   `json:"bookingId"`
	Status        string  `json:"status"`
	Amount        int64   `json:"amount"`
	Currency      string  `json:"currency"`
	CheckoutURL   *string `json:"checkoutUrl,omitempty"`
	Attempts      int     `json:"attempts"`
	FailureReason *string `json:"failureReason,omitempty"`
}

// FromDomainPayment конвертирует платеж в HTTP response
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		BookingID:     p.BookingID,
		Status:        string(p.Status),
		Amount:        p.Amount,
		Currency:      p.Currency,
		CheckoutURL:   p.CheckoutURL,
		Attempts:      p.Attempts,
		FailureReason: p.FailureReason,
	}
}
