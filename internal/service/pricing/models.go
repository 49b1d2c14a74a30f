package pricing

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// QuoteRequest запрос расчета стоимости по известной цене
type QuoteRequest struct {
	PricePerHour int64
	Minutes      int
	UserID       int64
	CouponCode   *string
}

// Quote результат расчета
type Quote struct {
	Breakdown
	Currency string
	Coupon   *domain.Coupon // nil, если купон не применялся
}

// CouponCode код примененного купона
func (q *Quote) CouponCode() *string {
	if q.Coupon == nil {
		return nil
	}
	code := q.Coupon.Code
	return &code
}

// SlotQuoteRequest запрос предварительного расчета стоимости слота
type SlotQuoteRequest struct {
	CourtID    int64
	Date       time.Time
	StartTime  types.TimeString
	UserID     int64
	CouponCode *string
}

// SlotQuote предварительный расчет стоимости слота
type SlotQuote struct {
	Quote
	Slot *domain.TimeSlot
}
