package quote_price

import (
	"context"

	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricing"
)

type PriceQuoter interface {
	QuoteSlot(ctx context.Context, req pricing.SlotQuoteRequest) (*pricing.SlotQuote, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
