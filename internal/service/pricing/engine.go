package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Engine рассчитывает стоимость бронирований с учетом купонов
type Engine struct {
	coupons      CouponRepository
	slots        SlotReader
	policy       domain.Policy
	timeProvider TimeProvider
	logger       Logger
}

// NewEngine создает новый экземпляр движка ценообразования
func NewEngine(
	coupons CouponRepository,
	slots SlotReader,
	policy domain.Policy,
	logger Logger,
) *Engine {
	return &Engine{
		coupons:      coupons,
		slots:        slots,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (e *Engine) WithTimeProvider(tp TimeProvider) *Engine {
	e.timeProvider = tp
	return e
}

// Quote рассчитывает стоимость и проверяет купон
// Вызывается внутри транзакции резервирования, поэтому читает купон из контекста транзакции
func (e *Engine) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	base, err := Calculate(req.PricePerHour, req.Minutes, e.policy.PlatformFeeBps, e.policy.TaxBps, nil)
	if err != nil {
		return nil, err
	}

	quote := &Quote{Breakdown: base, Currency: e.policy.Currency}

	code := normalizeCode(req.CouponCode)
	if code == "" {
		return quote, nil
	}
	if len(code) > domain.MaxCouponCodeLength {
		return nil, fmt.Errorf("%w: coupon code is too long", ErrInvalidInput)
	}

	coupon, err := e.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			e.logger.Warn("Quote: coupon code=%s not found", code)
			return nil, ErrCouponNotFound
		}
		e.logger.Error("Quote: failed to get coupon code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: Quote - get coupon: %w", ErrInternal, err)
	}

	redeemed, err := e.coupons.CountUserUsage(ctx, coupon.ID, req.UserID)
	if err != nil {
		e.logger.Error("Quote: failed to count usage of coupon=%d by user=%d: %v", coupon.ID, req.UserID, err)
		return nil, fmt.Errorf("%w: Quote - count coupon usage: %w", ErrInternal, err)
	}

	// Ожидающие оплаты бронирования с купоном учитываются как занятые использования
	held, userHeld, err := e.coupons.CountPendingHolds(ctx, coupon.Code, req.UserID)
	if err != nil {
		e.logger.Error("Quote: failed to count pending holds of coupon=%d: %v", coupon.ID, err)
		return nil, fmt.Errorf("%w: Quote - count coupon holds: %w", ErrInternal, err)
	}

	usage := domain.CouponUsage{Held: held, UserRedeemed: redeemed, UserHeld: userHeld}
	if err := coupon.CheckUsable(e.timeProvider.Now(), base.BaseAmount, usage); err != nil {
		e.logger.Warn("Quote: coupon code=%s rejected for user=%d: %v", code, req.UserID, err)
		return nil, err
	}

	discounted, err := Calculate(req.PricePerHour, req.Minutes, e.policy.PlatformFeeBps, e.policy.TaxBps, coupon)
	if err != nil {
		return nil, err
	}

	quote.Breakdown = discounted
	quote.Coupon = coupon
	return quote, nil
}

// QuoteSlot рассчитывает стоимость конкретного слота без резервирования
func (e *Engine) QuoteSlot(ctx context.Context, req SlotQuoteRequest) (*SlotQuote, error) {
	if err := req.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	slot, err := e.slots.GetByKey(ctx, domain.SlotKey{
		CourtID:   req.CourtID,
		Date:      domain.NormalizeDate(req.Date),
		StartTime: req.StartTime,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		e.logger.Error("QuoteSlot: failed to get slot court=%d date=%s start=%s: %v",
			req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, err)
		return nil, fmt.Errorf("%w: QuoteSlot - get slot: %w", ErrInternal, err)
	}

	minutes, err := slot.DurationMinutes()
	if err != nil {
		return nil, fmt.Errorf("%w: QuoteSlot - slot duration: %w", ErrInternal, err)
	}

	quote, err := e.Quote(ctx, QuoteRequest{
		PricePerHour: slot.PricePerHour,
		Minutes:      minutes,
		UserID:       req.UserID,
		CouponCode:   req.CouponCode,
	})
	if err != nil {
		return nil, err
	}

	return &SlotQuote{Quote: *quote, Slot: slot}, nil
}

func normalizeCode(code *string) string {
	if code == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*code))
}
