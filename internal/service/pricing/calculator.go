package pricing

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Breakdown итоговый расчет стоимости бронирования в минимальных единицах валюты
type Breakdown struct {
	BaseAmount     int64
	PlatformFee    int64
	Tax            int64
	DiscountAmount int64
	FinalAmount    int64
}

// Subtotal сумма до скидки
func (b Breakdown) Subtotal() int64 {
	return b.BaseAmount + b.PlatformFee + b.Tax
}

// Calculate рассчитывает стоимость слота
//
//	base     = pricePerHour * minutes / 60
//	platform = base * platformFeeBps / 10000
//	tax      = (base + platform) * taxBps / 10000
//	final    = max(0, base + platform + tax - discount)
//
// Каждое деление округляется половиной вверх. coupon может быть nil.
func Calculate(pricePerHour int64, minutes int, platformFeeBps, taxBps int64, coupon *domain.Coupon) (Breakdown, error) {
	if pricePerHour < 0 || minutes <= 0 || platformFeeBps < 0 || taxBps < 0 {
		return Breakdown{}, fmt.Errorf("%w: price=%d minutes=%d platformFeeBps=%d taxBps=%d",
			ErrInvalidInput, pricePerHour, minutes, platformFeeBps, taxBps)
	}

	var b Breakdown
	b.BaseAmount = mulDivRound(pricePerHour, int64(minutes), 60)
	b.PlatformFee = mulDivRound(b.BaseAmount, platformFeeBps, domain.BasisPointsDenominator)
	b.Tax = mulDivRound(b.BaseAmount+b.PlatformFee, taxBps, domain.BasisPointsDenominator)
	b.DiscountAmount = Discount(coupon, b.BaseAmount)

	b.FinalAmount = b.Subtotal() - b.DiscountAmount
	if b.FinalAmount < 0 {
		b.FinalAmount = 0
	}

	return b, nil
}

// Discount рассчитывает скидку купона от базовой суммы
// Проценты ограничиваются MaxDiscountAmount, фиксированная скидка не превышает базовую сумму
func Discount(coupon *domain.Coupon, baseAmount int64) int64 {
	if coupon == nil || baseAmount <= 0 || coupon.DiscountValue <= 0 {
		return 0
	}

	var discount int64
	switch coupon.DiscountType {
	case domain.DiscountPercentage:
		discount = mulDivRound(baseAmount, coupon.DiscountValue, 100)
		if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
			discount = *coupon.MaxDiscountAmount
		}
	case domain.DiscountFixedAmount:
		discount = coupon.DiscountValue
	default:
		return 0
	}

	if discount > baseAmount {
		discount = baseAmount
	}
	if discount < 0 {
		return 0
	}
	return discount
}

// mulDivRound вычисляет a*b/d с округлением половины вверх для неотрицательных значений
func mulDivRound(a, b, d int64) int64 {
	return (a*b + d/2) / d
}
