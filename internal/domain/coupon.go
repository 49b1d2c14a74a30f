package domain

import "time"

// DiscountType defines how a coupon value is applied
type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

// Coupon is a discount code.
// DiscountValue is a percent for percentage coupons and minor units for fixed ones.
type Coupon struct {
	ID                int64
	Code              string
	DiscountType      DiscountType
	DiscountValue     int64
	MinBookingAmount  *int64
	MaxDiscountAmount *int64
	UsageLimit        *int
	UserUsageLimit    *int
	UsedCount         int
	ValidFrom         time.Time
	ValidUntil        time.Time
	IsActive          bool
}

// CouponUsage counts redemptions of a coupon.
// Held counts live pending bookings that carry the code: they redeem it on confirmation.
type CouponUsage struct {
	Held         int
	UserRedeemed int
	UserHeld     int
}

// CheckUsable validates the coupon against the booking base amount,
// its total usage and the usage by the requesting user
func (c *Coupon) CheckUsable(now time.Time, baseAmount int64, usage CouponUsage) error {
	if !c.IsActive {
		return ErrCouponInactive
	}
	if now.Before(c.ValidFrom) {
		return ErrCouponNotYetValid
	}
	if now.After(c.ValidUntil) {
		return ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsedCount+usage.Held >= *c.UsageLimit {
		return ErrCouponUsageExceeded
	}
	if c.UserUsageLimit != nil && usage.UserRedeemed+usage.UserHeld >= *c.UserUsageLimit {
		return ErrCouponUserLimit
	}
	if c.MinBookingAmount != nil && baseAmount < *c.MinBookingAmount {
		return ErrCouponMinimumNotMet
	}
	return nil
}
