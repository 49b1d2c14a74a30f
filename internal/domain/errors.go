package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by every layer. Package-level errors wrap one of these,
// so callers can match either the precise error or its kind.
var (
	ErrValidation       = errors.New("validation error")
	ErrSlotUnavailable  = errors.New("slot unavailable")
	ErrPolicyViolation  = errors.New("policy violation")
	ErrAlreadyFinalized = errors.New("booking already finalized")
	ErrNotFound         = errors.New("not found")
	ErrGateway          = errors.New("payment gateway error")
	ErrExpiredSession   = errors.New("payment session expired")
)

// ErrForbidden is the policy violation of acting on someone else's booking
var ErrForbidden = fmt.Errorf("access denied: %w", ErrPolicyViolation)

// Coupon rule violations
var (
	ErrCouponInactive       = fmt.Errorf("coupon is not active: %w", ErrPolicyViolation)
	ErrCouponNotYetValid    = fmt.Errorf("coupon is not valid yet: %w", ErrPolicyViolation)
	ErrCouponExpired        = fmt.Errorf("coupon has expired: %w", ErrPolicyViolation)
	ErrCouponUsageExceeded  = fmt.Errorf("coupon usage limit reached: %w", ErrPolicyViolation)
	ErrCouponUserLimit      = fmt.Errorf("coupon already used by this user: %w", ErrPolicyViolation)
	ErrCouponMinimumNotMet  = fmt.Errorf("booking amount is below coupon minimum: %w", ErrPolicyViolation)
	ErrInvalidTransition    = fmt.Errorf("invalid booking status transition: %w", ErrAlreadyFinalized)
	ErrInvalidBookingStatus = fmt.Errorf("invalid booking status: %w", ErrValidation)
)

// KindOf returns the error kind err belongs to, or nil for unclassified errors
func KindOf(err error) error {
	for _, kind := range []error{
		ErrValidation,
		ErrSlotUnavailable,
		ErrPolicyViolation,
		ErrAlreadyFinalized,
		ErrNotFound,
		ErrGateway,
		ErrExpiredSession,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
