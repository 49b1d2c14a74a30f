package pricing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/ptr"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		minutes int
		coupon  *domain.Coupon
		want    Breakdown
	}{
		{
			name:    "one hour without coupon",
			price:   50000,
			minutes: 60,
			want:    Breakdown{BaseAmount: 50000, PlatformFee: 1500, Tax: 9270, FinalAmount: 60770},
		},
		{
			name:    "percentage coupon capped by max discount",
			price:   50000,
			minutes: 60,
			coupon: &domain.Coupon{
				DiscountType:      domain.DiscountPercentage,
				DiscountValue:     20,
				MaxDiscountAmount: ptr.Ptr[int64](8000),
			},
			want: Breakdown{BaseAmount: 50000, PlatformFee: 1500, Tax: 9270, DiscountAmount: 8000, FinalAmount: 52770},
		},
		{
			name:    "fixed coupon limited by base amount",
			price:   1000,
			minutes: 60,
			coupon:  &domain.Coupon{DiscountType: domain.DiscountFixedAmount, DiscountValue: 5000},
			want:    Breakdown{BaseAmount: 1000, PlatformFee: 30, Tax: 185, DiscountAmount: 1000, FinalAmount: 215},
		},
		{
			name:    "half hour rounds half up",
			price:   333,
			minutes: 30,
			want:    Breakdown{BaseAmount: 167, PlatformFee: 5, Tax: 31, FinalAmount: 203},
		},
		{
			name:    "free slot",
			price:   0,
			minutes: 60,
			want:    Breakdown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.price, tt.minutes, domain.DefaultPlatformFeeBps, domain.DefaultTaxBps, tt.coupon)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculate_InvalidInput(t *testing.T) {
	_, err := Calculate(-1, 60, 300, 1800, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Calculate(50000, 0, 300, 1800, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculate_Invariants(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		price := rnd.Int63n(500000)
		minutes := 15 * (1 + rnd.Intn(16))

		var coupon *domain.Coupon
		switch rnd.Intn(3) {
		case 1:
			coupon = &domain.Coupon{DiscountType: domain.DiscountPercentage, DiscountValue: 1 + rnd.Int63n(100)}
			if rnd.Intn(2) == 0 {
				coupon.MaxDiscountAmount = ptr.Ptr[int64](rnd.Int63n(20000))
			}
		case 2:
			coupon = &domain.Coupon{DiscountType: domain.DiscountFixedAmount, DiscountValue: rnd.Int63n(600000)}
		}

		b, err := Calculate(price, minutes, domain.DefaultPlatformFeeBps, domain.DefaultTaxBps, coupon)
		require.NoError(t, err)

		require.GreaterOrEqual(t, b.FinalAmount, int64(0))
		require.LessOrEqual(t, b.DiscountAmount, b.BaseAmount)
		require.GreaterOrEqual(t, b.DiscountAmount, int64(0))

		expected := b.BaseAmount + b.PlatformFee + b.Tax - b.DiscountAmount
		if expected < 0 {
			expected = 0
		}
		require.Equal(t, expected, b.FinalAmount, "price=%d minutes=%d", price, minutes)

		if coupon != nil && coupon.MaxDiscountAmount != nil {
			require.LessOrEqual(t, b.DiscountAmount, *coupon.MaxDiscountAmount)
		}
	}
}

func TestDiscount_UnknownType(t *testing.T) {
	assert.Zero(t, Discount(&domain.Coupon{DiscountType: "bogus", DiscountValue: 10}, 1000))
	assert.Zero(t, Discount(nil, 1000))
}
