package domain

// Default configuration values
const (
	DefaultPlatformFeeBps            = 300  // 3%
	DefaultTaxBps                    = 1800 // 18%
	DefaultCurrency                  = "INR"
	DefaultTimeZone                  = "Asia/Kolkata"
	DefaultPaymentSessionTTLMinutes  = 30
	DefaultCancellationNoticeMinutes = 120  // 2 hours
	DefaultModificationNoticeMinutes = 1440 // 24 hours
	DefaultModificationMinDaysAhead  = 1
	DefaultModificationMaxDaysAhead  = 30
	DefaultAdvanceBookingDays        = 30
	DefaultSweepIntervalSeconds      = 60
)

// Business validation constants
const (
	BasisPointsDenominator      = 10000
	MinSlotDurationMinutes      = 15
	MaxSlotDurationMinutes      = 480 // 8 hours
	MaxCancellationReasonLength = 500
	MaxBlockReasonLength        = 255
	MaxCouponCodeLength         = 64
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActorSystem is recorded as the actor of sweeps and gateway callbacks
const ActorSystem = "system"

// ActiveStatuses are the statuses that hold a slot
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
