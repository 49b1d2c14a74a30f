package domain

import "time"

// Policy holds the engine-wide business rules loaded from configuration
type Policy struct {
	PlatformFeeBps     int64
	TaxBps             int64
	Currency           string
	Location           *time.Location
	SessionTTL         time.Duration
	CancellationNotice time.Duration
	ModificationNotice time.Duration
	ModifyMinDaysAhead int
	ModifyMaxDaysAhead int
	AdvanceBookingDays int
}

// DefaultPolicy returns the documented defaults in UTC
func DefaultPolicy() Policy {
	return Policy{
		PlatformFeeBps:     DefaultPlatformFeeBps,
		TaxBps:             DefaultTaxBps,
		Currency:           DefaultCurrency,
		Location:           time.UTC,
		SessionTTL:         DefaultPaymentSessionTTLMinutes * time.Minute,
		CancellationNotice: DefaultCancellationNoticeMinutes * time.Minute,
		ModificationNotice: DefaultModificationNoticeMinutes * time.Minute,
		ModifyMinDaysAhead: DefaultModificationMinDaysAhead,
		ModifyMaxDaysAhead: DefaultModificationMaxDaysAhead,
		AdvanceBookingDays: DefaultAdvanceBookingDays,
	}
}

// Loc returns the facility time zone, UTC when unset
func (p Policy) Loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Today returns the current calendar date in the facility time zone
func (p Policy) Today(now time.Time) time.Time {
	return DateOf(now, p.Loc())
}

// DateOf truncates t to its calendar date in loc. Dates are carried as
// midnight UTC, the way the database driver returns DATE columns.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// NormalizeDate drops the clock part of a date, keeping its calendar day
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
