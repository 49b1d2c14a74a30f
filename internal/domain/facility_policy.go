package domain

import "time"

// FacilityPolicy is the fee schedule applied when bookings are cancelled or moved.
// Supports hierarchical configuration:
// 1. Court-specific (facility_id, court_id)
// 2. Facility-wide (facility_id, NULL)
// With no row at either level no fee is charged.
type FacilityPolicy struct {
	ID                    int64
	FacilityID            int64
	CourtID               *int64 // NULL = policy for every court of the facility
	CancellationFeeBps    int64  // share of FinalAmount kept on late cancellation
	CancellationFlatFee   int64  // minor units, added to the bps part
	FreeCancellationHours int    // cancelling at least this many hours ahead is free
	ModificationFee       int64  // minor units charged per reschedule
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsFacilityWide returns true if this policy applies to every court
func (p *FacilityPolicy) IsFacilityWide() bool {
	return p.CourtID == nil
}

// IsCourtSpecific returns true if this policy overrides one court
func (p *FacilityPolicy) IsCourtSpecific() bool {
	return p.CourtID != nil
}

// HasCancellationFee returns true if a late cancellation costs anything
func (p *FacilityPolicy) HasCancellationFee() bool {
	return p.CancellationFeeBps > 0 || p.CancellationFlatFee > 0
}
