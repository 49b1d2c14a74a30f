package domain

import "time"

// AuditEvent records one booking transition
type AuditEvent struct {
	ID         string        `json:"id"`
	Actor      string        `json:"actor"`
	BookingID  int64         `json:"bookingId"`
	FromStatus BookingStatus `json:"fromStatus,omitempty"`
	ToStatus   BookingStatus `json:"toStatus"`
	Reason     string        `json:"reason,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// BookingSnapshot is handed to the receipt generator after confirm or cancel
type BookingSnapshot struct {
	BookingID       int64         `json:"bookingId"`
	PublicID        string        `json:"publicId"`
	UserID          int64         `json:"userId"`
	CourtID         int64         `json:"courtId"`
	FacilityID      int64         `json:"facilityId"`
	Date            string        `json:"date"`
	StartTime       string        `json:"startTime"`
	EndTime         string        `json:"endTime"`
	Status          BookingStatus `json:"status"`
	BaseAmount      int64         `json:"baseAmount"`
	PlatformFee     int64         `json:"platformFee"`
	Tax             int64         `json:"tax"`
	DiscountAmount  int64         `json:"discountAmount"`
	FinalAmount     int64         `json:"finalAmount"`
	ModificationFee int64         `json:"modificationFee"`
	CancellationFee int64         `json:"cancellationFee"`
	Currency        string        `json:"currency"`
	CouponCode      *string       `json:"couponCode,omitempty"`
	TransactionID   *string       `json:"transactionId,omitempty"`
	OccurredAt      time.Time     `json:"occurredAt"`
}

// NewBookingSnapshot copies the receipt-relevant fields of a booking
func NewBookingSnapshot(b *Booking, p *Payment, at time.Time) BookingSnapshot {
	snapshot := BookingSnapshot{
		BookingID:       b.ID,
		PublicID:        b.PublicID,
		UserID:          b.UserID,
		CourtID:         b.CourtID,
		FacilityID:      b.FacilityID,
		Date:            b.BookingDate.Format(DateFormat),
		StartTime:       b.StartTime.String(),
		EndTime:         b.EndTime.String(),
		Status:          b.Status,
		BaseAmount:      b.BaseAmount,
		PlatformFee:     b.PlatformFee,
		Tax:             b.Tax,
		DiscountAmount:  b.DiscountAmount,
		FinalAmount:     b.FinalAmount,
		ModificationFee: b.ModificationFee,
		CancellationFee: b.CancellationFee,
		Currency:        b.Currency,
		CouponCode:      b.AppliedCouponCode,
		OccurredAt:      at,
	}
	if p != nil {
		snapshot.TransactionID = p.TransactionID
	}
	return snapshot
}
