package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// transitions is the booking lifecycle: pending -> {confirmed, cancelled},
// confirmed -> {cancelled, completed}. Cancelled and completed are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// ParseBookingStatus converts a raw string into a known status
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidBookingStatus, s)
	}
	return status, nil
}

// IsValid returns true for the four known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal returns true if no transition leaves this status
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo reports whether the lifecycle allows s -> to
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ActorKind identifies who triggered a transition
type ActorKind string

const (
	ActorKindUser   ActorKind = "user"
	ActorKindSystem ActorKind = "system"
)

// Actor is the initiator of a booking transition
type Actor struct {
	Kind   ActorKind
	UserID int64
}

// UserActor builds an actor for an end user
func UserActor(userID int64) Actor {
	return Actor{Kind: ActorKindUser, UserID: userID}
}

// SystemActor builds the actor used by sweeps and gateway callbacks
func SystemActor() Actor {
	return Actor{Kind: ActorKindSystem}
}

// IsSystem returns true for the system actor
func (a Actor) IsSystem() bool {
	return a.Kind == ActorKindSystem
}

// String renders the actor as stored in cancelled_by and audit events
func (a Actor) String() string {
	if a.IsSystem() {
		return ActorSystem
	}
	return "user:" + strconv.FormatInt(a.UserID, 10)
}

// Booking represents a court reservation
type Booking struct {
	ID          int64
	PublicID    string
	CourtID     int64
	FacilityID  int64
	UserID      int64
	SlotID      int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	Status      BookingStatus

	// Amounts in minor currency units
	BaseAmount      int64
	PlatformFee     int64
	Tax             int64
	DiscountAmount  int64
	FinalAmount     int64
	ModificationFee int64
	CancellationFee int64
	Currency        string

	AppliedCouponCode  *string
	CancelledBy        *string
	CancellationReason *string
	CancelledAt        *time.Time
	ConfirmedAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true while the booking holds its slot
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// IsOwnedBy returns true if the booking belongs to the user
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// StartsAt returns the absolute start of the booked slot
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return b.StartTime.On(b.BookingDate, loc)
}

// EndsAt returns the absolute end of the booked slot
func (b *Booking) EndsAt(loc *time.Location) (time.Time, error) {
	return b.EndTime.On(b.BookingDate, loc)
}

// DurationMinutes returns the booked duration
func (b *Booking) DurationMinutes() (int, error) {
	return b.StartTime.MinutesUntil(b.EndTime)
}

// UserBookingsFilter filters a user's booking history
type UserBookingsFilter struct {
	UserID int64
	Status *BookingStatus
}
