package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
)

// BookingRepository is the in-memory counterpart of booking.Repository
type BookingRepository struct {
	store *Store
}

// Bookings returns the booking repository of the store
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Create stores a new booking
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	defer r.store.lock(ctx)()

	for _, existing := range r.store.data.bookings {
		if existing.SlotID == b.SlotID && existing.IsActive() {
			return nil, booking.ErrStatusConflict
		}
	}

	now := r.store.clock()
	b.ID = r.store.data.nextID()
	b.BookingDate = domain.NormalizeDate(b.BookingDate)
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	r.store.data.bookings[b.ID] = *b

	return b, nil
}

// GetByID returns a booking by id
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	defer r.store.lock(ctx)()

	b, ok := r.store.data.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return &b, nil
}

// GetByPublicID returns a booking by its public id
func (r *BookingRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Booking, error) {
	defer r.store.lock(ctx)()

	for _, b := range r.store.data.bookings {
		if b.PublicID == publicID {
			return &b, nil
		}
	}
	return nil, booking.ErrBookingNotFound
}

// GetByIDForUpdate returns a booking by id. Inside a store transaction the
// whole store is already locked.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

// GetByUserID returns the bookings of a user, newest slot first
func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	defer r.store.lock(ctx)()

	result := r.filter(func(b domain.Booking) bool {
		return b.UserID == userID && (status == nil || b.Status == *status)
	})

	sort.Slice(result, func(i, j int) bool {
		if !result[i].BookingDate.Equal(result[j].BookingDate) {
			return result[i].BookingDate.After(result[j].BookingDate)
		}
		return result[i].StartTime.IsAfter(result[j].StartTime)
	})

	return result, nil
}

// ListPendingCreatedBefore returns pending bookings created before cutoff,
// ordered by id and starting after afterID
func (r *BookingRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, afterID int64, limit int) ([]*domain.Booking, error) {
	defer r.store.lock(ctx)()

	result := r.filter(func(b domain.Booking) bool {
		return b.Status == domain.StatusPending && b.CreatedAt.Before(cutoff) && b.ID > afterID
	})

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return truncate(result, limit), nil
}

// ListConfirmedEndedBefore returns confirmed bookings whose slot ended before
// localNow, compared on the facility wall clock
func (r *BookingRepository) ListConfirmedEndedBefore(ctx context.Context, localNow time.Time, limit int) ([]*domain.Booking, error) {
	defer r.store.lock(ctx)()

	wallNow := time.Date(localNow.Year(), localNow.Month(), localNow.Day(),
		localNow.Hour(), localNow.Minute(), localNow.Second(), 0, time.UTC)

	result := r.filter(func(b domain.Booking) bool {
		if b.Status != domain.StatusConfirmed {
			return false
		}
		end, err := b.EndTime.On(b.BookingDate, time.UTC)
		return err == nil && end.Before(wallNow)
	})

	sort.Slice(result, func(i, j int) bool {
		if !result[i].BookingDate.Equal(result[j].BookingDate) {
			return result[i].BookingDate.Before(result[j].BookingDate)
		}
		return result[i].EndTime.IsBefore(result[j].EndTime)
	})

	return truncate(result, limit), nil
}

// MarkConfirmed moves a pending booking to confirmed
func (r *BookingRepository) MarkConfirmed(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, id, domain.StatusPending, func(b *domain.Booking) {
		b.Status = domain.StatusConfirmed
		b.ConfirmedAt = &at
		b.UpdatedAt = at
	})
}

// MarkCompleted moves a confirmed booking to completed
func (r *BookingRepository) MarkCompleted(ctx context.Context, id int64, at time.Time) error {
	return r.update(ctx, id, domain.StatusConfirmed, func(b *domain.Booking) {
		b.Status = domain.StatusCompleted
		b.CompletedAt = &at
		b.UpdatedAt = at
	})
}

// Cancel cancels a booking still in status from
func (r *BookingRepository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, info booking.CancelInfo) error {
	return r.update(ctx, id, from, func(b *domain.Booking) {
		cancelledBy := info.CancelledBy
		at := info.At
		b.Status = domain.StatusCancelled
		b.CancelledBy = &cancelledBy
		b.CancellationReason = info.Reason
		b.CancellationFee = info.Fee
		b.CancelledAt = &at
		b.UpdatedAt = at
	})
}

// Reschedule moves a confirmed booking to another slot
func (r *BookingRepository) Reschedule(ctx context.Context, id int64, info booking.RescheduleInfo) error {
	now := r.store.clock()
	return r.update(ctx, id, domain.StatusConfirmed, func(b *domain.Booking) {
		b.SlotID = info.SlotID
		b.BookingDate = domain.NormalizeDate(info.BookingDate)
		b.StartTime = info.StartTime
		b.EndTime = info.EndTime
		b.ModificationFee += info.ModificationFee
		b.FinalAmount += info.ModificationFee
		b.UpdatedAt = now
	})
}

func (r *BookingRepository) update(ctx context.Context, id int64, from domain.BookingStatus, apply func(b *domain.Booking)) error {
	defer r.store.lock(ctx)()

	b, ok := r.store.data.bookings[id]
	if !ok || b.Status != from {
		return booking.ErrStatusConflict
	}

	apply(&b)
	r.store.data.bookings[id] = b

	return nil
}

func (r *BookingRepository) filter(keep func(b domain.Booking) bool) []*domain.Booking {
	result := make([]*domain.Booking, 0)
	for _, b := range r.store.data.bookings {
		if keep(b) {
			b := b
			result = append(result, &b)
		}
	}
	return result
}

func truncate(bookings []*domain.Booking, limit int) []*domain.Booking {
	if limit > 0 && len(bookings) > limit {
		return bookings[:limit]
	}
	return bookings
}
