package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/timeslot"
)

// SlotRepository is the in-memory counterpart of timeslot.Repository
type SlotRepository struct {
	store *Store
}

// Slots returns the slot repository of the store
func (s *Store) Slots() *SlotRepository {
	return &SlotRepository{store: s}
}

func (r *SlotRepository) findByKey(key domain.SlotKey) (domain.TimeSlot, bool) {
	date := domain.NormalizeDate(key.Date)
	for _, slot := range r.store.data.slots {
		if slot.CourtID == key.CourtID && slot.Date.Equal(date) && slot.StartTime == key.StartTime {
			return slot, true
		}
	}
	return domain.TimeSlot{}, false
}

// Acquire marks a free slot as booked
func (r *SlotRepository) Acquire(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	defer r.store.lock(ctx)()

	slot, ok := r.findByKey(key)
	if !ok {
		return nil, timeslot.ErrSlotNotFound
	}
	if !slot.IsAvailable() {
		return nil, timeslot.ErrSlotNotAvailable
	}

	slot.IsBooked = true
	slot.UpdatedAt = r.store.clock()
	r.store.data.slots[slot.ID] = slot

	return &slot, nil
}

// AttachBooking links a booked slot to its booking
func (r *SlotRepository) AttachBooking(ctx context.Context, slotID, bookingID int64) error {
	defer r.store.lock(ctx)()

	slot, ok := r.store.data.slots[slotID]
	if !ok || !slot.IsBooked {
		return timeslot.ErrSlotNotHeld
	}

	slot.BookingID = &bookingID
	slot.UpdatedAt = r.store.clock()
	r.store.data.slots[slotID] = slot

	return nil
}

// Release frees a slot held by the booking
func (r *SlotRepository) Release(ctx context.Context, slotID, bookingID int64) error {
	defer r.store.lock(ctx)()

	slot, ok := r.store.data.slots[slotID]
	if !ok || slot.BookingID == nil || *slot.BookingID != bookingID {
		return timeslot.ErrSlotNotHeld
	}

	slot.IsBooked = false
	slot.BookingID = nil
	slot.UpdatedAt = r.store.clock()
	r.store.data.slots[slotID] = slot

	return nil
}

// GetByID returns a slot by id
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	defer r.store.lock(ctx)()

	slot, ok := r.store.data.slots[id]
	if !ok {
		return nil, timeslot.ErrSlotNotFound
	}
	return &slot, nil
}

// GetByKey returns a slot by court, date and start time
func (r *SlotRepository) GetByKey(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	defer r.store.lock(ctx)()

	slot, ok := r.findByKey(key)
	if !ok {
		return nil, timeslot.ErrSlotNotFound
	}
	return &slot, nil
}

// ListByCourtAndDate returns the slots of a court on a date ordered by start time
func (r *SlotRepository) ListByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.TimeSlot, error) {
	defer r.store.lock(ctx)()

	return r.list(courtID, []time.Time{date}), nil
}

// ListByCourtAndDatesForUpdate returns the slots of a court on several dates
func (r *SlotRepository) ListByCourtAndDatesForUpdate(ctx context.Context, courtID int64, dates []time.Time) ([]*domain.TimeSlot, error) {
	defer r.store.lock(ctx)()

	return r.list(courtID, dates), nil
}

func (r *SlotRepository) list(courtID int64, dates []time.Time) []*domain.TimeSlot {
	wanted := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		wanted[domain.NormalizeDate(d)] = struct{}{}
	}

	slots := make([]*domain.TimeSlot, 0)
	for _, slot := range r.store.data.slots {
		if slot.CourtID != courtID {
			continue
		}
		if _, ok := wanted[slot.Date]; !ok {
			continue
		}
		slot := slot
		slots = append(slots, &slot)
	}

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	return slots
}

// DeleteByIDs removes unbooked slots
func (r *SlotRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	defer r.store.lock(ctx)()

	for _, id := range ids {
		if slot, ok := r.store.data.slots[id]; ok && !slot.IsBooked {
			delete(r.store.data.slots, id)
		}
	}
	return nil
}

// InsertBatch stores new slots and assigns their ids
func (r *SlotRepository) InsertBatch(ctx context.Context, slots []*domain.TimeSlot) error {
	defer r.store.lock(ctx)()

	now := r.store.clock()
	for _, slot := range slots {
		stored := *slot
		stored.ID = r.store.data.nextID()
		stored.Date = domain.NormalizeDate(stored.Date)
		stored.CreatedAt = now
		stored.UpdatedAt = now
		r.store.data.slots[stored.ID] = stored
		slot.ID = stored.ID
	}
	return nil
}

// Block marks a free slot as blocked
func (r *SlotRepository) Block(ctx context.Context, slotID int64, reason string) (*domain.TimeSlot, error) {
	return r.setBlocked(ctx, slotID, true, &reason)
}

// Unblock clears the block of a slot
func (r *SlotRepository) Unblock(ctx context.Context, slotID int64) (*domain.TimeSlot, error) {
	return r.setBlocked(ctx, slotID, false, nil)
}

func (r *SlotRepository) setBlocked(ctx context.Context, slotID int64, blocked bool, reason *string) (*domain.TimeSlot, error) {
	defer r.store.lock(ctx)()

	slot, ok := r.store.data.slots[slotID]
	if !ok {
		return nil, timeslot.ErrSlotNotFound
	}
	if slot.IsBooked {
		return nil, timeslot.ErrSlotNotAvailable
	}

	slot.IsBlocked = blocked
	slot.BlockReason = reason
	slot.UpdatedAt = r.store.clock()
	r.store.data.slots[slotID] = slot

	return &slot, nil
}
