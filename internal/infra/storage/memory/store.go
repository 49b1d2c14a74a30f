// Package memory is an in-process storage driver. It implements the same
// repository method sets as the Postgres packages and reuses their errors,
// so services cannot tell the two apart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

type txKey struct{}

type hoursKey struct {
	facilityID int64
	day        time.Weekday
}

type couponUsage struct {
	couponID  int64
	userID    int64
	bookingID int64
}

type state struct {
	courts   map[int64]domain.Court
	hours    map[hoursKey]domain.OperatingHours
	slots    map[int64]domain.TimeSlot
	bookings map[int64]domain.Booking
	payments map[int64]domain.Payment // by booking id
	coupons  map[int64]domain.Coupon
	usages   []couponUsage
	policies map[int64]domain.FacilityPolicy
	seq      int64
}

func newState() *state {
	return &state{
		courts:   make(map[int64]domain.Court),
		hours:    make(map[hoursKey]domain.OperatingHours),
		slots:    make(map[int64]domain.TimeSlot),
		bookings: make(map[int64]domain.Booking),
		payments: make(map[int64]domain.Payment),
		coupons:  make(map[int64]domain.Coupon),
		policies: make(map[int64]domain.FacilityPolicy),
	}
}

func (s *state) clone() *state {
	c := &state{
		courts:   make(map[int64]domain.Court, len(s.courts)),
		hours:    make(map[hoursKey]domain.OperatingHours, len(s.hours)),
		slots:    make(map[int64]domain.TimeSlot, len(s.slots)),
		bookings: make(map[int64]domain.Booking, len(s.bookings)),
		payments: make(map[int64]domain.Payment, len(s.payments)),
		coupons:  make(map[int64]domain.Coupon, len(s.coupons)),
		usages:   append([]couponUsage(nil), s.usages...),
		policies: make(map[int64]domain.FacilityPolicy, len(s.policies)),
		seq:      s.seq,
	}
	for k, v := range s.courts {
		c.courts[k] = v
	}
	for k, v := range s.hours {
		c.hours[k] = v
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.coupons {
		c.coupons[k] = v
	}
	for k, v := range s.policies {
		c.policies[k] = v
	}
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store holds all rows behind one mutex.
// Stored structs are replaced, never mutated in place, so a shallow map copy
// is a consistent snapshot.
type Store struct {
	mu    sync.Mutex
	data  *state
	clock func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: newState(), clock: time.Now}
}

// WithClock replaces the clock used for created_at/updated_at stamps
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// lock takes the store mutex unless ctx already runs inside a store transaction
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// TxManager runs functions against a snapshot of the store.
// The snapshot is restored when the function fails or panics.
type TxManager struct {
	store *Store
}

// NewTxManager creates a transaction manager bound to the store
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Do runs fn in a transaction
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoSerializable runs fn in a transaction. Transactions are executed one at a
// time, which is stronger than serializable isolation.
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

// DoReadOnly runs fn in a transaction
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s := m.store
	if ctx.Value(txKey{}) == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.data = snapshot
	}
	return err
}
