package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricing"
	"github.com/m04kA/SMC-CourtBookingService/pkg/logger"
	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

const (
	courtID = 1
	ownerID = 7
	otherID = 8
)

// Понедельник, 2 марта 2026, 09:00 UTC
var start = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingSink struct {
	mu        sync.Mutex
	events    []domain.AuditEvent
	snapshots []domain.BookingSnapshot
}

func (s *recordingSink) Record(_ context.Context, event domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) PublishSnapshot(_ context.Context, snapshot domain.BookingSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
}

func (s *recordingSink) Events() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuditEvent(nil), s.events...)
}

func (s *recordingSink) Snapshots() []domain.BookingSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BookingSnapshot(nil), s.snapshots...)
}

type fixture struct {
	svc   *Service
	store *memory.Store
	clock *testClock
	sink  *recordingSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &testClock{now: start}
	store := memory.NewStore().WithClock(clock.Now)
	store.AddCourt(domain.Court{ID: courtID, FacilityID: 10, Name: "Court 1", PricePerHour: 50000, IsActive: true})

	policy := domain.DefaultPolicy()
	policy.Location = time.UTC

	log := logger.NewNop()
	sink := &recordingSink{}
	var m *metrics.Metrics

	engine := pricing.NewEngine(store.Coupons(), store.Slots(), policy, log).WithTimeProvider(clock)
	svc := NewService(Deps{
		Slots:            store.Slots(),
		Bookings:         store.Bookings(),
		Payments:         store.Payments(),
		Coupons:          store.Coupons(),
		Courts:           store.Facilities(),
		Pricing:          engine,
		CancellationFees: pricing.NoFees{},
		ModificationFees: pricing.NoFees{},
		Audit:            sink,
		Snapshots:        sink,
		Metrics:          m,
		TxManager:        memory.NewTxManager(store),
	}, policy, log).WithTimeProvider(clock)

	return &fixture{svc: svc, store: store, clock: clock, sink: sink}
}

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fixture) addSlot(date, from, to string) domain.TimeSlot {
	return f.store.AddSlot(domain.TimeSlot{
		CourtID:      courtID,
		Date:         day(date),
		StartTime:    types.MustTimeString(from),
		EndTime:      types.MustTimeString(to),
		PricePerHour: 50000,
	})
}

func (f *fixture) reserve(t *testing.T, date, from, to string) *domain.Booking {
	t.Helper()

	b, _, err := f.svc.Reserve(context.Background(), &models.ReserveRequest{
		UserID:    ownerID,
		CourtID:   courtID,
		Date:      day(date),
		StartTime: types.MustTimeString(from),
		EndTime:   types.MustTimeString(to),
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) confirm(t *testing.T, b *domain.Booking) *domain.Booking {
	t.Helper()

	confirmed, err := f.svc.Confirm(context.Background(), b.ID, domain.PaymentProof{Amount: b.FinalAmount, TransactionID: "pi_1"})
	require.NoError(t, err)
	return confirmed
}

func (f *fixture) slot(t *testing.T, id int64) *domain.TimeSlot {
	t.Helper()

	s, err := f.store.Slots().GetByID(context.Background(), id)
	require.NoError(t, err)
	return s
}
