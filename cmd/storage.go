package main

import (
	"context"
	"database/sql"
	"time"

	bookingRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	couponRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/coupon"
	facilityRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/facility"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/memory"
	paymentRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/payment"
	policyRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/policy"
	timeslotRepo "github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/timeslot"
	bookingsService "github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
	paymentsService "github.com/m04kA/SMC-CourtBookingService/internal/service/payments"
	policyService "github.com/m04kA/SMC-CourtBookingService/internal/service/policy"
	pricingService "github.com/m04kA/SMC-CourtBookingService/internal/service/pricing"
	slotsService "github.com/m04kA/SMC-CourtBookingService/internal/service/slots"
	generateSlotsUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/generate_slots"
	getAvailableSlotsUC "github.com/m04kA/SMC-CourtBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/metrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-CourtBookingService/pkg/txmanager"
)

// Репозитории, собранные для выбранного драйвера хранилища
// Каждое поле удовлетворяет интерфейсам всех потребителей

type slotStore interface {
	bookingsService.SlotRepository
	pricingService.SlotReader
	slotsService.SlotRepository
	generateSlotsUC.SlotRepository
	getAvailableSlotsUC.SlotRepository
}

type bookingStore interface {
	bookingsService.BookingRepository
}

type paymentStore interface {
	bookingsService.PaymentRepository
	paymentsService.PaymentRepository
}

type couponStore interface {
	bookingsService.CouponRepository
	pricingService.CouponRepository
}

type facilityStore interface {
	bookingsService.CourtRepository
	generateSlotsUC.CourtRepository
}

type txManager interface {
	bookingsService.TransactionManager
}

type storage struct {
	slots      slotStore
	bookings   bookingStore
	payments   paymentStore
	coupons    couponStore
	facilities facilityStore
	policies   policyService.PolicyRepository
	tx         txManager
}

// newPostgresStorage собирает репозитории поверх PostgreSQL
// С включенными метриками запросы идут через обертку dbmetrics
func newPostgresStorage(db *sql.DB, m *metrics.Metrics, serviceName string, stopCh <-chan struct{}) *storage {
	if m == nil {
		return &storage{
			slots:      timeslotRepo.NewRepository(db),
			bookings:   bookingRepo.NewRepository(db),
			payments:   paymentRepo.NewRepository(db),
			coupons:    couponRepo.NewRepository(db),
			facilities: facilityRepo.NewRepository(db),
			policies:   policyRepo.NewRepository(db),
			tx:         simpletxmanager.NewTransactionManager(db),
		}
	}

	wrapped := dbmetrics.WrapWithDefault(db, m, serviceName, stopCh)
	return &storage{
		slots:      timeslotRepo.NewRepository(wrapped),
		bookings:   bookingRepo.NewRepository(wrapped),
		payments:   paymentRepo.NewRepository(wrapped),
		coupons:    couponRepo.NewRepository(wrapped),
		facilities: facilityRepo.NewRepository(wrapped),
		policies:   policyRepo.NewRepository(wrapped),
		tx:         txmanager.NewTransactionManager(wrapped).WithMetrics(m),
	}
}

// newMemoryStorage собирает репозитории в памяти с демонстрационными данными
func newMemoryStorage(now time.Time) *storage {
	store := memory.NewStore()
	store.SeedDemo(now)

	return &storage{
		slots:      store.Slots(),
		bookings:   store.Bookings(),
		payments:   store.Payments(),
		coupons:    store.Coupons(),
		facilities: store.Facilities(),
		policies:   store.Policies(),
		tx:         memory.NewTxManager(store),
	}
}

// openPostgres открывает пул соединений и проверяет доступность базы
func openPostgres(ctx context.Context, dsn string, maxOpen, maxIdle int, connMaxLifetime time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
