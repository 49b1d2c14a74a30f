package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
)

// Deps зависимости сервиса бронирований
type Deps struct {
	Slots            SlotRepository
	Bookings         BookingRepository
	Payments         PaymentRepository
	Coupons          CouponRepository
	Courts           CourtRepository
	Pricing          PriceQuoter
	CancellationFees CancellationFeePolicy
	ModificationFees ModificationFeeSchedule
	Audit            AuditSink
	Snapshots        SnapshotPublisher
	Metrics          MetricsRecorder
	TxManager        TransactionManager
}

// Service машина состояний бронирования
// Единственный компонент, который меняет занятость слотов
type Service struct {
	slotRepo         SlotRepository
	bookingRepo      BookingRepository
	paymentRepo      PaymentRepository
	couponRepo       CouponRepository
	courtRepo        CourtRepository
	pricing          PriceQuoter
	cancellationFees CancellationFeePolicy
	modificationFees ModificationFeeSchedule
	audit            AuditSink
	snapshots        SnapshotPublisher
	metrics          MetricsRecorder
	txManager        TransactionManager
	policy           domain.Policy
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(deps Deps, policy domain.Policy, logger Logger) *Service {
	return &Service{
		slotRepo:         deps.Slots,
		bookingRepo:      deps.Bookings,
		paymentRepo:      deps.Payments,
		couponRepo:       deps.Coupons,
		courtRepo:        deps.Courts,
		pricing:          deps.Pricing,
		cancellationFees: deps.CancellationFees,
		modificationFees: deps.ModificationFees,
		audit:            deps.Audit,
		snapshots:        deps.Snapshots,
		metrics:          deps.Metrics,
		txManager:        deps.TxManager,
		policy:           policy,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Policy возвращает бизнес-политику сервиса
func (s *Service) Policy() domain.Policy {
	return s.policy
}

// GetByID получает бронирование вместе с платежом
// Пользователь может видеть только своё бронирование
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, payment, err := s.GetWithPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.IsOwnedBy(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, payment), nil
}

// GetWithPayment получает бронирование и его платеж без проверки прав
func (s *Service) GetWithPayment(ctx context.Context, id int64) (*domain.Booking, *domain.Payment, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetWithPayment: booking id=%d not found", id)
			return nil, nil, ErrBookingNotFound
		}
		s.logger.Error("GetWithPayment: repository error for booking id=%d: %v", id, err)
		return nil, nil, fmt.Errorf("%w: GetWithPayment - get booking: %w", ErrInternal, err)
	}

	payment, err := s.paymentRepo.GetByBookingID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("GetWithPayment: repository error for payment of booking id=%d: %v", id, err)
		return nil, nil, fmt.Errorf("%w: GetWithPayment - get payment: %w", ErrInternal, err)
	}

	return booking, payment, nil
}

// GetWithPaymentByPublicID получает бронирование и платеж по публичному идентификатору
// Используется в ссылках возврата от провайдера, где внутренний ID не раскрывается
func (s *Service) GetWithPaymentByPublicID(ctx context.Context, publicID string) (*domain.Booking, *domain.Payment, error) {
	booking, err := s.bookingRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetWithPaymentByPublicID: booking public_id=%s not found", publicID)
			return nil, nil, ErrBookingNotFound
		}
		s.logger.Error("GetWithPaymentByPublicID: repository error for booking public_id=%s: %v", publicID, err)
		return nil, nil, fmt.Errorf("%w: GetWithPaymentByPublicID - get booking: %w", ErrInternal, err)
	}

	return s.GetWithPayment(ctx, booking.ID)
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.UserID != req.RequesterID {
		s.logger.Warn("GetUserBookings: user=%d requested bookings of user=%d", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	var status *domain.BookingStatus
	if req.Status != nil {
		parsed, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		status = &parsed
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// ListExpiredPending возвращает ожидающие оплаты бронирования старше TTL сессии
// Страница начинается после afterID в порядке возрастания ID
func (s *Service) ListExpiredPending(ctx context.Context, afterID int64, limit int) ([]*domain.Booking, error) {
	cutoff := s.timeProvider.Now().Add(-s.policy.SessionTTL)

	bookings, err := s.bookingRepo.ListPendingCreatedBefore(ctx, cutoff, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredPending - repository error: %w", ErrInternal, err)
	}
	return bookings, nil
}

// CompleteEnded завершает подтвержденные бронирования, слот которых закончился
// Ошибки по отдельным бронированиям логируются и не прерывают обход
func (s *Service) CompleteEnded(ctx context.Context, limit int) (int, error) {
	localNow := s.timeProvider.Now().In(s.policy.Loc())

	bookings, err := s.bookingRepo.ListConfirmedEndedBefore(ctx, localNow, limit)
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteEnded - repository error: %w", ErrInternal, err)
	}

	completed := 0
	for _, b := range bookings {
		if _, err := s.Complete(ctx, b.ID); err != nil {
			s.logger.Warn("CompleteEnded: failed to complete booking id=%d: %v", b.ID, err)
			continue
		}
		completed++
	}

	return completed, nil
}

// Вспомогательные методы

// lockBooking получает бронирование с блокировкой строки внутри транзакции
func (s *Service) lockBooking(txCtx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: failed to lock booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - lock booking: %w", ErrInternal, op, err)
	}
	return booking, nil
}

// statusError переводит ошибку условного обновления в ошибку сервиса
func statusError(op string, err error) error {
	if errors.Is(err, domain.ErrAlreadyFinalized) {
		return fmt.Errorf("%w: %s - status changed concurrently", ErrAlreadyFinalized, op)
	}
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

// transitionRecord данные перехода, публикуемые после фиксации транзакции
type transitionRecord struct {
	booking *domain.Booking
	payment *domain.Payment
	from    domain.BookingStatus
	actor   domain.Actor
	reason  string
	at      time.Time
}

// publish отправляет событие аудита, метрику и снимок для чеков
// Вызывается только после успешной фиксации транзакции
func (s *Service) publish(ctx context.Context, rec transitionRecord) {
	to := rec.booking.Status

	s.audit.Record(ctx, domain.AuditEvent{
		ID:         uuid.NewString(),
		Actor:      rec.actor.String(),
		BookingID:  rec.booking.ID,
		FromStatus: rec.from,
		ToStatus:   to,
		Reason:     rec.reason,
		Timestamp:  rec.at,
	})

	s.metrics.RecordTransition(string(rec.from), string(to))

	if rec.from != to && (to == domain.StatusConfirmed || to == domain.StatusCancelled) {
		s.snapshots.PublishSnapshot(ctx, domain.NewBookingSnapshot(rec.booking, rec.payment, rec.at))
	}
}
