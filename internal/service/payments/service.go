package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings"
)

const (
	// maxCreateAttempts первая попытка и один автоматический повтор
	maxCreateAttempts = 2

	defaultSweepBatchSize = 100

	reasonPaymentCancelled = "payment cancelled by user"
	reasonSessionExpired   = "payment session expired"
)

// Config параметры координатора платежей
type Config struct {
	PublicBaseURL  string
	SweepBatchSize int
}

// Deps зависимости координатора платежей
type Deps struct {
	Bookings BookingStateMachine
	Payments PaymentRepository
	Gateway  Gateway
	Dedup    DedupStore
	Metrics  MetricsRecorder
}

// Service координатор платежных сессий
// Вызовы провайдера выполняются вне транзакций машины состояний
type Service struct {
	bookings     BookingStateMachine
	paymentRepo  PaymentRepository
	gateway      Gateway
	dedup        DedupStore
	metrics      MetricsRecorder
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр координатора платежей
func NewService(deps Deps, cfg Config, logger Logger) *Service {
	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = defaultSweepBatchSize
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	return &Service{
		bookings:     deps.Bookings,
		paymentRepo:  deps.Payments,
		gateway:      deps.Gateway,
		dedup:        deps.Dedup,
		metrics:      deps.Metrics,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// StartSession открывает платежную сессию для только что созданного бронирования
// При сбое провайдера делается один повтор; если и он неудачен, платеж помечается failed,
// бронирование остается pending и оплату можно повторить через RetryPayment
func (s *Service) StartSession(ctx context.Context, booking *domain.Booking) (*domain.Payment, error) {
	s.logger.Info("StartSession: booking id=%d amount=%d %s", booking.ID, booking.FinalAmount, booking.Currency)

	policy := s.bookings.Policy()
	session, err := s.createWithRetry(ctx, paymentgateway.CheckoutRequest{
		BookingID: booking.ID,
		PublicID:  booking.PublicID,
		UserID:    booking.UserID,
		Amount:    booking.FinalAmount,
		Currency:  booking.Currency,
		Description: fmt.Sprintf("Court %d, %s %s-%s",
			booking.CourtID, booking.BookingDate.Format(domain.DateFormat), booking.StartTime, booking.EndTime),
		SuccessURL: fmt.Sprintf("%s/api/v1/payments/%s/success?session_id={CHECKOUT_SESSION_ID}", s.cfg.PublicBaseURL, booking.PublicID),
		CancelURL:  fmt.Sprintf("%s/api/v1/payments/%s/cancel", s.cfg.PublicBaseURL, booking.PublicID),
		ExpiresAt:  booking.CreatedAt.Add(policy.SessionTTL),
	})

	if err != nil {
		s.logger.Error("StartSession: gateway failed for booking id=%d: %v", booking.ID, err)
		if markErr := s.paymentRepo.MarkFailed(ctx, booking.ID, err.Error()); markErr != nil {
			s.logger.Error("StartSession: failed to mark payment of booking id=%d failed: %v", booking.ID, markErr)
		}
		payment, _ := s.paymentRepo.GetByBookingID(ctx, booking.ID)
		return payment, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if err := s.paymentRepo.AttachSession(ctx, booking.ID, session.ID, session.URL, s.timeProvider.Now()); err != nil {
		if errors.Is(err, domain.ErrAlreadyFinalized) {
			s.logger.Warn("StartSession: payment of booking id=%d is no longer awaiting payment", booking.ID)
			return nil, ErrNotRetryable
		}
		s.logger.Error("StartSession: failed to store session for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: StartSession - attach session: %w", ErrInternal, err)
	}

	payment, err := s.paymentRepo.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: StartSession - reload payment: %w", ErrInternal, err)
	}

	s.logger.Info("StartSession: session %s attached to booking id=%d", session.ID, booking.ID)
	return payment, nil
}

// RetryPayment открывает новую сессию для ожидающего оплаты бронирования
// Сумма не пересчитывается, слот повторно не проверяется
// Предыдущая сессия закрывается у провайдера, чтобы оплатить можно было только одну
func (s *Service) RetryPayment(ctx context.Context, bookingID, userID int64) (*domain.Payment, error) {
	s.logger.Info("RetryPayment: booking id=%d by user=%d", bookingID, userID)

	booking, payment, err := s.bookings.GetWithPayment(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.IsOwnedBy(userID) {
		s.logger.Warn("RetryPayment: access denied for user=%d to booking id=%d", userID, bookingID)
		return nil, ErrAccessDenied
	}
	if booking.Status != domain.StatusPending || payment == nil || !payment.IsRetryable() {
		s.logger.Warn("RetryPayment: booking id=%d is %s, payment is not retryable", bookingID, booking.Status)
		return nil, ErrNotRetryable
	}
	if s.timeProvider.Now().Sub(booking.CreatedAt) > s.bookings.Policy().SessionTTL {
		s.logger.Warn("RetryPayment: booking id=%d created at %s is past the payment window", bookingID, booking.CreatedAt)
		return nil, ErrSessionExpired
	}

	if payment.HasSession() {
		confirmed, err := s.closeSession(ctx, bookingID, *payment.GatewaySessionID)
		if err != nil {
			s.logger.Error("RetryPayment: failed to close session of booking id=%d: %v", bookingID, err)
			return nil, err
		}
		if confirmed {
			s.logger.Info("RetryPayment: previous session of booking id=%d was paid, no new session", bookingID)
			paid, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
			if err != nil {
				return nil, fmt.Errorf("%w: RetryPayment - reload payment: %w", ErrInternal, err)
			}
			return paid, nil
		}
	}

	return s.StartSession(ctx, booking)
}

// HandleSuccess обрабатывает возврат пользователя после оплаты
// Бронирование ищется по публичному идентификатору из ссылки возврата
// Оплата проверяется у провайдера, затем бронирование подтверждается
func (s *Service) HandleSuccess(ctx context.Context, publicID string, sessionID string) (*domain.Booking, error) {
	s.logger.Info("HandleSuccess: booking public_id=%s session=%s", publicID, sessionID)

	booking, payment, err := s.bookings.GetWithPaymentByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	bookingID := booking.ID

	sessionID, err = resolveSession(payment, sessionID)
	if err != nil {
		s.logger.Warn("HandleSuccess: booking id=%d: %v", bookingID, err)
		return nil, err
	}

	// Повторный переход по ссылке после подтверждения
	if booking.Status == domain.StatusConfirmed {
		return booking, nil
	}

	state, err := s.verify(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !state.IsPaid() {
		s.logger.Warn("HandleSuccess: session %s of booking id=%d is %s", sessionID, bookingID, state.Status)
		return nil, ErrPaymentNotCompleted
	}

	return s.bookings.Confirm(ctx, bookingID, state.Proof())
}

// HandleCancel обрабатывает отказ пользователя от оплаты: сессия закрывается, бронирование отменяется
// Если провайдер сообщает, что сессия все же оплачена, бронирование подтверждается
// Подтвержденное бронирование этой ссылкой не отменяется
func (s *Service) HandleCancel(ctx context.Context, publicID string, sessionID string) (*domain.Booking, error) {
	s.logger.Info("HandleCancel: booking public_id=%s session=%s", publicID, sessionID)

	booking, payment, err := s.bookings.GetWithPaymentByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	bookingID := booking.ID

	if booking.Status != domain.StatusPending {
		s.logger.Warn("HandleCancel: booking id=%d is %s", bookingID, booking.Status)
		return nil, ErrNotRetryable
	}

	if payment != nil && payment.HasSession() {
		sessionID, err = resolveSession(payment, sessionID)
		if err != nil {
			s.logger.Warn("HandleCancel: booking id=%d: %v", bookingID, err)
			return nil, err
		}

		// Сессия закрывается у провайдера, чтобы ее нельзя было оплатить после отмены
		confirmed, err := s.closeSession(ctx, bookingID, sessionID)
		if err != nil {
			return nil, err
		}
		if confirmed {
			s.logger.Warn("HandleCancel: session %s of booking id=%d is paid, confirmed instead", sessionID, bookingID)
			paid, _, err := s.bookings.GetWithPayment(ctx, bookingID)
			if err != nil {
				return nil, err
			}
			return paid, nil
		}
	}

	released, err := s.bookings.ReleaseUnpaid(ctx, bookingID, sessionID, reasonPaymentCancelled)
	if err != nil {
		return nil, err
	}
	if !released {
		s.logger.Warn("HandleCancel: booking id=%d was not released", bookingID)
		return nil, ErrNotRetryable
	}

	cancelled, _, err := s.bookings.GetWithPayment(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// HandleWebhook обрабатывает подписанное событие провайдера
// Повторные доставки одного события отбрасываются по его идентификатору
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, paymentgateway.ErrUnsupportedEvent) {
			s.logger.Info("HandleWebhook: ignoring event: %v", err)
			return nil
		}
		return err
	}

	first, err := s.dedup.MarkProcessed(ctx, event.ID)
	if err != nil {
		// Переходы идемпотентны, поэтому событие обрабатывается и без отметки
		s.logger.Error("HandleWebhook: dedup store failed for event %s: %v", event.ID, err)
		first = true
	}
	if !first {
		s.logger.Info("HandleWebhook: duplicate event %s dropped", event.ID)
		return nil
	}

	s.logger.Info("HandleWebhook: event %s type=%s booking id=%d session=%s", event.ID, event.Type, event.BookingID, event.SessionID)

	switch event.Type {
	case paymentgateway.EventSessionCompleted:
		if !event.Paid {
			s.logger.Info("HandleWebhook: session %s completed without payment yet", event.SessionID)
			return nil
		}
		_, err = s.bookings.Confirm(ctx, event.BookingID, event.Proof())
	case paymentgateway.EventSessionExpired:
		// Истечение устаревшей сессии не затрагивает бронирование
		var released bool
		released, err = s.bookings.ReleaseUnpaid(ctx, event.BookingID, event.SessionID, reasonSessionExpired)
		if err == nil && !released {
			s.logger.Info("HandleWebhook: session %s is not the live session of booking id=%d, event %s ignored",
				event.SessionID, event.BookingID, event.ID)
		}
	}

	if err != nil {
		if errors.Is(err, domain.ErrAlreadyFinalized) {
			s.logger.Info("HandleWebhook: booking id=%d already finalized, event %s ignored", event.BookingID, event.ID)
			return nil
		}
		if errors.Is(err, bookings.ErrSessionMismatch) {
			// Повторная доставка ничего не изменит, оплату нужно вернуть вручную
			s.logger.Error("HandleWebhook: paid session %s is not the live session of booking id=%d, refund required",
				event.SessionID, event.BookingID)
			return nil
		}
		// Снимаем отметку, чтобы повторная доставка была обработана
		if forgetErr := s.dedup.Forget(ctx, event.ID); forgetErr != nil {
			s.logger.Error("HandleWebhook: failed to forget event %s: %v", event.ID, forgetErr)
		}
		s.logger.Error("HandleWebhook: failed to apply event %s: %v", event.ID, err)
		return err
	}

	return nil
}

// SweepResult итог обхода просроченных резервов
type SweepResult struct {
	Confirmed int
	Reaped    int
	Failed    int
}

// SweepExpired обходит ожидающие оплаты бронирования старше TTL сессии
// Оплаченные у провайдера сессии подтверждаются, остальные резервы снимаются
// Ошибки по отдельным бронированиям логируются, бронирование будет обработано следующим обходом
// Выборка идет страницами по ID, поэтому неудачные бронирования не заслоняют остальные
func (s *Service) SweepExpired(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	checked := 0
	afterID := int64(0)

	for {
		expired, err := s.bookings.ListExpiredPending(ctx, afterID, s.cfg.SweepBatchSize)
		if err != nil {
			return result, err
		}

		for _, booking := range expired {
			afterID = booking.ID
			s.sweepOne(ctx, booking.ID, &result)
		}
		checked += len(expired)

		if len(expired) < s.cfg.SweepBatchSize || ctx.Err() != nil {
			break
		}
	}

	if checked > 0 {
		s.logger.Info("SweepExpired: checked=%d confirmed=%d reaped=%d failed=%d",
			checked, result.Confirmed, result.Reaped, result.Failed)
	}
	return result, ctx.Err()
}

// sweepOne сверяет одно просроченное бронирование с провайдером и снимает резерв
func (s *Service) sweepOne(ctx context.Context, bookingID int64, result *SweepResult) {
	confirmed, err := s.reconcile(ctx, bookingID)
	if err != nil {
		s.logger.Warn("SweepExpired: failed to reconcile booking id=%d: %v", bookingID, err)
		result.Failed++
		return
	}
	if confirmed {
		result.Confirmed++
		return
	}

	reaped, err := s.bookings.ExpireReap(ctx, bookingID)
	if err != nil {
		s.logger.Warn("SweepExpired: failed to reap booking id=%d: %v", bookingID, err)
		result.Failed++
		return
	}
	if reaped {
		result.Reaped++
	}
}

// reconcile подтверждает бронирование, если его сессия оплачена, но подтверждение не дошло
func (s *Service) reconcile(ctx context.Context, bookingID int64) (bool, error) {
	payment, err := s.paymentRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: reconcile - get payment: %w", ErrInternal, err)
	}
	if !payment.HasSession() {
		return false, nil
	}

	state, err := s.verify(ctx, *payment.GatewaySessionID)
	if err != nil {
		if errors.Is(err, paymentgateway.ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	if !state.IsPaid() {
		return false, nil
	}

	if _, err := s.bookings.Confirm(ctx, bookingID, state.Proof()); err != nil {
		if errors.Is(err, domain.ErrAlreadyFinalized) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info("SweepExpired: booking id=%d confirmed from paid session %s", bookingID, state.SessionID)
	return true, nil
}

// closeSession закрывает сессию у провайдера перед выпуском новой
// Возвращает true, если сессия уже оплачена и бронирование подтверждено по ней
func (s *Service) closeSession(ctx context.Context, bookingID int64, sessionID string) (bool, error) {
	state, err := s.verify(ctx, sessionID)
	if err != nil {
		if errors.Is(err, paymentgateway.ErrSessionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if state.Status == paymentgateway.SessionOpen {
		err = s.gateway.ExpireSession(ctx, sessionID)
		switch {
		case err == nil, errors.Is(err, paymentgateway.ErrSessionNotFound):
			s.metrics.RecordGatewayCall("expire_session", "ok")
			return false, nil
		case errors.Is(err, paymentgateway.ErrSessionNotOpen):
			// Сессию оплатили между проверкой и закрытием
			s.metrics.RecordGatewayCall("expire_session", "ok")
			if state, err = s.verify(ctx, sessionID); err != nil {
				return false, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
			}
		default:
			s.metrics.RecordGatewayCall("expire_session", "error")
			return false, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
	}

	if !state.IsPaid() {
		return false, nil
	}

	if _, err := s.bookings.Confirm(ctx, bookingID, state.Proof()); err != nil {
		return false, err
	}
	s.logger.Info("closeSession: booking id=%d confirmed from paid session %s", bookingID, sessionID)
	return true, nil
}

// createWithRetry создает сессию, повторяя вызов один раз при ошибке провайдера
func (s *Service) createWithRetry(ctx context.Context, req paymentgateway.CheckoutRequest) (*paymentgateway.CheckoutSession, error) {
	var lastErr error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		session, err := s.gateway.CreateCheckoutSession(ctx, req)
		if err == nil {
			s.metrics.RecordGatewayCall("create_session", "ok")
			return session, nil
		}

		s.metrics.RecordGatewayCall("create_session", "error")
		lastErr = err
		if !errors.Is(err, domain.ErrGateway) {
			break
		}
		s.logger.Warn("StartSession: attempt %d/%d failed for booking id=%d: %v", attempt, maxCreateAttempts, req.BookingID, err)
	}
	return nil, lastErr
}

func (s *Service) verify(ctx context.Context, sessionID string) (*paymentgateway.SessionState, error) {
	state, err := s.gateway.VerifySession(ctx, sessionID)
	if err != nil {
		s.metrics.RecordGatewayCall("verify_session", "error")
		s.logger.Error("verify: session %s: %v", sessionID, err)
		return nil, err
	}
	s.metrics.RecordGatewayCall("verify_session", "ok")
	return state, nil
}

// resolveSession проверяет, что сессия принадлежит платежу; пустой идентификатор заменяется текущим
func resolveSession(payment *domain.Payment, sessionID string) (string, error) {
	if payment == nil || !payment.HasSession() {
		return "", ErrNoSession
	}
	if sessionID == "" {
		return *payment.GatewaySessionID, nil
	}
	if *payment.GatewaySessionID != sessionID {
		return "", ErrSessionMismatch
	}
	return sessionID, nil
}
