package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
)

const reasonSessionExpired = "payment session expired"

// Confirm подтверждает оплаченное бронирование: pending -> confirmed, платеж -> completed
// Повторный вызов возвращает ErrAlreadyFinalized и ничего не меняет
func (s *Service) Confirm(ctx context.Context, bookingID int64, proof domain.PaymentProof) (*domain.Booking, error) {
	s.logger.Info("Confirm: confirming booking id=%d, session=%s", bookingID, proof.SessionID)

	now := s.timeProvider.Now()
	var booking *domain.Booking
	var payment *domain.Payment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.lockBooking(txCtx, "Confirm", bookingID)
		if err != nil {
			return err
		}

		if b.Status != domain.StatusPending {
			s.logger.Warn("Confirm: booking id=%d is %s", bookingID, b.Status)
			return fmt.Errorf("%w: status is %s", ErrAlreadyFinalized, b.Status)
		}

		p, err := s.paymentRepo.GetByBookingIDForUpdate(txCtx, bookingID)
		if err != nil {
			s.logger.Error("Confirm: failed to lock payment of booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Confirm - lock payment: %w", ErrInternal, err)
		}
		if p.Status == domain.PaymentCompleted {
			return fmt.Errorf("%w: payment already completed", ErrAlreadyFinalized)
		}
		if proof.SessionID != "" && p.HasSession() && *p.GatewaySessionID != proof.SessionID {
			s.logger.Warn("Confirm: session=%s does not match current session of booking id=%d", proof.SessionID, bookingID)
			return ErrSessionMismatch
		}
		if proof.Amount != b.FinalAmount {
			s.logger.Warn("Confirm: paid amount=%d differs from final amount=%d for booking id=%d", proof.Amount, b.FinalAmount, bookingID)
			return fmt.Errorf("%w: paid %d, expected %d", ErrAmountMismatch, proof.Amount, b.FinalAmount)
		}

		if err := s.bookingRepo.MarkConfirmed(txCtx, bookingID, now); err != nil {
			return statusError("Confirm - mark booking confirmed", err)
		}

		var transactionID *string
		if proof.TransactionID != "" {
			txID := proof.TransactionID
			transactionID = &txID
		}
		if err := s.paymentRepo.MarkCompleted(txCtx, bookingID, transactionID, now); err != nil {
			return statusError("Confirm - mark payment completed", err)
		}

		if b.AppliedCouponCode != nil {
			if err := s.couponRepo.IncrementUsage(txCtx, *b.AppliedCouponCode, b.UserID, b.ID); err != nil {
				s.logger.Error("Confirm: failed to record coupon usage for booking id=%d: %v", bookingID, err)
				return fmt.Errorf("%w: Confirm - increment coupon usage: %w", ErrInternal, err)
			}
		}

		b.Status = domain.StatusConfirmed
		b.ConfirmedAt = &now
		b.UpdatedAt = now
		p.Status = domain.PaymentCompleted
		p.TransactionID = transactionID
		p.PaidAt = &now

		booking = b
		payment = p
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.publish(ctx, transitionRecord{
		booking: booking,
		payment: payment,
		from:    domain.StatusPending,
		actor:   domain.SystemActor(),
		reason:  "payment completed",
		at:      now,
	})

	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)
	return booking, nil
}

// Cancel отменяет бронирование и освобождает слот
// pending отменяется всегда, confirmed - только если до начала больше окна отмены
func (s *Service) Cancel(ctx context.Context, req *models.CancelRequest) (*domain.Booking, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by %s", req.BookingID, req.Actor)

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	now := s.timeProvider.Now()
	var rec transitionRecord

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.lockBooking(txCtx, "Cancel", req.BookingID)
		if err != nil {
			return err
		}

		if !req.Actor.IsSystem() && !b.IsOwnedBy(req.Actor.UserID) {
			s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", req.Actor.UserID, req.BookingID)
			return ErrAccessDenied
		}

		if !b.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", req.BookingID, b.Status)
			return fmt.Errorf("%w: status is %s", ErrAlreadyFinalized, b.Status)
		}

		if b.Status == domain.StatusConfirmed {
			startsAt, err := b.StartsAt(s.policy.Loc())
			if err != nil {
				return fmt.Errorf("%w: Cancel - booking start: %w", ErrInternal, err)
			}
			if startsAt.Sub(now) <= s.policy.CancellationNotice {
				s.logger.Warn("Cancel: booking id=%d starts at %s, inside the %s cancellation window",
					req.BookingID, startsAt, s.policy.CancellationNotice)
				return ErrCancellationWindow
			}
		}

		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}

		rec, err = s.cancelLocked(txCtx, b, req.Actor, reason, now)
		return err
	})

	if err != nil {
		return nil, err
	}

	s.publish(ctx, rec)

	s.logger.Info("Cancel: successfully cancelled booking id=%d, fee=%d", req.BookingID, rec.booking.CancellationFee)
	return rec.booking, nil
}

// ExpireReap отменяет от имени системы ожидающее оплаты бронирование старше TTL сессии
// Возвращает false без ошибки, если бронирование уже не pending, оплачено или еще не истекло
func (s *Service) ExpireReap(ctx context.Context, bookingID int64) (bool, error) {
	return s.releaseUnpaid(ctx, "ExpireReap", bookingID, reasonSessionExpired,
		func(b *domain.Booking, _ *domain.Payment, now time.Time) bool {
			return now.Sub(b.CreatedAt) > s.policy.SessionTTL
		})
}

// ReleaseUnpaid отменяет от имени системы неоплаченное бронирование по сигналу провайдера
// Если sessionID задан, отмена выполняется только когда это текущая сессия платежа
// Возвращает false без ошибки, если бронирование уже не pending, оплачено или сессия устарела
func (s *Service) ReleaseUnpaid(ctx context.Context, bookingID int64, sessionID, reason string) (bool, error) {
	return s.releaseUnpaid(ctx, "ReleaseUnpaid", bookingID, reason,
		func(_ *domain.Booking, p *domain.Payment, _ time.Time) bool {
			if sessionID == "" {
				return true
			}
			return p != nil && p.HasSession() && *p.GatewaySessionID == sessionID
		})
}

// releaseUnpaid снимает резерв pending-бронирования с незавершенным платежом, если eligible разрешает
func (s *Service) releaseUnpaid(
	ctx context.Context,
	op string,
	bookingID int64,
	reason string,
	eligible func(b *domain.Booking, p *domain.Payment, now time.Time) bool,
) (bool, error) {
	now := s.timeProvider.Now()
	var rec transitionRecord
	released := false

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.lockBooking(txCtx, op, bookingID)
		if err != nil {
			return err
		}

		if b.Status != domain.StatusPending {
			return nil
		}

		p, err := s.paymentRepo.GetByBookingIDForUpdate(txCtx, bookingID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: %s - lock payment: %w", ErrInternal, op, err)
		}
		if p != nil && p.Status == domain.PaymentCompleted {
			return nil
		}
		if !eligible(b, p, now) {
			return nil
		}

		rec, err = s.cancelLocked(txCtx, b, domain.SystemActor(), reason, now)
		if err != nil {
			return err
		}
		released = true
		return nil
	})

	if err != nil {
		return false, err
	}
	if !released {
		return false, nil
	}

	s.publish(ctx, rec)

	s.logger.Info("%s: released booking id=%d created at %s", op, bookingID, rec.booking.CreatedAt)
	return true, nil
}

// Complete завершает подтвержденное бронирование после окончания слота
// Для уже завершенного бронирования ничего не делает
func (s *Service) Complete(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	now := s.timeProvider.Now()
	var booking *domain.Booking
	transitioned := false

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := s.lockBooking(txCtx, "Complete", bookingID)
		if err != nil {
			return err
		}

		booking = b
		if b.Status == domain.StatusCompleted {
			return nil
		}
		if b.Status != domain.StatusConfirmed {
			return fmt.Errorf("%w: status is %s", ErrAlreadyFinalized, b.Status)
		}

		endsAt, err := b.EndsAt(s.policy.Loc())
		if err != nil {
			return fmt.Errorf("%w: Complete - booking end: %w", ErrInternal, err)
		}
		if !now.After(endsAt) {
			return ErrNotEnded
		}

		if err := s.bookingRepo.MarkCompleted(txCtx, bookingID, now); err != nil {
			return statusError("Complete - mark completed", err)
		}

		b.Status = domain.StatusCompleted
		b.CompletedAt = &now
		b.UpdatedAt = now
		transitioned = true
		return nil
	})

	if err != nil {
		return nil, err
	}

	if transitioned {
		s.publish(ctx, transitionRecord{
			booking: booking,
			from:    domain.StatusConfirmed,
			actor:   domain.SystemActor(),
			reason:  "slot ended",
			at:      now,
		})
		s.logger.Info("Complete: booking id=%d completed", bookingID)
	}

	return booking, nil
}

// cancelLocked выполняет отмену заблокированного бронирования внутри транзакции
func (s *Service) cancelLocked(txCtx context.Context, b *domain.Booking, actor domain.Actor, reason string, now time.Time) (transitionRecord, error) {
	from := b.Status

	fee, err := s.cancellationFees.CancellationFee(txCtx, b, now)
	if err != nil {
		s.logger.Error("Cancel: failed to compute cancellation fee for booking id=%d: %v", b.ID, err)
		return transitionRecord{}, fmt.Errorf("%w: cancel - cancellation fee: %w", ErrInternal, err)
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	err = s.bookingRepo.Cancel(txCtx, b.ID, from, booking.CancelInfo{
		CancelledBy: actor.String(),
		Reason:      reasonPtr,
		Fee:         fee,
		At:          now,
	})
	if err != nil {
		return transitionRecord{}, statusError("cancel - update booking", err)
	}

	if err := s.slotRepo.Release(txCtx, b.SlotID, b.ID); err != nil {
		s.logger.Error("Cancel: failed to release slot id=%d of booking id=%d: %v", b.SlotID, b.ID, err)
		return transitionRecord{}, fmt.Errorf("%w: cancel - release slot: %w", ErrInternal, err)
	}

	if err := s.paymentRepo.MarkCancelled(txCtx, b.ID); err != nil && !errors.Is(err, domain.ErrAlreadyFinalized) {
		s.logger.Error("Cancel: failed to cancel payment of booking id=%d: %v", b.ID, err)
		return transitionRecord{}, fmt.Errorf("%w: cancel - cancel payment: %w", ErrInternal, err)
	}

	// Использование купона учитывается только при подтверждении
	if from == domain.StatusConfirmed && b.AppliedCouponCode != nil {
		if err := s.couponRepo.DecrementUsage(txCtx, *b.AppliedCouponCode, b.ID); err != nil {
			s.logger.Error("Cancel: failed to revert coupon usage for booking id=%d: %v", b.ID, err)
			return transitionRecord{}, fmt.Errorf("%w: cancel - decrement coupon usage: %w", ErrInternal, err)
		}
	}

	cancelledBy := actor.String()
	b.Status = domain.StatusCancelled
	b.CancelledBy = &cancelledBy
	b.CancellationReason = reasonPtr
	b.CancellationFee = fee
	b.CancelledAt = &now
	b.UpdatedAt = now

	payment, err := s.paymentRepo.GetByBookingID(txCtx, b.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return transitionRecord{}, fmt.Errorf("%w: cancel - reload payment: %w", ErrInternal, err)
	}

	return transitionRecord{
		booking: b,
		payment: payment,
		from:    from,
		actor:   actor,
		reason:  reason,
		at:      now,
	}, nil
}
