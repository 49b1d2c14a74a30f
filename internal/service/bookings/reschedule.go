package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
)

// Reschedule переносит подтвержденное бронирование на другой слот того же корта
// Новый слот захватывается до освобождения старого, все шаги - одна транзакция:
// если новый слот недоступен, бронирование и старый слот не меняются
func (s *Service) Reschedule(ctx context.Context, req *models.RescheduleRequest) (*domain.Booking, error) {
	s.logger.Info("Reschedule: booking id=%d to date=%s start=%s by %s",
		req.BookingID, req.NewDate.Format(domain.DateFormat), req.NewStartTime, req.Actor)

	if err := req.NewStartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: new start time: %v", ErrInvalidTimeRange, err)
	}

	now := s.timeProvider.Now()
	newDate := domain.NormalizeDate(req.NewDate)
	var result *domain.Booking
	var oldSlotID int64
	var fee int64

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.lockBooking(txCtx, "Reschedule", req.BookingID)
		if err != nil {
			return err
		}

		if !req.Actor.IsSystem() && !b.IsOwnedBy(req.Actor.UserID) {
			s.logger.Warn("Reschedule: access denied for user=%d to booking id=%d", req.Actor.UserID, req.BookingID)
			return ErrAccessDenied
		}
		if b.Status != domain.StatusConfirmed {
			s.logger.Warn("Reschedule: booking id=%d is %s", req.BookingID, b.Status)
			return fmt.Errorf("%w: only confirmed bookings can be modified, status is %s", ErrAlreadyFinalized, b.Status)
		}
		if b.BookingDate.Equal(newDate) && b.StartTime == req.NewStartTime {
			return ErrSameSlot
		}

		if req.Guard != nil {
			if err := req.Guard(b, now); err != nil {
				s.logger.Warn("Reschedule: booking id=%d rejected by policy: %v", req.BookingID, err)
				return err
			}
		}

		// 1. Захватываем новый слот
		newSlot, err := s.slotRepo.Acquire(txCtx, domain.SlotKey{
			CourtID:   b.CourtID,
			Date:      newDate,
			StartTime: req.NewStartTime,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				return ErrSlotNotFound
			case errors.Is(err, domain.ErrSlotUnavailable):
				s.logger.Warn("Reschedule: new slot date=%s start=%s is not available", newDate.Format(domain.DateFormat), req.NewStartTime)
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("%w: Reschedule - acquire new slot: %w", ErrInternal, err)
		}

		oldSlot, err := s.slotRepo.GetByID(txCtx, b.SlotID)
		if err != nil {
			return fmt.Errorf("%w: Reschedule - get current slot: %w", ErrInternal, err)
		}

		// 2. Плата за перенос
		fee, err = s.modificationFees.ModificationFee(txCtx, b, oldSlot, newSlot)
		if err != nil {
			return fmt.Errorf("%w: Reschedule - modification fee: %w", ErrInternal, err)
		}

		// 3. Освобождаем старый слот и переносим бронирование
		if err := s.slotRepo.Release(txCtx, oldSlot.ID, b.ID); err != nil {
			return fmt.Errorf("%w: Reschedule - release old slot: %w", ErrInternal, err)
		}
		if err := s.slotRepo.AttachBooking(txCtx, newSlot.ID, b.ID); err != nil {
			return fmt.Errorf("%w: Reschedule - attach new slot: %w", ErrInternal, err)
		}

		err = s.bookingRepo.Reschedule(txCtx, b.ID, booking.RescheduleInfo{
			SlotID:          newSlot.ID,
			BookingDate:     newSlot.Date,
			StartTime:       newSlot.StartTime,
			EndTime:         newSlot.EndTime,
			ModificationFee: fee,
		})
		if err != nil {
			return statusError("Reschedule - update booking", err)
		}

		oldSlotID = oldSlot.ID
		b.SlotID = newSlot.ID
		b.BookingDate = newSlot.Date
		b.StartTime = newSlot.StartTime
		b.EndTime = newSlot.EndTime
		b.ModificationFee += fee
		b.FinalAmount += fee
		b.UpdatedAt = now
		result = b
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.publish(ctx, transitionRecord{
		booking: result,
		from:    domain.StatusConfirmed,
		actor:   req.Actor,
		reason:  fmt.Sprintf("rescheduled from slot %d to slot %d", oldSlotID, result.SlotID),
		at:      now,
	})

	s.logger.Info("Reschedule: booking id=%d moved from slot id=%d to slot id=%d, fee=%d",
		req.BookingID, oldSlotID, result.SlotID, fee)
	return result, nil
}
