package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/pricing"
)

// Reserve резервирует слот за пользователем
// Проверка слота, его захват, расчет стоимости и создание бронирования с платежом
// выполняются в одной сериализуемой транзакции: из конкурирующих запросов
// на один слот успешен ровно один, остальные получают ErrSlotNotAvailable
func (s *Service) Reserve(ctx context.Context, req *models.ReserveRequest) (*domain.Booking, *domain.Payment, error) {
	s.logger.Info("Reserve: user=%d, court=%d, date=%s, time=%s-%s",
		req.UserID, req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	if err := validateReserveRequest(req); err != nil {
		s.logger.Warn("Reserve: validation failed: %v", err)
		return nil, nil, err
	}

	now := s.timeProvider.Now()
	date := domain.NormalizeDate(req.Date)

	today := s.policy.Today(now)
	if date.Before(today) || date.After(today.AddDate(0, 0, s.policy.AdvanceBookingDays)) {
		s.logger.Warn("Reserve: date=%s outside booking horizon of %d days", date.Format(domain.DateFormat), s.policy.AdvanceBookingDays)
		return nil, nil, ErrBookingDateOutOfRange
	}

	court, err := s.courtRepo.GetCourt(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Reserve: court id=%d not found", req.CourtID)
			return nil, nil, ErrCourtNotFound
		}
		s.logger.Error("Reserve: failed to get court id=%d: %v", req.CourtID, err)
		return nil, nil, fmt.Errorf("%w: Reserve - get court: %w", ErrInternal, err)
	}
	if !court.IsActive {
		s.logger.Warn("Reserve: court id=%d is not active", req.CourtID)
		return nil, nil, ErrSlotNotAvailable
	}

	var booking *domain.Booking
	var payment *domain.Payment

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Атомарно захватываем слот (check-and-mark)
		slot, err := s.slotRepo.Acquire(txCtx, domain.SlotKey{
			CourtID:   req.CourtID,
			Date:      date,
			StartTime: req.StartTime,
		})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				s.logger.Warn("Reserve: slot court=%d date=%s start=%s not found", req.CourtID, date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotNotFound
			case errors.Is(err, domain.ErrSlotUnavailable):
				s.logger.Warn("Reserve: slot court=%d date=%s start=%s is not available", req.CourtID, date.Format(domain.DateFormat), req.StartTime)
				return ErrSlotNotAvailable
			}
			s.logger.Error("Reserve: failed to acquire slot: %v", err)
			return fmt.Errorf("%w: Reserve - acquire slot: %w", ErrInternal, err)
		}

		// 2. Запрошенный интервал должен совпадать со слотом
		if slot.EndTime != req.EndTime {
			s.logger.Warn("Reserve: requested end=%s does not match slot end=%s", req.EndTime, slot.EndTime)
			return fmt.Errorf("%w: slot ends at %s", ErrInvalidTimeRange, slot.EndTime)
		}

		// 3. Начавшийся слот забронировать нельзя
		startsAt, err := slot.StartsAt(s.policy.Loc())
		if err != nil {
			return fmt.Errorf("%w: Reserve - slot start: %w", ErrInternal, err)
		}
		if !startsAt.After(now) {
			s.logger.Warn("Reserve: slot id=%d already started at %s", slot.ID, startsAt)
			return ErrSlotStarted
		}

		// 4. Считаем стоимость по цене слота
		minutes, err := slot.DurationMinutes()
		if err != nil {
			return fmt.Errorf("%w: Reserve - slot duration: %w", ErrInternal, err)
		}

		quote, err := s.pricing.Quote(txCtx, pricing.QuoteRequest{
			PricePerHour: slot.PricePerHour,
			Minutes:      minutes,
			UserID:       req.UserID,
			CouponCode:   req.CouponCode,
		})
		if err != nil {
			s.logger.Warn("Reserve: pricing failed for slot id=%d: %v", slot.ID, err)
			return err
		}

		// 5. Создаем бронирование и платеж
		created, err := s.bookingRepo.Create(txCtx, &domain.Booking{
			PublicID:          uuid.NewString(),
			CourtID:           court.ID,
			FacilityID:        court.FacilityID,
			UserID:            req.UserID,
			SlotID:            slot.ID,
			BookingDate:       slot.Date,
			StartTime:         slot.StartTime,
			EndTime:           slot.EndTime,
			Status:            domain.StatusPending,
			BaseAmount:        quote.BaseAmount,
			PlatformFee:       quote.PlatformFee,
			Tax:               quote.Tax,
			DiscountAmount:    quote.DiscountAmount,
			FinalAmount:       quote.FinalAmount,
			Currency:          quote.Currency,
			AppliedCouponCode: quote.CouponCode(),
			CreatedAt:         now,
		})
		if err != nil {
			s.logger.Error("Reserve: failed to create booking: %v", err)
			return fmt.Errorf("%w: Reserve - create booking: %w", ErrInternal, err)
		}

		createdPayment, err := s.paymentRepo.Create(txCtx, &domain.Payment{
			BookingID: created.ID,
			Status:    domain.PaymentPending,
			Amount:    created.FinalAmount,
			Currency:  created.Currency,
		})
		if err != nil {
			s.logger.Error("Reserve: failed to create payment for booking id=%d: %v", created.ID, err)
			return fmt.Errorf("%w: Reserve - create payment: %w", ErrInternal, err)
		}

		// 6. Связываем слот с бронированием
		if err := s.slotRepo.AttachBooking(txCtx, slot.ID, created.ID); err != nil {
			s.logger.Error("Reserve: failed to attach booking id=%d to slot id=%d: %v", created.ID, slot.ID, err)
			return fmt.Errorf("%w: Reserve - attach booking: %w", ErrInternal, err)
		}

		booking = created
		payment = createdPayment
		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, transitionRecord{
		booking: booking,
		payment: payment,
		actor:   domain.UserActor(req.UserID),
		reason:  "reserved",
		at:      now,
	})

	s.logger.Info("Reserve: successfully created booking id=%d, final amount=%d %s", booking.ID, booking.FinalAmount, booking.Currency)
	return booking, payment, nil
}

// validateReserveRequest валидирует входные данные резервирования
func validateReserveRequest(req *models.ReserveRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: court id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidTimeRange, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidTimeRange, err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidTimeRange)
	}
	return nil
}
