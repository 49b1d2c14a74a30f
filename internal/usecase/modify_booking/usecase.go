package modify_booking

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
)

// UseCase переносит подтвержденное бронирование на другой слот того же корта
type UseCase struct {
	bookings BookingService
	policy   domain.Policy
	logger   Logger
}

// NewUseCase создает новый экземпляр usecase
func NewUseCase(bookings BookingService, policy domain.Policy, logger Logger) *UseCase {
	return &UseCase{
		bookings: bookings,
		policy:   policy,
		logger:   logger,
	}
}

// Execute выполняет перенос
// Правила переноса проверяются машиной состояний под блокировкой бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	uc.logger.Info("ModifyBooking: booking id=%d, user=%d, new date=%s, new start=%s",
		req.BookingID, req.UserID, req.NewDate.Format(domain.DateFormat), req.NewStartTime)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ModifyBooking: validation failed: %v", err)
		return nil, err
	}

	newDate := domain.NormalizeDate(req.NewDate)

	booking, err := uc.bookings.Reschedule(ctx, &models.RescheduleRequest{
		BookingID:    req.BookingID,
		Actor:        domain.UserActor(req.UserID),
		NewDate:      newDate,
		NewStartTime: req.NewStartTime,
		Guard:        uc.guard(newDate),
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ModifyBooking: booking id=%d moved to %s %s, modification fee total=%d",
		booking.ID, booking.BookingDate.Format(domain.DateFormat), booking.StartTime, booking.ModificationFee)
	return models.FromDomainBooking(booking, nil), nil
}

// guard проверяет окно переноса и диапазон новой даты
func (uc *UseCase) guard(newDate time.Time) models.RescheduleGuard {
	return func(b *domain.Booking, now time.Time) error {
		startsAt, err := b.StartsAt(uc.policy.Loc())
		if err != nil {
			return fmt.Errorf("%w: ModifyBooking - booking start: %w", ErrInternal, err)
		}
		if startsAt.Sub(now) <= uc.policy.ModificationNotice {
			return fmt.Errorf("%w: booking starts at %s", ErrModificationWindow, startsAt.Format(time.RFC3339))
		}

		today := uc.policy.Today(now)
		earliest := today.AddDate(0, 0, uc.policy.ModifyMinDaysAhead)
		latest := today.AddDate(0, 0, uc.policy.ModifyMaxDaysAhead)
		if newDate.Before(earliest) || newDate.After(latest) {
			return fmt.Errorf("%w: allowed %s..%s", ErrDateOutOfRange,
				earliest.Format(domain.DateFormat), latest.Format(domain.DateFormat))
		}
		return nil
	}
}

// validateRequest валидирует входные данные переноса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}
	if req.NewDate.IsZero() {
		return fmt.Errorf("%w: new date is required", ErrInvalidInput)
	}
	if err := req.NewStartTime.Validate(); err != nil {
		return fmt.Errorf("%w: new start time: %v", ErrInvalidInput, err)
	}
	return nil
}
