package generate_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// UseCase генерирует слоты корта на все ближайшие даты с заданным днем недели
type UseCase struct {
	courtRepo    CourtRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	policy       domain.Policy
	admins       domain.Admins
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр usecase
func NewUseCase(
	courtRepo CourtRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	policy domain.Policy,
	admins domain.Admins,
	logger Logger,
) *UseCase {
	return &UseCase{
		courtRepo:    courtRepo,
		slotRepo:     slotRepo,
		txManager:    txManager,
		policy:       policy,
		admins:       admins,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет генерацию
// Существующие свободные и заблокированные слоты на целевые даты заменяются;
// если хотя бы один из них забронирован, ничего не меняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: user=%d, court=%d, day=%s, duration=%d",
		req.UserID, req.CourtID, req.DayOfWeek, req.SlotDurationMinutes)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	if !uc.admins.Contains(req.UserID) {
		uc.logger.Warn("GenerateSlots: user=%d is not an admin", req.UserID)
		return nil, ErrAccessDenied
	}

	// 1. Корт и часы работы
	court, err := uc.courtRepo.GetCourt(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GenerateSlots: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GenerateSlots: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: GenerateSlots - get court: %w", ErrInternal, err)
	}

	hours, err := uc.courtRepo.GetOperatingHours(ctx, court.FacilityID, req.DayOfWeek)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GenerateSlots: no operating hours for facility=%d on %s", court.FacilityID, req.DayOfWeek)
			return nil, ErrFacilityClosed
		}
		uc.logger.Error("GenerateSlots: failed to get operating hours: %v", err)
		return nil, fmt.Errorf("%w: GenerateSlots - get operating hours: %w", ErrInternal, err)
	}
	if !hours.IsOpen() {
		uc.logger.Warn("GenerateSlots: facility=%d is closed on %s", court.FacilityID, req.DayOfWeek)
		return nil, ErrFacilityClosed
	}

	// 2. Интервалы внутри окна
	from, to := effectiveWindow(hours, req.WindowStart, req.WindowEnd)
	if !from.IsBefore(to) {
		uc.logger.Warn("GenerateSlots: requested window does not intersect hours %s-%s", hours.OpenTime, hours.CloseTime)
		return nil, ErrEmptyWindow
	}

	windows, err := GenerateWindows(from, to, req.SlotDurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: GenerateSlots - windows: %w", ErrInternal, err)
	}
	if len(windows) == 0 {
		uc.logger.Warn("GenerateSlots: window %s-%s is shorter than %d minutes", from, to, req.SlotDurationMinutes)
		return nil, ErrEmptyWindow
	}

	price := court.PricePerHour
	if req.PricePerHour != nil {
		price = *req.PricePerHour
	}

	// 3. Целевые даты в горизонте бронирования
	today := uc.policy.Today(uc.timeProvider.Now())
	dates := targetDates(today, uc.policy.AdvanceBookingDays, req.DayOfWeek)
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no %s within %d days", ErrInvalidInput, req.DayOfWeek, uc.policy.AdvanceBookingDays)
	}

	// 4. Замена слотов в одной транзакции
	var replaced int
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.slotRepo.ListByCourtAndDatesForUpdate(txCtx, court.ID, dates)
		if err != nil {
			return fmt.Errorf("%w: GenerateSlots - list existing slots: %w", ErrInternal, err)
		}

		var conflicts []domain.SlotConflict
		ids := make([]int64, 0, len(existing))
		for _, slot := range existing {
			if slot.IsBooked {
				conflicts = append(conflicts, domain.SlotConflict{
					SlotID:    slot.ID,
					Date:      slot.Date,
					StartTime: slot.StartTime,
					BookingID: slot.BookingID,
				})
				continue
			}
			ids = append(ids, slot.ID)
		}
		if len(conflicts) > 0 {
			return fmt.Errorf("%w: %w", ErrSlotsBooked, &ConflictError{Conflicts: conflicts})
		}

		if err := uc.slotRepo.DeleteByIDs(txCtx, ids); err != nil {
			return fmt.Errorf("%w: GenerateSlots - delete slots: %w", ErrInternal, err)
		}

		slots := make([]*domain.TimeSlot, 0, len(dates)*len(windows))
		for _, date := range dates {
			for _, w := range windows {
				slots = append(slots, &domain.TimeSlot{
					CourtID:      court.ID,
					Date:         date,
					StartTime:    w.StartTime,
					EndTime:      w.EndTime,
					PricePerHour: price,
				})
			}
		}
		if err := uc.slotRepo.InsertBatch(txCtx, slots); err != nil {
			return fmt.Errorf("%w: GenerateSlots - insert slots: %w", ErrInternal, err)
		}

		replaced = len(ids)
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotsBooked) {
			uc.logger.Warn("GenerateSlots: court id=%d has booked slots: %v", court.ID, err)
		} else {
			uc.logger.Error("GenerateSlots: failed for court id=%d: %v", court.ID, err)
		}
		return nil, err
	}

	uc.logger.Info("GenerateSlots: created %d slots on %d dates for court id=%d, replaced %d",
		len(dates)*len(windows), len(dates), court.ID, replaced)

	return &Response{
		CourtID:      court.ID,
		DayOfWeek:    req.DayOfWeek,
		Dates:        dates,
		Windows:      windows,
		PricePerHour: price,
		Created:      len(dates) * len(windows),
		Replaced:     replaced,
	}, nil
}
