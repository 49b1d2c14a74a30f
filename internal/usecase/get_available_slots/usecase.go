package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// UseCase отдает доступность слотов корта на дату
// Только чтение: без транзакции и кэша, состояние вычисляется из строк слотов
type UseCase struct {
	courtRepo CourtRepository
	slotRepo  SlotRepository
	logger    Logger
}

// NewUseCase создает новый экземпляр usecase
func NewUseCase(courtRepo CourtRepository, slotRepo SlotRepository, logger Logger) *UseCase {
	return &UseCase{
		courtRepo: courtRepo,
		slotRepo:  slotRepo,
		logger:    logger,
	}
}

// Execute выполняет получение доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: court=%d, date=%s", req.CourtID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	if _, err := uc.courtRepo.GetCourt(ctx, req.CourtID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GetAvailableSlots: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: GetAvailableSlots - get court: %w", ErrInternal, err)
	}

	date := domain.NormalizeDate(req.Date)
	slots, err := uc.slotRepo.ListByCourtAndDate(ctx, req.CourtID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots of court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: GetAvailableSlots - list slots: %w", ErrInternal, err)
	}

	infos := make([]SlotInfo, 0, len(slots))
	available := 0
	for _, slot := range slots {
		info := fromDomainSlot(slot)
		if info.State == domain.SlotAvailable {
			available++
		}
		infos = append(infos, info)
	}

	uc.logger.Info("GetAvailableSlots: court=%d, date=%s, %d slots, %d available",
		req.CourtID, date.Format(domain.DateFormat), len(infos), available)

	return &Response{
		CourtID: req.CourtID,
		Date:    date.Format(domain.DateFormat),
		Slots:   infos,
	}, nil
}
