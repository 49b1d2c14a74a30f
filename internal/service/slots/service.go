package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// Service сервис ручной блокировки слотов (техобслуживание, турниры)
// Забронированный слот заблокировать нельзя
type Service struct {
	slotRepo SlotRepository
	admins   domain.Admins
	logger   Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo SlotRepository, admins domain.Admins, logger Logger) *Service {
	return &Service{
		slotRepo: slotRepo,
		admins:   admins,
		logger:   logger,
	}
}

// Block блокирует свободный слот
func (s *Service) Block(ctx context.Context, slotID, userID int64, reason string) (*domain.TimeSlot, error) {
	s.logger.Info("Block: slot id=%d by user=%d", slotID, userID)

	if !s.admins.Contains(userID) {
		s.logger.Warn("Block: user=%d is not an admin", userID)
		return nil, ErrAccessDenied
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: block reason is required", ErrInvalidInput)
	}
	if len(reason) > domain.MaxBlockReasonLength {
		return nil, fmt.Errorf("%w: block reason exceeds %d characters", ErrInvalidInput, domain.MaxBlockReasonLength)
	}

	slot, err := s.slotRepo.Block(ctx, slotID, reason)
	if err != nil {
		return nil, s.mapError("Block", slotID, err)
	}

	s.logger.Info("Block: slot id=%d blocked: %s", slotID, reason)
	return slot, nil
}

// Unblock снимает блокировку со слота
func (s *Service) Unblock(ctx context.Context, slotID, userID int64) (*domain.TimeSlot, error) {
	s.logger.Info("Unblock: slot id=%d by user=%d", slotID, userID)

	if !s.admins.Contains(userID) {
		s.logger.Warn("Unblock: user=%d is not an admin", userID)
		return nil, ErrAccessDenied
	}

	slot, err := s.slotRepo.Unblock(ctx, slotID)
	if err != nil {
		return nil, s.mapError("Unblock", slotID, err)
	}

	s.logger.Info("Unblock: slot id=%d unblocked", slotID)
	return slot, nil
}

func (s *Service) mapError(op string, slotID int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Warn("%s: slot id=%d not found", op, slotID)
		return ErrSlotNotFound
	case errors.Is(err, domain.ErrSlotUnavailable):
		s.logger.Warn("%s: slot id=%d is booked", op, slotID)
		return ErrSlotBooked
	}
	s.logger.Error("%s: repository error for slot id=%d: %v", op, slotID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
