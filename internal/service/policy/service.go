package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/policy/models"
)

const (
	maxFreeCancellationHours = 720 // 30 дней
	maxFlatFee               = 100_000_000
)

// Service сервис политик сборов за отмену и перенос
type Service struct {
	policyRepo PolicyRepository
	courtRepo  CourtRepository
	admins     domain.Admins
	logger     Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(policyRepo PolicyRepository, courtRepo CourtRepository, admins domain.Admins, logger Logger) *Service {
	return &Service{
		policyRepo: policyRepo,
		courtRepo:  courtRepo,
		admins:     admins,
		logger:     logger,
	}
}

// GetAllByFacility получает все политики объекта: общую и переопределения кортов
// Публичный метод - доступен всем
func (s *Service) GetAllByFacility(ctx context.Context, facilityID int64) (*models.PolicyListResponse, error) {
	s.logger.Info("GetAllByFacility: fetching policies for facility=%d", facilityID)

	policies, err := s.policyRepo.GetAllByFacility(ctx, facilityID)
	if err != nil {
		s.logger.Error("GetAllByFacility: repository error for facility=%d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: GetAllByFacility - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllByFacility: successfully fetched %d policies for facility=%d", len(policies), facilityID)
	return models.FromDomainPolicyList(policies), nil
}

// GetEffective получает политику, действующую для корта
// Приоритет: court > facility
func (s *Service) GetEffective(ctx context.Context, facilityID int64, courtID *int64) (*models.PolicyResponse, error) {
	s.logger.Info("GetEffective: fetching policy for facility=%d, court=%v", facilityID, courtID)

	p, err := s.policyRepo.GetWithHierarchy(ctx, facilityID, courtID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetEffective: no policy for facility=%d, court=%v", facilityID, courtID)
			return nil, ErrPolicyNotFound
		}
		s.logger.Error("GetEffective: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetEffective: successfully fetched policy id=%d (level: %s)", p.ID, policyLevel(p))
	return models.FromDomainPolicy(p), nil
}

// Upsert создает или обновляет политику уровня объекта или корта
// Доступно только администраторам
func (s *Service) Upsert(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Upsert: policy for facility=%d, court=%v by user=%d", req.FacilityID, req.CourtID, req.UserID)

	// 1. Проверяем права доступа
	if !s.admins.Contains(req.UserID) {
		s.logger.Warn("Upsert: user=%d is not an admin", req.UserID)
		return nil, ErrAccessDenied
	}

	// 2. Корт должен принадлежать объекту
	if req.CourtID != nil {
		court, err := s.courtRepo.GetCourt(ctx, *req.CourtID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.logger.Warn("Upsert: court id=%d not found", *req.CourtID)
				return nil, ErrCourtNotFound
			}
			s.logger.Error("Upsert: failed to get court id=%d: %v", *req.CourtID, err)
			return nil, fmt.Errorf("%w: Upsert - get court: %v", ErrInternal, err)
		}
		if court.FacilityID != req.FacilityID {
			s.logger.Warn("Upsert: court id=%d belongs to facility=%d, not %d", court.ID, court.FacilityID, req.FacilityID)
			return nil, ErrCourtNotFound
		}
	}

	// 3. Ищем политику этого же уровня
	existing, err := s.policyRepo.GetByFacilityAndCourt(ctx, req.FacilityID, req.CourtID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Error("Upsert: failed to check existing policy: %v", err)
		return nil, fmt.Errorf("%w: Upsert - check existing policy: %v", ErrInternal, err)
	}

	target := &domain.FacilityPolicy{FacilityID: req.FacilityID, CourtID: req.CourtID}
	if existing != nil {
		copied := *existing
		target = &copied
	}
	req.ApplyToPolicy(target)

	// 4. Валидируем итоговые значения
	if err := validatePolicy(target); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 5. Сохраняем
	var saved *domain.FacilityPolicy
	if existing == nil {
		saved, err = s.policyRepo.Create(ctx, target)
	} else {
		saved, err = s.policyRepo.Update(ctx, existing.ID, target)
	}
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully saved policy id=%d (level: %s)", saved.ID, policyLevel(saved))
	return models.FromDomainPolicy(saved), nil
}

// Вспомогательные методы

// validatePolicy валидирует параметры политики
func validatePolicy(p *domain.FacilityPolicy) error {
	if p.CancellationFeeBps < 0 || p.CancellationFeeBps > domain.BasisPointsDenominator {
		return fmt.Errorf("%w: cancellationFeeBps must be between 0 and %d", ErrInvalidInput, domain.BasisPointsDenominator)
	}
	if p.CancellationFlatFee < 0 || p.CancellationFlatFee > maxFlatFee {
		return fmt.Errorf("%w: cancellationFlatFee must be between 0 and %d", ErrInvalidInput, maxFlatFee)
	}
	if p.ModificationFee < 0 || p.ModificationFee > maxFlatFee {
		return fmt.Errorf("%w: modificationFee must be between 0 and %d", ErrInvalidInput, maxFlatFee)
	}
	if p.FreeCancellationHours < 0 || p.FreeCancellationHours > maxFreeCancellationHours {
		return fmt.Errorf("%w: freeCancellationHours must be between 0 and %d", ErrInvalidInput, maxFreeCancellationHours)
	}
	return nil
}

// policyLevel возвращает уровень политики для логирования
func policyLevel(p *domain.FacilityPolicy) string {
	if p.IsCourtSpecific() {
		return "court"
	}
	return "facility"
}
