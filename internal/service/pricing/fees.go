package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// ModificationFeeSchedule считает плату за перенос подтвержденного бронирования
type ModificationFeeSchedule interface {
	ModificationFee(ctx context.Context, booking *domain.Booking, from, to *domain.TimeSlot) (int64, error)
}

// CancellationFeePolicy считает удерживаемую сумму при отмене бронирования
type CancellationFeePolicy interface {
	CancellationFee(ctx context.Context, booking *domain.Booking, now time.Time) (int64, error)
}

// NoFees политика по умолчанию: перенос и отмена бесплатны
type NoFees struct{}

// ModificationFee всегда 0
func (NoFees) ModificationFee(context.Context, *domain.Booking, *domain.TimeSlot, *domain.TimeSlot) (int64, error) {
	return 0, nil
}

// CancellationFee всегда 0
func (NoFees) CancellationFee(context.Context, *domain.Booking, time.Time) (int64, error) {
	return 0, nil
}

// FacilityFees берет сборы из политики площадки (корт > площадка)
// Если политика не задана, сборов нет
type FacilityFees struct {
	policies PolicyRepository
	loc      *time.Location
}

// NewFacilityFees создает политику сборов площадок
func NewFacilityFees(policies PolicyRepository, loc *time.Location) *FacilityFees {
	if loc == nil {
		loc = time.UTC
	}
	return &FacilityFees{policies: policies, loc: loc}
}

// ModificationFee фиксированная плата за перенос из политики площадки
func (f *FacilityFees) ModificationFee(ctx context.Context, booking *domain.Booking, _, _ *domain.TimeSlot) (int64, error) {
	p, err := f.lookup(ctx, booking)
	if err != nil || p == nil {
		return 0, err
	}
	return p.ModificationFee, nil
}

// CancellationFee удержание при поздней отмене подтвержденного бронирования:
// бесплатно, если до начала не меньше FreeCancellationHours,
// иначе фиксированная часть плюс CancellationFeeBps от FinalAmount (не больше FinalAmount)
func (f *FacilityFees) CancellationFee(ctx context.Context, booking *domain.Booking, now time.Time) (int64, error) {
	if booking.Status != domain.StatusConfirmed {
		return 0, nil
	}

	p, err := f.lookup(ctx, booking)
	if err != nil || p == nil || !p.HasCancellationFee() {
		return 0, err
	}

	startsAt, err := booking.StartsAt(f.loc)
	if err != nil {
		return 0, fmt.Errorf("%w: CancellationFee - booking start: %w", ErrInternal, err)
	}
	if startsAt.Sub(now) >= time.Duration(p.FreeCancellationHours)*time.Hour {
		return 0, nil
	}

	fee := p.CancellationFlatFee + mulDivRound(booking.FinalAmount, p.CancellationFeeBps, domain.BasisPointsDenominator)
	if fee > booking.FinalAmount {
		fee = booking.FinalAmount
	}
	return fee, nil
}

func (f *FacilityFees) lookup(ctx context.Context, booking *domain.Booking) (*domain.FacilityPolicy, error) {
	courtID := booking.CourtID
	p, err := f.policies.GetWithHierarchy(ctx, booking.FacilityID, &courtID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get facility policy: %w", ErrInternal, err)
	}
	return p, nil
}
