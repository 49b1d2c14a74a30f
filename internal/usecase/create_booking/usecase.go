package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/internal/service/bookings/models"
)

// UseCase резервирует слот и открывает платежную сессию
type UseCase struct {
	bookings BookingService
	payments PaymentCoordinator
	logger   Logger
}

// NewUseCase создает новый экземпляр usecase
func NewUseCase(bookings BookingService, payments PaymentCoordinator, logger Logger) *UseCase {
	return &UseCase{
		bookings: bookings,
		payments: payments,
		logger:   logger,
	}
}

// Execute выполняет создание бронирования
// Сессия оплаты открывается после фиксации резерва: сбой провайдера не отменяет
// бронирование, оно возвращается с платежом failed и оплату можно повторить
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	uc.logger.Info("CreateBooking: user=%d, court=%d, date=%s, start=%s",
		req.UserID, req.CourtID, req.Date.Format(domain.DateFormat), req.StartTime)

	if req.CouponCode != nil && len(*req.CouponCode) > domain.MaxCouponCodeLength {
		return nil, fmt.Errorf("%w: coupon code exceeds %d characters", ErrInvalidInput, domain.MaxCouponCodeLength)
	}

	// 1. Резерв слота
	booking, payment, err := uc.bookings.Reserve(ctx, &models.ReserveRequest{
		UserID:     req.UserID,
		CourtID:    req.CourtID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		return nil, err
	}

	// 2. Платежная сессия вне транзакции
	started, err := uc.payments.StartSession(ctx, booking)
	if err != nil {
		if errors.Is(err, domain.ErrGateway) {
			uc.logger.Warn("CreateBooking: booking id=%d reserved without payment session: %v", booking.ID, err)
		} else {
			uc.logger.Error("CreateBooking: failed to start payment for booking id=%d: %v", booking.ID, err)
		}
	}
	if started != nil {
		payment = started
	}

	uc.logger.Info("CreateBooking: booking id=%d created, payment status=%s", booking.ID, payment.Status)
	return models.FromDomainBooking(booking, payment), nil
}
