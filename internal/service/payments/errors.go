package payments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrAccessDenied возвращается, когда пользователь оплачивает чужое бронирование
	ErrAccessDenied = fmt.Errorf("payments: %w", domain.ErrForbidden)

	// ErrNotRetryable возвращается, когда бронирование или платеж уже не ждут оплаты
	ErrNotRetryable = fmt.Errorf("payments: payment is not awaiting payment: %w", domain.ErrAlreadyFinalized)

	// ErrSessionExpired возвращается, когда время на оплату резерва истекло
	ErrSessionExpired = fmt.Errorf("payments: reservation payment window has expired: %w", domain.ErrExpiredSession)

	// ErrSessionMismatch возвращается, когда сессия не принадлежит бронированию
	ErrSessionMismatch = fmt.Errorf("payments: session does not belong to booking: %w", domain.ErrValidation)

	// ErrNoSession возвращается, когда у платежа еще нет сессии
	ErrNoSession = fmt.Errorf("payments: booking has no payment session: %w", domain.ErrValidation)

	// ErrPaymentNotCompleted возвращается, когда провайдер не подтвердил оплату
	ErrPaymentNotCompleted = fmt.Errorf("payments: payment is not completed: %w", domain.ErrValidation)

	// ErrGatewayUnavailable возвращается, когда сессию не удалось создать и после повтора
	ErrGatewayUnavailable = fmt.Errorf("payments: payment gateway unavailable: %w", domain.ErrGateway)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("payments: internal error")
)
