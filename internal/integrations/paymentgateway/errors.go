package paymentgateway

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrGateway возвращается при сбоях платежного провайдера (сеть, таймаут, 5xx)
	ErrGateway = fmt.Errorf("payment gateway: request failed: %w", domain.ErrGateway)

	// ErrSessionNotFound возвращается, если провайдер не знает такую сессию
	ErrSessionNotFound = fmt.Errorf("payment gateway: session not found: %w", domain.ErrNotFound)

	// ErrSessionNotOpen возвращается при попытке закрыть уже оплаченную сессию
	ErrSessionNotOpen = fmt.Errorf("payment gateway: session is not open: %w", domain.ErrAlreadyFinalized)

	// ErrInvalidSignature возвращается, если подпись webhook не прошла проверку
	ErrInvalidSignature = fmt.Errorf("payment gateway: invalid webhook signature: %w", domain.ErrValidation)

	// ErrInvalidPayload возвращается при некорректном теле webhook
	ErrInvalidPayload = fmt.Errorf("payment gateway: invalid webhook payload: %w", domain.ErrValidation)

	// ErrUnsupportedEvent возвращается для событий, которые сервис не обрабатывает
	ErrUnsupportedEvent = errors.New("payment gateway: unsupported event type")
)
