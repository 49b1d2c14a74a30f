package slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("slots: slot not found: %w", domain.ErrNotFound)

	// ErrSlotBooked возвращается при попытке заблокировать забронированный слот
	ErrSlotBooked = fmt.Errorf("slots: slot is booked: %w", domain.ErrSlotUnavailable)

	// ErrAccessDenied возвращается, когда пользователь не администратор
	ErrAccessDenied = fmt.Errorf("slots: %w", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("slots: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots: internal error")
)
