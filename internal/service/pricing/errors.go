package pricing

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных расчета
	ErrInvalidInput = fmt.Errorf("pricing: invalid input: %w", domain.ErrValidation)

	// ErrCouponNotFound возвращается, когда купон с указанным кодом не существует
	ErrCouponNotFound = fmt.Errorf("pricing: coupon not found: %w", domain.ErrNotFound)

	// ErrSlotNotFound возвращается, когда слот для расчета не найден
	ErrSlotNotFound = fmt.Errorf("pricing: slot not found: %w", domain.ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("pricing: internal error")
)
