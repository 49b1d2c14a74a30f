package modify_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrModificationWindow возвращается, когда до начала бронирования осталось меньше окна переноса
	ErrModificationWindow = fmt.Errorf("modify_booking: modification window has passed: %w", domain.ErrPolicyViolation)

	// ErrDateOutOfRange возвращается, когда новая дата вне допустимого диапазона
	ErrDateOutOfRange = fmt.Errorf("modify_booking: new date is outside the allowed range: %w", domain.ErrPolicyViolation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("modify_booking: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("modify_booking: internal error")
)
