package policy

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrPolicyNotFound возвращается, когда политика не найдена ни на одном уровне
	ErrPolicyNotFound = fmt.Errorf("policy: fee policy not found: %w", domain.ErrNotFound)

	// ErrCourtNotFound возвращается, когда корт не найден или относится к другому объекту
	ErrCourtNotFound = fmt.Errorf("policy: court not found: %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не администратор
	ErrAccessDenied = fmt.Errorf("policy: %w", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("policy: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("policy: internal error")
)
