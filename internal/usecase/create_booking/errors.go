package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// ErrInvalidInput возвращается при некорректных входных данных
var ErrInvalidInput = fmt.Errorf("create_booking: invalid input data: %w", domain.ErrValidation)
