package generate_slots

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = fmt.Errorf("generate_slots: court not found: %w", domain.ErrNotFound)

	// ErrFacilityClosed возвращается, когда объект не работает в этот день недели
	ErrFacilityClosed = fmt.Errorf("generate_slots: facility is closed on this day: %w", domain.ErrPolicyViolation)

	// ErrEmptyWindow возвращается, когда в окне не помещается ни один слот
	ErrEmptyWindow = fmt.Errorf("generate_slots: window does not fit a single slot: %w", domain.ErrValidation)

	// ErrSlotsBooked возвращается, когда среди заменяемых слотов есть забронированные
	ErrSlotsBooked = fmt.Errorf("generate_slots: existing slots are booked: %w", domain.ErrSlotUnavailable)

	// ErrAccessDenied возвращается, когда пользователь не администратор
	ErrAccessDenied = fmt.Errorf("generate_slots: %w", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("generate_slots: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)

// ConflictError перечисляет забронированные слоты, мешающие перегенерации
type ConflictError struct {
	Conflicts []domain.SlotConflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s %s", c.Date.Format(domain.DateFormat), c.StartTime))
	}
	return fmt.Sprintf("%d booked slots: %s", len(e.Conflicts), strings.Join(parts, ", "))
}
