package timeslot

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("timeslot.repository: slot not found: %w", domain.ErrNotFound)

	// ErrSlotNotAvailable возвращается, когда слот уже занят или заблокирован
	ErrSlotNotAvailable = fmt.Errorf("timeslot.repository: slot not available: %w", domain.ErrSlotUnavailable)

	// ErrSlotNotHeld возвращается при попытке освободить слот, не принадлежащий бронированию
	ErrSlotNotHeld = errors.New("timeslot.repository: slot is not held by booking")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeslot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeslot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeslot.repository: failed to scan row")
)
