package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("bookings: booking not found: %w", domain.ErrNotFound)

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = fmt.Errorf("bookings: slot not found: %w", domain.ErrNotFound)

	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = fmt.Errorf("bookings: court not found: %w", domain.ErrNotFound)

	// ErrSlotNotAvailable возвращается, когда слот уже занят, заблокирован или корт не работает
	ErrSlotNotAvailable = fmt.Errorf("bookings: slot is not available: %w", domain.ErrSlotUnavailable)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("bookings: %w", domain.ErrForbidden)

	// ErrAlreadyFinalized возвращается, когда бронирование уже не в нужном статусе
	ErrAlreadyFinalized = fmt.Errorf("bookings: booking already finalized: %w", domain.ErrAlreadyFinalized)

	// ErrCancellationWindow возвращается, когда до начала слота осталось меньше окна отмены
	ErrCancellationWindow = fmt.Errorf("bookings: cancellation window has passed: %w", domain.ErrPolicyViolation)

	// ErrSlotStarted возвращается при попытке забронировать уже начавшийся слот
	ErrSlotStarted = fmt.Errorf("bookings: slot has already started: %w", domain.ErrPolicyViolation)

	// ErrBookingDateOutOfRange возвращается, когда дата вне горизонта бронирования
	ErrBookingDateOutOfRange = fmt.Errorf("bookings: booking date is outside the booking horizon: %w", domain.ErrPolicyViolation)

	// ErrNotEnded возвращается при попытке завершить бронирование до окончания слота
	ErrNotEnded = fmt.Errorf("bookings: booking has not ended yet: %w", domain.ErrPolicyViolation)

	// ErrSameSlot возвращается при переносе бронирования на тот же слот
	ErrSameSlot = fmt.Errorf("bookings: new slot equals the current slot: %w", domain.ErrValidation)

	// ErrAmountMismatch возвращается, когда сумма оплаты не совпадает с итоговой суммой
	ErrAmountMismatch = fmt.Errorf("bookings: paid amount does not match booking amount: %w", domain.ErrGateway)

	// ErrSessionMismatch возвращается, когда подтверждение пришло по устаревшей сессии оплаты
	ErrSessionMismatch = fmt.Errorf("bookings: payment session does not match: %w", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("bookings: invalid input data: %w", domain.ErrValidation)

	// ErrInvalidTimeRange возвращается при некорректном временном диапазоне
	ErrInvalidTimeRange = fmt.Errorf("bookings: invalid time range: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
