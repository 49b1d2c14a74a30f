package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// GenerateWindows нарезает [start, end) на последовательные интервалы длиной duration
// Хвост короче duration отбрасывается
func GenerateWindows(start, end types.TimeString, duration int) ([]domain.SlotWindow, error) {
	if duration <= 0 {
		return nil, ErrInvalidInput
	}

	from, err := start.Minutes()
	if err != nil {
		return nil, err
	}
	to, err := end.Minutes()
	if err != nil {
		return nil, err
	}

	windows := make([]domain.SlotWindow, 0, (to-from)/duration+1)
	for t := from; t+duration <= to; t += duration {
		slotStart, err := types.FromMinutes(t)
		if err != nil {
			return nil, err
		}
		slotEnd, err := types.FromMinutes(t + duration)
		if err != nil {
			return nil, err
		}
		windows = append(windows, domain.SlotWindow{StartTime: slotStart, EndTime: slotEnd})
	}

	return windows, nil
}

// effectiveWindow пересекает запрошенное окно с часами работы
func effectiveWindow(hours *domain.OperatingHours, start, end *types.TimeString) (types.TimeString, types.TimeString) {
	from, to := hours.OpenTime, hours.CloseTime
	if start != nil && start.IsAfter(from) {
		from = *start
	}
	if end != nil && end.IsBefore(to) {
		to = *end
	}
	return from, to
}

// targetDates возвращает все даты с днем недели day в [today, today+horizonDays]
func targetDates(today time.Time, horizonDays int, day time.Weekday) []time.Time {
	dates := make([]time.Time, 0, horizonDays/7+1)
	for i := 0; i <= horizonDays; i++ {
		date := today.AddDate(0, 0, i)
		if date.Weekday() == day {
			dates = append(dates, date)
		}
	}
	return dates
}
