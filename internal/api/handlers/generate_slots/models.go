package generate_slots

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	generateSlots "github.com/m04kA/SMC-CourtBookingService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// GenerateSlotsRequest HTTP request model
type GenerateSlotsRequest struct {
	DayOfWeek           *int    `json:"dayOfWeek" validate:"required,min=0,max=6"` // 0 = воскресенье
	SlotDurationMinutes int     `json:"slotDurationMinutes" validate:"required"`
	PricePerHour        *int64  `json:"pricePerHour,omitempty" validate:"omitempty,min=0"`
	WindowStart         *string `json:"windowStart,omitempty"` // "HH:MM"
	WindowEnd           *string `json:"windowEnd,omitempty"`
}

// GenerateSlotsResponse HTTP response model
type GenerateSlotsResponse struct {
	CourtID      int64            `json:"courtId"`
	DayOfWeek    int              `json:"dayOfWeek"`
	Dates        []string         `json:"dates"`
	Windows      []WindowResponse `json:"windows"`
	PricePerHour int64            `json:"pricePerHour"`
	Created      int              `json:"created"`
	Replaced     int              `json:"replaced"`
}

type WindowResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ConflictResponse список забронированных слотов, мешающих перегенерации
type ConflictResponse struct {
	handlers.ErrorResponse
	Conflicts []ConflictItem `json:"conflicts"`
}

type ConflictItem struct {
	SlotID    int64  `json:"slotId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	BookingID *int64 `json:"bookingId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateSlotsRequest) ToUseCaseRequest(userID, courtID int64) (*generateSlots.Request, error) {
	req := &generateSlots.Request{
		UserID:              userID,
		CourtID:             courtID,
		DayOfWeek:           time.Weekday(*r.DayOfWeek),
		SlotDurationMinutes: r.SlotDurationMinutes,
		PricePerHour:        r.PricePerHour,
	}

	var err error
	if req.WindowStart, err = parseOptionalTime(r.WindowStart); err != nil {
		return nil, err
	}
	if req.WindowEnd, err = parseOptionalTime(r.WindowEnd); err != nil {
		return nil, err
	}
	return req, nil
}

func parseOptionalTime(s *string) (*types.TimeString, error) {
	if s == nil {
		return nil, nil
	}
	t, err := handlers.ParseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	dates := make([]string, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, d.Format(domain.DateFormat))
	}

	windows := make([]WindowResponse, 0, len(resp.Windows))
	for _, w := range resp.Windows {
		windows = append(windows, WindowResponse{StartTime: w.StartTime.String(), EndTime: w.EndTime.String()})
	}

	return &GenerateSlotsResponse{
		CourtID:      resp.CourtID,
		DayOfWeek:    int(resp.DayOfWeek),
		Dates:        dates,
		Windows:      windows,
		PricePerHour: resp.PricePerHour,
		Created:      resp.Created,
		Replaced:     resp.Replaced,
	}
}

// FromConflictError конвертирует конфликт генерации в тело ответа
func FromConflictError(status int, message string, conflict *generateSlots.ConflictError) *ConflictResponse {
	items := make([]ConflictItem, 0, len(conflict.Conflicts))
	for _, c := range conflict.Conflicts {
		items = append(items, ConflictItem{
			SlotID:    c.SlotID,
			Date:      c.Date.Format(domain.DateFormat),
			StartTime: c.StartTime.String(),
			BookingID: c.BookingID,
		})
	}

	return &ConflictResponse{
		ErrorResponse: handlers.ErrorResponse{Code: status, Message: message},
		Conflicts:     items,
	}
}
