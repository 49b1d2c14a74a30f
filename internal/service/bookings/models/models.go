package models

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Request модели

// ReserveRequest запрос на резервирование слота
type ReserveRequest struct {
	UserID     int64
	CourtID    int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
	CouponCode *string
}

// CancelRequest запрос на отмену бронирования
type CancelRequest struct {
	BookingID int64
	Actor     domain.Actor
	Reason    *string
}

// RescheduleGuard проверка правил переноса, выполняется под блокировкой бронирования
type RescheduleGuard func(booking *domain.Booking, now time.Time) error

// RescheduleRequest запрос на перенос подтвержденного бронирования
type RescheduleRequest struct {
	BookingID    int64
	Actor        domain.Actor
	NewDate      time.Time
	NewStartTime types.TimeString
	Guard        RescheduleGuard
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID      int64
	RequesterID int64
	Status      *string
}

// Response модели

// PaymentResponse состояние платежа бронирования
type PaymentResponse struct {
	Status        string     `json:"status"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	CheckoutURL   *string    `json:"checkoutUrl,omitempty"`
	TransactionID *string    `json:"transactionId,omitempty"`
	Attempts      int        `json:"attempts"`
	FailureReason *string    `json:"failureReason,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	PublicID    string `json:"publicId"`
	UserID      int64  `json:"userId"`
	CourtID     int64  `json:"courtId"`
	FacilityID  int64  `json:"facilityId"`
	SlotID      int64  `json:"slotId"`
	BookingDate string `json:"bookingDate"` // "2025-10-15"
	StartTime   string `json:"startTime"`   // "18:00"
	EndTime     string `json:"endTime"`     // "19:00"
	Status      string `json:"status"`

	// Суммы в минимальных единицах валюты
	BaseAmount      int64   `json:"baseAmount"`
	PlatformFee     int64   `json:"platformFee"`
	Tax             int64   `json:"tax"`
	DiscountAmount  int64   `json:"discountAmount"`
	FinalAmount     int64   `json:"finalAmount"`
	ModificationFee int64   `json:"modificationFee"`
	CancellationFee int64   `json:"cancellationFee"`
	Currency        string  `json:"currency"`
	CouponCode      *string `json:"couponCode,omitempty"`

	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	ConfirmedAt        *string `json:"confirmedAt,omitempty"`
	CompletedAt        *string `json:"completedAt,omitempty"`

	Payment *PaymentResponse `json:"payment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
// payment может быть nil
func FromDomainBooking(b *domain.Booking, p *domain.Payment) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		PublicID:           b.PublicID,
		UserID:             b.UserID,
		CourtID:            b.CourtID,
		FacilityID:         b.FacilityID,
		SlotID:             b.SlotID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		Status:             string(b.Status),
		BaseAmount:         b.BaseAmount,
		PlatformFee:        b.PlatformFee,
		Tax:                b.Tax,
		DiscountAmount:     b.DiscountAmount,
		FinalAmount:        b.FinalAmount,
		ModificationFee:    b.ModificationFee,
		CancellationFee:    b.CancellationFee,
		Currency:           b.Currency,
		CouponCode:         b.AppliedCouponCode,
		CancelledBy:        b.CancelledBy,
		CancellationReason: b.CancellationReason,
		CancelledAt:        formatTime(b.CancelledAt),
		ConfirmedAt:        formatTime(b.ConfirmedAt),
		CompletedAt:        formatTime(b.CompletedAt),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if p != nil {
		resp.Payment = &PaymentResponse{
			Status:        string(p.Status),
			Amount:        p.Amount,
			Currency:      p.Currency,
			CheckoutURL:   p.CheckoutURL,
			TransactionID: p.TransactionID,
			Attempts:      p.Attempts,
			FailureReason: p.FailureReason,
			PaidAt:        p.PaidAt,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b, nil))
	}

	return resp
}

// formatTime конвертирует время в строку ISO 8601
func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
