package booking

import (
	"time"

	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// CancelInfo данные отмены бронирования
type CancelInfo struct {
	CancelledBy string
	Reason      *string
	Fee         int64
	At          time.Time
}

// RescheduleInfo данные переноса бронирования на другой слот
type RescheduleInfo struct {
	SlotID          int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	ModificationFee int64 // добавляется к уже начисленным сборам и к FinalAmount
}
