package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/psqlbuilder"
)

// localTimestampLayout формат метки времени без зоны для сравнения с booking_date + end_time
const localTimestampLayout = "2006-01-02 15:04:05"

var bookingColumns = []string{
	"id",
	"public_id",
	"court_id",
	"facility_id",
	"user_id",
	"slot_id",
	"booking_date",
	"to_char(start_time, 'HH24:MI')",
	"to_char(end_time, 'HH24:MI')",
	"status",
	"base_amount",
	"platform_fee",
	"tax",
	"discount_amount",
	"final_amount",
	"modification_fee",
	"cancellation_fee",
	"currency",
	"applied_coupon_code",
	"cancelled_by",
	"cancellation_reason",
	"cancelled_at",
	"confirmed_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается внутри транзакции резервирования, после захвата слота
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"public_id",
			"court_id",
			"facility_id",
			"user_id",
			"slot_id",
			"booking_date",
			"start_time",
			"end_time",
			"status",
			"base_amount",
			"platform_fee",
			"tax",
			"discount_amount",
			"final_amount",
			"modification_fee",
			"cancellation_fee",
			"currency",
			"applied_coupon_code",
		).
		Values(
			booking.PublicID,
			booking.CourtID,
			booking.FacilityID,
			booking.UserID,
			booking.SlotID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.BaseAmount,
			booking.PlatformFee,
			booking.Tax,
			booking.DiscountAmount,
			booking.FinalAmount,
			booking.ModificationFee,
			booking.CancellationFee,
			booking.Currency,
			booking.AppliedCouponCode,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование по ID и блокирует строку до конца транзакции
// Вне транзакции ведет себя как GetByID
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

// GetByPublicID получает бронирование по публичному идентификатору
func (r *Repository) GetByPublicID(ctx context.Context, publicID string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"public_id": publicID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByPublicID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPublicID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC", "start_time DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListPendingCreatedBefore возвращает ожидающие оплаты бронирования, созданные раньше cutoff
// Постраничная выборка по ID: следующая страница начинается после afterID
// Используется фоновой задачей истечения платежных сессий
func (r *Repository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time, afterID int64, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Lt{"created_at": cutoff}).
		Where(squirrel.Gt{"id": afterID}).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingCreatedBefore - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPendingCreatedBefore - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListConfirmedEndedBefore возвращает подтвержденные бронирования, слот которых закончился
// localNow - текущее время по часам площадки
func (r *Repository) ListConfirmedEndedBefore(ctx context.Context, localNow time.Time, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Expr("booking_date + end_time < ?::timestamp", localNow.Format(localTimestampLayout))).
		OrderBy("booking_date ASC", "end_time ASC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedEndedBefore - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedEndedBefore - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// MarkConfirmed переводит бронирование из pending в confirmed
func (r *Repository) MarkConfirmed(ctx context.Context, id int64, at time.Time) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusConfirmed).
		Set("confirmed_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkConfirmed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "MarkConfirmed", query, args)
}

// MarkCompleted переводит бронирование из confirmed в completed
func (r *Repository) MarkCompleted(ctx context.Context, id int64, at time.Time) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCompleted).
		Set("completed_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkCompleted - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "MarkCompleted", query, args)
}

// Cancel отменяет бронирование, если оно все еще в статусе from
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, info CancelInfo) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancelled_by", info.CancelledBy).
		Set("cancellation_reason", info.Reason).
		Set("cancellation_fee", info.Fee).
		Set("cancelled_at", info.At).
		Set("updated_at", info.At).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "Cancel", query, args)
}

// Reschedule переносит подтвержденное бронирование на другой слот
// Плата за изменение прибавляется к итоговой сумме
func (r *Repository) Reschedule(ctx context.Context, id int64, info RescheduleInfo) error {
	query, args, err := psqlbuilder.Update("bookings").
		Set("slot_id", info.SlotID).
		Set("booking_date", info.BookingDate).
		Set("start_time", info.StartTime).
		Set("end_time", info.EndTime).
		Set("modification_fee", squirrel.Expr("modification_fee + ?", info.ModificationFee)).
		Set("final_amount", squirrel.Expr("final_amount + ?", info.ModificationFee)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusConfirmed}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "Reschedule", query, args)
}

// execConditional выполняет условное обновление
// Если ни одна строка не изменилась, проверяет, существует ли бронирование
func (r *Repository) execConditional(ctx context.Context, op string, query string, args []interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.PublicID,
		&booking.CourtID,
		&booking.FacilityID,
		&booking.UserID,
		&booking.SlotID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.BaseAmount,
		&booking.PlatformFee,
		&booking.Tax,
		&booking.DiscountAmount,
		&booking.FinalAmount,
		&booking.ModificationFee,
		&booking.CancellationFee,
		&booking.Currency,
		&booking.AppliedCouponCode,
		&booking.CancelledBy,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.ConfirmedAt,
		&booking.CompletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.BookingDate = domain.NormalizeDate(booking.BookingDate)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
