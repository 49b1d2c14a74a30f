package timeslot

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

var slotColumns = []string{
	"id",
	"court_id",
	"slot_date",
	"to_char(start_time, 'HH24:MI')",
	"to_char(end_time, 'HH24:MI')",
	"price_per_hour",
	"is_booked",
	"is_blocked",
	"block_reason",
	"booking_id",
	"created_at",
	"updated_at",
}

// returningColumns колонки для RETURNING (без алиасов squirrel)
const returningColumns = "RETURNING id, court_id, slot_date, to_char(start_time, 'HH24:MI'), " +
	"to_char(end_time, 'HH24:MI'), price_per_hour, is_booked, is_blocked, block_reason, booking_id, " +
	"created_at, updated_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий временных слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Acquire атомарно помечает слот занятым (check-and-mark)
// Обновление проходит только если слот свободен и не заблокирован, поэтому из
// конкурирующих транзакций слот получит ровно одна
func (r *Repository) Acquire(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_booked", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"court_id":   key.CourtID,
			"slot_date":  key.Date,
			"start_time": key.StartTime,
			"is_booked":  false,
			"is_blocked": false,
		}).
		Suffix(returningColumns).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Acquire - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: Acquire - execute update: %w", ErrExecQuery, err)
	}

	// Ни одна строка не обновилась: слота нет или он занят
	if _, err := r.GetByKey(ctx, key); err != nil {
		return nil, err
	}
	return nil, ErrSlotNotAvailable
}

// AttachBooking связывает занятый слот с созданным бронированием
func (r *Repository) AttachBooking(ctx context.Context, slotID, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID, "is_booked": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachBooking - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotHeld
	}

	return nil
}

// Release освобождает слот, удерживаемый бронированием
func (r *Repository) Release(ctx context.Context, slotID, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_booked", false).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID, "booking_id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotHeld
	}

	return nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByKey получает слот по естественному ключу (корт, дата, время начала)
func (r *Repository) GetByKey(ctx context.Context, key domain.SlotKey) (*domain.TimeSlot, error) {
	return r.getOne(ctx, "GetByKey", squirrel.Eq{
		"court_id":   key.CourtID,
		"slot_date":  key.Date,
		"start_time": key.StartTime,
	})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan slot: %w", ErrScanRow, op, err)
	}

	return slot, nil
}

// ListByCourtAndDate возвращает слоты корта на дату, упорядоченные по времени начала
func (r *Repository) ListByCourtAndDate(ctx context.Context, courtID int64, date time.Time) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"court_id": courtID, "slot_date": date}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByCourtAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCourtAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ListByCourtAndDatesForUpdate возвращает и блокирует слоты корта на несколько дат
// Используется при перегенерации расписания
func (r *Repository) ListByCourtAndDatesForUpdate(ctx context.Context, courtID int64, dates []time.Time) ([]*domain.TimeSlot, error) {
	if len(dates) == 0 {
		return []*domain.TimeSlot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"court_id": courtID, "slot_date": dates}).
		OrderBy("slot_date ASC", "start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCourtAndDatesForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCourtAndDatesForUpdate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// DeleteByIDs удаляет свободные слоты по списку ID
func (r *Repository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"id": ids, "is_booked": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByIDs - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByIDs - execute delete: %w", ErrExecQuery, err)
	}

	return nil
}

// InsertBatch вставляет новые слоты одним запросом
func (r *Repository) InsertBatch(ctx context.Context, slots []*domain.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("time_slots").
		Columns("court_id", "slot_date", "start_time", "end_time", "price_per_hour", "is_blocked", "block_reason")

	for _, slot := range slots {
		insertBuilder = insertBuilder.Values(
			slot.CourtID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.PricePerHour,
			slot.IsBlocked,
			slot.BlockReason,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: InsertBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: InsertBatch - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// Block блокирует свободный слот (техобслуживание, турнир)
func (r *Repository) Block(ctx context.Context, slotID int64, reason string) (*domain.TimeSlot, error) {
	return r.setBlocked(ctx, "Block", slotID, true, &reason)
}

// Unblock снимает блокировку со слота
func (r *Repository) Unblock(ctx context.Context, slotID int64) (*domain.TimeSlot, error) {
	return r.setBlocked(ctx, "Unblock", slotID, false, nil)
}

func (r *Repository) setBlocked(ctx context.Context, op string, slotID int64, blocked bool, reason *string) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_blocked", blocked).
		Set("block_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID, "is_booked": false}).
		Suffix(returningColumns).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	if _, err := r.GetByID(ctx, slotID); err != nil {
		return nil, err
	}
	return nil, ErrSlotNotAvailable
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.CourtID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.PricePerHour,
		&slot.IsBooked,
		&slot.IsBlocked,
		&slot.BlockReason,
		&slot.BookingID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Date = domain.NormalizeDate(slot.Date)
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.TimeSlot, error) {
	slots := make([]*domain.TimeSlot, 0)

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %w", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}
