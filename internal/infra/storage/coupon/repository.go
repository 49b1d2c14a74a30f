package coupon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/psqlbuilder"
)

// Repository репозиторий купонов и их использований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория купонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode получает купон по коду (без учета регистра)
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"code",
		"discount_type",
		"discount_value",
		"min_booking_amount",
		"max_discount_amount",
		"usage_limit",
		"user_usage_limit",
		"used_count",
		"valid_from",
		"valid_until",
		"is_active",
	).
		From("coupons").
		Where(squirrel.Eq{"UPPER(code)": strings.ToUpper(strings.TrimSpace(code))}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Coupon
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinBookingAmount,
		&c.MaxDiscountAmount,
		&c.UsageLimit,
		&c.UserUsageLimit,
		&c.UsedCount,
		&c.ValidFrom,
		&c.ValidUntil,
		&c.IsActive,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan coupon: %w", ErrScanRow, err)
	}

	return &c, nil
}

// CountUserUsage возвращает количество использований купона пользователем
func (r *Repository) CountUserUsage(ctx context.Context, couponID, userID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("coupon_usages").
		Where(squirrel.Eq{"coupon_id": couponID, "user_id": userID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountUserUsage - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountUserUsage - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// CountPendingHolds возвращает количество ожидающих оплаты бронирований с купоном:
// всего и у указанного пользователя
func (r *Repository) CountPendingHolds(ctx context.Context, code string, userID int64) (int, int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE user_id = ?)", userID)).
		From("bookings").
		Where(squirrel.Eq{
			"UPPER(applied_coupon_code)": strings.ToUpper(strings.TrimSpace(code)),
			"status":                     string(domain.StatusPending),
		}).
		ToSql()

	if err != nil {
		return 0, 0, fmt.Errorf("%w: CountPendingHolds - build select query: %v", ErrBuildQuery, err)
	}

	var total, byUser int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total, &byUser); err != nil {
		return 0, 0, fmt.Errorf("%w: CountPendingHolds - scan counts: %w", ErrScanRow, err)
	}

	return total, byUser, nil
}

// IncrementUsage фиксирует использование купона бронированием
// Повторный вызов для того же бронирования ничего не меняет
func (r *Repository) IncrementUsage(ctx context.Context, code string, userID, bookingID int64) error {
	c, err := r.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("coupon_usages").
		Columns("coupon_id", "user_id", "booking_id").
		Values(c.ID, userID, bookingID).
		Suffix("ON CONFLICT (coupon_id, booking_id) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - execute insert: %w", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementUsage - get rows affected: %v", ErrExecQuery, err)
	}
	if inserted == 0 {
		return nil
	}

	return r.adjustUsedCount(ctx, "IncrementUsage", c.ID, "used_count + 1")
}

// DecrementUsage отменяет использование купона бронированием
// Если использование не было зафиксировано, ничего не делает
func (r *Repository) DecrementUsage(ctx context.Context, code string, bookingID int64) error {
	c, err := r.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("coupon_usages").
		Where(squirrel.Eq{"coupon_id": c.ID, "booking_id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementUsage - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementUsage - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementUsage - get rows affected: %v", ErrExecQuery, err)
	}
	if deleted == 0 {
		return nil
	}

	return r.adjustUsedCount(ctx, "DecrementUsage", c.ID, "GREATEST(used_count - 1, 0)")
}

func (r *Repository) adjustUsedCount(ctx context.Context, op string, couponID int64, expr string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("coupons").
		Set("used_count", squirrel.Expr(expr)).
		Where(squirrel.Eq{"id": couponID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	return nil
}
