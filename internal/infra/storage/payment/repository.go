package payment

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

var paymentColumns = []string{
	"id",
	"booking_id",
	"status",
	"amount",
	"currency",
	"gateway_session_id",
	"checkout_url",
	"transaction_id",
	"attempts",
	"failure_reason",
	"paid_at",
	"session_created_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий платежей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает платеж для бронирования
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payments").
		Columns("booking_id", "status", "amount", "currency", "attempts").
		Values(payment.BookingID, payment.Status, payment.Amount, payment.Currency, payment.Attempts).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&payment.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	payment.CreatedAt = createdAt.Time
	payment.UpdatedAt = updatedAt.Time

	return payment, nil
}

// GetByBookingID получает платеж бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	return r.getOne(ctx, "GetByBookingID", squirrel.Eq{"booking_id": bookingID}, false)
}

// GetByBookingIDForUpdate получает платеж бронирования с блокировкой строки (внутри транзакции)
func (r *Repository) GetByBookingIDForUpdate(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	return r.getOne(ctx, "GetByBookingIDForUpdate", squirrel.Eq{"booking_id": bookingID}, true)
}

// GetBySessionID получает платеж по идентификатору сессии платежного шлюза
func (r *Repository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	return r.getOne(ctx, "GetBySessionID", squirrel.Eq{"gateway_session_id": sessionID}, false)
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq, forUpdate bool) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(where)

	if forUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var p domain.Payment
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.BookingID,
		&p.Status,
		&p.Amount,
		&p.Currency,
		&p.GatewaySessionID,
		&p.CheckoutURL,
		&p.TransactionID,
		&p.Attempts,
		&p.FailureReason,
		&p.PaidAt,
		&p.SessionCreatedAt,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan payment: %w", ErrScanRow, op, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// AttachSession сохраняет новую сессию платежного шлюза и увеличивает счетчик попыток
// Разрешено только для платежей в статусе pending или failed
func (r *Repository) AttachSession(ctx context.Context, bookingID int64, sessionID, checkoutURL string, at time.Time) error {
	query, args, err := psqlbuilder.Update("payments").
		Set("gateway_session_id", sessionID).
		Set("checkout_url", checkoutURL).
		Set("status", domain.PaymentPending).
		Set("failure_reason", nil).
		Set("session_created_at", at).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"booking_id": bookingID,
			"status":     []domain.PaymentStatus{domain.PaymentPending, domain.PaymentFailed},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachSession - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "AttachSession", query, args)
}

// MarkFailed переводит платеж в статус failed после неудачного создания сессии
func (r *Repository) MarkFailed(ctx context.Context, bookingID int64, reason string) error {
	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentFailed).
		Set("failure_reason", reason).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"booking_id": bookingID,
			"status":     []domain.PaymentStatus{domain.PaymentPending, domain.PaymentFailed},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkFailed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "MarkFailed", query, args)
}

// MarkCompleted фиксирует успешную оплату
func (r *Repository) MarkCompleted(ctx context.Context, bookingID int64, transactionID *string, at time.Time) error {
	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentCompleted).
		Set("transaction_id", transactionID).
		Set("failure_reason", nil).
		Set("paid_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"booking_id": bookingID,
			"status":     []domain.PaymentStatus{domain.PaymentPending, domain.PaymentFailed},
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkCompleted - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "MarkCompleted", query, args)
}

// MarkCancelled переводит платеж в статус cancelled
// paid_at и transaction_id сохраняются: возврат средств выполняется вне сервиса
func (r *Repository) MarkCancelled(ctx context.Context, bookingID int64) error {
	query, args, err := psqlbuilder.Update("payments").
		Set("status", domain.PaymentCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.NotEq{"status": domain.PaymentCancelled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkCancelled - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "MarkCancelled", query, args)
}

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
