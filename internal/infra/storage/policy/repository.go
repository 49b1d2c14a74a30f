package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/psqlbuilder"
)

var policyColumns = []string{
	"id",
	"facility_id",
	"court_id",
	"cancellation_fee_bps",
	"cancellation_flat_fee",
	"free_cancellation_hours",
	"modification_fee",
	"created_at",
	"updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Repository репозиторий политик сборов площадок
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую политику сборов
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, p *domain.FacilityPolicy) (*domain.FacilityPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("facility_policies").
		Columns(
			"facility_id",
			"court_id",
			"cancellation_fee_bps",
			"cancellation_flat_fee",
			"free_cancellation_hours",
			"modification_fee",
		).
		Values(
			p.FacilityID,
			p.CourtID,
			p.CancellationFeeBps,
			p.CancellationFlatFee,
			p.FreeCancellationHours,
			p.ModificationFee,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// GetByFacilityAndCourt получает политику конкретного уровня иерархии
// courtID = nil означает политику всей площадки
func (r *Repository) GetByFacilityAndCourt(ctx context.Context, facilityID int64, courtID *int64) (*domain.FacilityPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(policyColumns...).
		From("facility_policies").
		Where(squirrel.Eq{"facility_id": facilityID})

	// Фильтрация по court_id (NULL или конкретное значение)
	if courtID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"court_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"court_id": *courtID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityAndCourt - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPolicy(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityAndCourt - scan policy: %w", ErrScanRow, err)
	}

	return p, nil
}

// GetWithHierarchy получает политику с учетом приоритетов:
// 1. Политика конкретного корта (facilityID, courtID)
// 2. Политика всей площадки (facilityID, NULL)
//
// Если политика не найдена ни на одном уровне, возвращает ErrPolicyNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, facilityID int64, courtID *int64) (*domain.FacilityPolicy, error) {
	if courtID != nil {
		p, err := r.GetByFacilityAndCourt(ctx, facilityID, courtID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrPolicyNotFound) {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (court): %w", ErrExecQuery, err)
		}
	}

	p, err := r.GetByFacilityAndCourt(ctx, facilityID, nil)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (facility): %w", ErrExecQuery, err)
	}

	return nil, ErrPolicyNotFound
}

// GetAllByFacility получает все политики площадки (общую и по кортам)
func (r *Repository) GetAllByFacility(ctx context.Context, facilityID int64) ([]*domain.FacilityPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("facility_policies").
		Where(squirrel.Eq{"facility_id": facilityID}).
		OrderBy("court_id ASC NULLS FIRST"). // Политика площадки первой
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByFacility - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByFacility - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	policies := make([]*domain.FacilityPolicy, 0)

	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByFacility - scan row: %w", ErrScanRow, err)
		}
		policies = append(policies, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByFacility - rows error: %w", ErrScanRow, err)
	}

	return policies, nil
}

// Update обновляет значения сборов политики
func (r *Repository) Update(ctx context.Context, id int64, p *domain.FacilityPolicy) (*domain.FacilityPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("facility_policies").
		Set("cancellation_fee_bps", p.CancellationFeeBps).
		Set("cancellation_flat_fee", p.CancellationFlatFee).
		Set("free_cancellation_hours", p.FreeCancellationHours).
		Set("modification_fee", p.ModificationFee).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	p.ID = id
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

func scanPolicy(row rowScanner) (*domain.FacilityPolicy, error) {
	var p domain.FacilityPolicy
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.FacilityID,
		&p.CourtID,
		&p.CancellationFeeBps,
		&p.CancellationFlatFee,
		&p.FreeCancellationHours,
		&p.ModificationFee,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
