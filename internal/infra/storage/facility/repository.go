package facility

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

// Repository читает корты и расписание работы площадок
// Данные принадлежат сервису управления площадками, здесь только чтение
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория площадок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCourt получает корт по ID
func (r *Repository) GetCourt(ctx context.Context, courtID int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"facility_id",
		"name",
		"sport_type",
		"price_per_hour",
		"capacity",
		"is_active",
	).
		From("courts").
		Where(squirrel.Eq{"id": courtID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCourt - build select query: %v", ErrBuildQuery, err)
	}

	var court domain.Court
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&court.ID,
		&court.FacilityID,
		&court.Name,
		&court.SportType,
		&court.PricePerHour,
		&court.Capacity,
		&court.IsActive,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCourt - scan court: %w", ErrScanRow, err)
	}

	return &court, nil
}

// GetOperatingHours получает часы работы площадки для дня недели
func (r *Repository) GetOperatingHours(ctx context.Context, facilityID int64, day time.Weekday) (*domain.OperatingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"facility_id",
		"day_of_week",
		"to_char(open_time, 'HH24:MI')",
		"to_char(close_time, 'HH24:MI')",
		"is_closed",
	).
		From("operating_hours").
		Where(squirrel.Eq{"facility_id": facilityID, "day_of_week": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingHours - build select query: %v", ErrBuildQuery, err)
	}

	var hours domain.OperatingHours
	var dayOfWeek int

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hours.FacilityID,
		&dayOfWeek,
		&hours.OpenTime,
		&hours.CloseTime,
		&hours.IsClosed,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingHours - scan hours: %w", ErrScanRow, err)
	}

	hours.DayOfWeek = time.Weekday(dayOfWeek)

	return &hours, nil
}
