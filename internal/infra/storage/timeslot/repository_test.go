package timeslot

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/types"
)

var (
	slotDate = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	stamp    = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	slotKey  = domain.SlotKey{CourtID: 1, Date: slotDate, StartTime: types.MustTimeString("18:00")}
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func slotRows(isBooked bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "court_id", "slot_date", "start_time", "end_time", "price_per_hour",
		"is_booked", "is_blocked", "block_reason", "booking_id", "created_at", "updated_at",
	}).AddRow(5, 1, slotDate, "18:00", "19:00", 50000, isBooked, false, nil, nil, stamp, stamp)
}

func TestRepository_Acquire(t *testing.T) {
	t.Run("free slot is marked booked", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(`UPDATE time_slots SET is_booked = \$1`).
			WillReturnRows(slotRows(true))

		slot, err := repo.Acquire(context.Background(), slotKey)
		require.NoError(t, err)
		assert.Equal(t, int64(5), slot.ID)
		assert.True(t, slot.IsBooked)
		assert.Equal(t, types.MustTimeString("19:00"), slot.EndTime)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("taken slot", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(`UPDATE time_slots`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT .* FROM time_slots`).WillReturnRows(slotRows(true))

		_, err := repo.Acquire(context.Background(), slotKey)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing slot", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectQuery(`UPDATE time_slots`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT .* FROM time_slots`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.Acquire(context.Background(), slotKey)
		assert.ErrorIs(t, err, ErrSlotNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Release(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE time_slots SET is_booked = \$1, booking_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE time_slots`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Release(context.Background(), 5, 10))
	assert.ErrorIs(t, repo.Release(context.Background(), 5, 11), ErrSlotNotHeld)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByCourtAndDatesForUpdate_LocksInsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM time_slots .* FOR UPDATE`).WillReturnRows(slotRows(false))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	ctx := dbmetrics.WithTx(context.Background(), tx)
	slots, err := repo.ListByCourtAndDatesForUpdate(ctx, 1, []time.Time{slotDate})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.False(t, slots[0].IsBooked)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByCourtAndDatesForUpdate_NoDates(t *testing.T) {
	repo, mock := newMock(t)

	slots, err := repo.ListByCourtAndDatesForUpdate(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}
