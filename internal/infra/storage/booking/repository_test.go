package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestRepository_MarkConfirmed(t *testing.T) {
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("pending booking is confirmed", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec(`UPDATE bookings SET status = \$1, confirmed_at = \$2, updated_at = \$3 WHERE id = \$4 AND status = \$5`).
			WithArgs(domain.StatusConfirmed, at, at, int64(1), domain.StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.MarkConfirmed(context.Background(), 1, at))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status already changed", func(t *testing.T) {
		repo, mock := newMock(t)

		mock.ExpectExec(`UPDATE bookings`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkConfirmed(context.Background(), 1, at)
		assert.ErrorIs(t, err, ErrStatusConflict)
		assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Cancel(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	reason := "plans changed"

	mock.ExpectExec(`UPDATE bookings SET status = \$1, cancelled_by = \$2, cancellation_reason = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 1, domain.StatusConfirmed, CancelInfo{
		CancelledBy: "user:7",
		Reason:      &reason,
		Fee:         1500,
		At:          at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT .* FROM bookings`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListPendingCreatedBefore_PagesByID(t *testing.T) {
	repo, mock := newMock(t)
	cutoff := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM bookings WHERE status = \$1 AND created_at < \$2 AND id > \$3 ORDER BY id ASC LIMIT 50`).
		WithArgs(domain.StatusPending, cutoff, int64(120)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	bookings, err := repo.ListPendingCreatedBefore(context.Background(), cutoff, 120, 50)
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}
