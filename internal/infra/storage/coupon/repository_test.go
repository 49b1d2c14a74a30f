package coupon

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestRepository_CountPendingHolds(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\), COUNT\(\*\) FILTER \(WHERE user_id = \$1\) FROM bookings WHERE UPPER\(applied_coupon_code\) = \$2 AND status = \$3`).
		WithArgs(int64(7), "LAST", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count", "user_count"}).AddRow(3, 1))

	total, byUser, err := repo.CountPendingHolds(context.Background(), " last ", 7)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, byUser)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountUserUsage(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM coupon_usages WHERE coupon_id = \$1 AND user_id = \$2`).
		WithArgs(int64(5), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountUserUsage(context.Background(), 5, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
