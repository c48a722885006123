package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/concert-reservation/internal/model"
)

func newConcertRepo(t *testing.T) (*ConcertRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewConcertRepo(db), mock
}

func TestConcertGetByIDNotFound(t *testing.T) {
	repo, mock := newConcertRepo(t)

	mock.ExpectQuery("SELECT id, name, detail, capacity, created_at FROM concerts").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "detail", "capacity", "created_at"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrConcertNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcertCreate(t *testing.T) {
	repo, mock := newConcertRepo(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO concerts").
		WithArgs("Aurora Live", "open air", uint32(500)).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery("SELECT created_at FROM concerts").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	c := &model.Concert{Name: "Aurora Live", Detail: "open air", Capacity: 500}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, uint64(3), c.ID)
	assert.Equal(t, now, c.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcertCreateDuplicateName(t *testing.T) {
	repo, mock := newConcertRepo(t)

	mock.ExpectExec("INSERT INTO concerts").
		WithArgs("Aurora Live", "open air", uint32(500)).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'Aurora Live' for key 'uq_concerts_name'"))

	err := repo.Create(context.Background(), &model.Concert{Name: "Aurora Live", Detail: "open air", Capacity: 500})
	assert.ErrorIs(t, err, ErrConcertExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcertDeleteOrphansLedgerRows(t *testing.T) {
	repo, mock := newConcertRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservation_actions SET concert_id = NULL").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM concerts").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcertDeleteRollsBackOnFailure(t *testing.T) {
	repo, mock := newConcertRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservation_actions SET concert_id = NULL").
		WithArgs(uint64(3)).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), 3)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConcertSumCapacityEmpty(t *testing.T) {
	repo, mock := newConcertRepo(t)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(capacity\\), 0\\) FROM concerts").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0))

	total, err := repo.SumCapacity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
