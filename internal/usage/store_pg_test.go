package usage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workvouch/internal/plans"
)

var accountColumns = []string{"plan", "seats", "reports_used", "searches_used", "subscription_active", "resets_at"}

func newMockStore(t *testing.T, now time.Time) (*pgStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := NewPGStore(db)
	s.now = func() time.Time { return now }
	return s, mock
}

func TestPGStoreEnsurePeriodInsertsDefault(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s, mock := newMockStore(t, now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT plan, seats").
		WithArgs("emp-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO usage_accounts").
		WithArgs("emp-1", "free", 1, 0, 0, false, now.AddDate(0, 1, 0)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	a, err := s.EnsurePeriod(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Equal(t, plans.TierFree, a.Plan)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreConsumeUpdatesRow(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	resets := now.AddDate(0, 0, 10)
	s, mock := newMockStore(t, now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT plan, seats").
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow("pro", 4, 10, 2, true, resets))
	mock.ExpectExec("UPDATE usage_accounts").
		WithArgs("pro", 4, 13, 2, true, resets, "emp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a, err := s.Consume(context.Background(), "emp-1", KindReport, 3)
	require.NoError(t, err)
	assert.Equal(t, 13, a.ReportsUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreConsumeLimitRollsBack(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s, mock := newMockStore(t, now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT plan, seats").
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow("free", 1, 1, 0, false, now.Add(time.Hour)))
	mock.ExpectRollback()

	_, err := s.Consume(context.Background(), "emp-1", KindReport, 1)
	assert.ErrorIs(t, err, ErrLimitReached)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStoreRollsExpiredPeriod(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s, mock := newMockStore(t, now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT plan, seats").
		WithArgs("emp-1").
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow("team", 3, 30, 40, true, now.Add(-time.Hour)))
	mock.ExpectExec("UPDATE usage_accounts").
		WithArgs("team", 3, 0, 0, true, now.AddDate(0, 1, 0), "emp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a, err := s.EnsurePeriod(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Zero(t, a.ReportsUsed)
	assert.Zero(t, a.SearchesUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}
