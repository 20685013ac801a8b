package simulation

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

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateStoresJSON(t *testing.T) {
	repo, mock := newMockRepo(t)
	rec := Record{
		ID:        "4b0c3d1e-6a43-4c39-9f3e-2c5b1c7c1f10",
		UserID:    "user-1",
		Inputs:    Inputs{Plan: plans.TierTeam, Seats: 3},
		Output:    Run(Inputs{Plan: plans.TierTeam, Seats: 3}),
		CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO simulation_runs").
		WithArgs(rec.ID, rec.UserID, "team", sqlmock.AnyArg(), sqlmock.AnyArg(), rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListDecodesRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, user_id, inputs, output, created_at").
		WithArgs("user-1", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "inputs", "output", "created_at"}).
			AddRow("id-1", "user-1",
				[]byte(`{"plan":"pro","seats":4,"reportsUsed":1,"searchesUsed":2,"subscriptionActive":true}`),
				[]byte(`{"allowedReports":75,"allowedSearches":100,"seatsAllowed":20,"rehireProbability":61}`),
				created))

	recs, err := repo.ListByUser(context.Background(), "user-1", 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, plans.TierPro, recs[0].Inputs.Plan)
	assert.Equal(t, 75, recs[0].Output.AllowedReports)
	assert.Nil(t, recs[0].Output.EstimatedClicks)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM simulation_runs").
		WithArgs("id-9", "user-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "user-1", "id-9")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
