package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB  *sql.DB
	now func() time.Time
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db, now: time.Now}
}

func (s *pgStore) EnsurePeriod(ctx context.Context, employerID string) (Account, error) {
	return s.mutate(ctx, employerID, nil)
}

func (s *pgStore) Consume(ctx context.Context, employerID string, kind Kind, n int) (Account, error) {
	return s.mutate(ctx, employerID, func(a *Account) error {
		return applyConsume(a, kind, n)
	})
}

func (s *pgStore) UpdatePlan(ctx context.Context, employerID string, u PlanUpdate) (Account, error) {
	return s.mutate(ctx, employerID, func(a *Account) error {
		return applyPlan(a, u)
	})
}

func (s *pgStore) Reset(ctx context.Context, employerID string) (Account, error) {
	return s.mutate(ctx, employerID, func(a *Account) error {
		a.ReportsUsed = 0
		a.SearchesUsed = 0
		a.ResetsAt = nextReset(s.now())
		return nil
	})
}

// mutate runs fn against the row-locked account inside one transaction.
// A nil fn only ensures the row exists and its period is current.
func (s *pgStore) mutate(ctx context.Context, employerID string, fn func(*Account) error) (acct Account, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Account{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	a, err := s.lockAndEnsure(ctx, tx, employerID)
	if err != nil {
		return Account{}, err
	}
	if fn != nil {
		if err = fn(&a); err != nil {
			return Account{}, err
		}
		if err = s.save(ctx, tx, a); err != nil {
			return Account{}, err
		}
	}
	if err = tx.Commit(); err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *pgStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, employerID string) (Account, error) {
	a := Account{EmployerID: employerID}
	var plan string
	row := tx.QueryRowContext(ctx, `
SELECT plan, seats, reports_used, searches_used, subscription_active, resets_at
FROM usage_accounts WHERE employer_id = $1 FOR UPDATE`, employerID)
	err := row.Scan(&plan, &a.Seats, &a.ReportsUsed, &a.SearchesUsed, &a.SubscriptionActive, &a.ResetsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			a = defaultAccount(employerID, s.now())
			if _, err = tx.ExecContext(ctx, `
INSERT INTO usage_accounts (employer_id, plan, seats, reports_used, searches_used, subscription_active, resets_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				a.EmployerID, string(a.Plan), a.Seats, a.ReportsUsed, a.SearchesUsed, a.SubscriptionActive, a.ResetsAt); err != nil {
				return Account{}, err
			}
			return a, nil
		}
		return Account{}, err
	}
	a.Plan = tierOf(plan)

	if rollPeriod(&a, s.now().UTC()) {
		if err = s.save(ctx, tx, a); err != nil {
			return Account{}, err
		}
	}
	return a, nil
}

func (s *pgStore) save(ctx context.Context, tx *sql.Tx, a Account) error {
	_, err := tx.ExecContext(ctx, `
UPDATE usage_accounts
SET plan = $1, seats = $2, reports_used = $3, searches_used = $4, subscription_active = $5, resets_at = $6, updated_at = now()
WHERE employer_id = $7`,
		string(a.Plan), a.Seats, a.ReportsUsed, a.SearchesUsed, a.SubscriptionActive, a.ResetsAt, a.EmployerID)
	return err
}
