package overlap

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// SaveHistory replaces the stored history in one transaction.
func (r *PGRepo) SaveHistory(ctx context.Context, employeeID string, entries []JobHistoryEntry) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM employee_job_history WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	const insert = `
INSERT INTO employee_job_history (employee_id, position, company, normalized_company, title, start_date, end_date)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, e := range entries {
		var title sql.NullString
		if e.Title != "" {
			title = sql.NullString{String: e.Title, Valid: true}
		}
		var end sql.NullString
		if e.EndDate != nil {
			end = sql.NullString{String: *e.EndDate, Valid: true}
		}
		if _, err = tx.ExecContext(ctx, insert, employeeID, i, e.Company, NormalizeCompany(e.Company), title, e.StartDate, end); err != nil {
			return fmt.Errorf("insert history row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListOthers groups history rows by employee, ordered by employee ID.
func (r *PGRepo) ListOthers(ctx context.Context, excludeID string) ([]Employee, error) {
	const query = `
SELECT employee_id, company, title, start_date, end_date
FROM employee_job_history
WHERE employee_id <> $1
ORDER BY employee_id, position`
	rows, err := r.DB.QueryContext(ctx, query, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var id string
		var e JobHistoryEntry
		var title, end sql.NullString
		if err := rows.Scan(&id, &e.Company, &title, &e.StartDate, &end); err != nil {
			return nil, err
		}
		e.Title = title.String
		if end.Valid {
			v := end.String
			e.EndDate = &v
		}
		if n := len(out); n == 0 || out[n-1].ID != id {
			out = append(out, Employee{ID: id})
		}
		last := &out[len(out)-1]
		last.JobHistory = append(last.JobHistory, e)
	}
	return out, rows.Err()
}

// ReplaceSuggestions swaps every suggestion involving employeeID for the given
// set in one transaction. Pairs present before and after keep their
// created_at.
func (r *PGRepo) ReplaceSuggestions(ctx context.Context, employeeID string, suggestions []Suggestion) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	created, err := existingCreatedAt(ctx, tx, employeeID)
	if err != nil {
		return fmt.Errorf("load suggestions: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM peer_suggestions WHERE employee_id = $1 OR suggested_employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("clear suggestions: %w", err)
	}

	const upsert = `
INSERT INTO peer_suggestions (employee_id, suggested_employee_id, company, overlap_start, overlap_end, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (employee_id, suggested_employee_id, company)
DO UPDATE SET overlap_start = EXCLUDED.overlap_start, overlap_end = EXCLUDED.overlap_end`
	for _, s := range suggestions {
		if at, ok := created[keyOf(s)]; ok {
			s.CreatedAt = at
		}
		var end sql.NullTime
		if s.OverlapEnd != nil {
			end = sql.NullTime{Time: *s.OverlapEnd, Valid: true}
		}
		if _, err = tx.ExecContext(ctx, upsert, s.EmployeeID, s.SuggestedEmployeeID, s.Company, s.OverlapStart, end, s.CreatedAt); err != nil {
			return fmt.Errorf("upsert suggestion: %w", err)
		}
	}
	return tx.Commit()
}

func existingCreatedAt(ctx context.Context, tx *sql.Tx, employeeID string) (map[suggestionKey]time.Time, error) {
	const query = `
SELECT employee_id, suggested_employee_id, company, created_at
FROM peer_suggestions
WHERE employee_id = $1 OR suggested_employee_id = $1`
	rows, err := tx.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[suggestionKey]time.Time)
	for rows.Next() {
		var k suggestionKey
		var at time.Time
		if err := rows.Scan(&k.employee, &k.suggested, &k.company, &at); err != nil {
			return nil, err
		}
		out[k] = at
	}
	return out, rows.Err()
}

func (r *PGRepo) ListSuggestions(ctx context.Context, employeeID string) ([]Suggestion, error) {
	const query = `
SELECT employee_id, suggested_employee_id, company, overlap_start, overlap_end, created_at
FROM peer_suggestions
WHERE employee_id = $1
ORDER BY company, suggested_employee_id`
	rows, err := r.DB.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Suggestion, 0)
	for rows.Next() {
		var s Suggestion
		var end sql.NullTime
		if err := rows.Scan(&s.EmployeeID, &s.SuggestedEmployeeID, &s.Company, &s.OverlapStart, &end, &s.CreatedAt); err != nil {
			return nil, err
		}
		if end.Valid {
			t := end.Time
			s.OverlapEnd = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
