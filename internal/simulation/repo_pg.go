package simulation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a simulation run with JSONB inputs and output.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO simulation_runs (id, user_id, plan, inputs, output, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	inputs, err := json.Marshal(rec.Inputs)
	if err != nil {
		return fmt.Errorf("encode inputs: %w", err)
	}
	output, err := json.Marshal(rec.Output)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query, rec.ID, rec.UserID, string(rec.Inputs.Plan), inputs, output, rec.CreatedAt)
	return err
}

// GetByID returns one of the user's runs.
func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Record, error) {
	const query = `
SELECT id, user_id, inputs, output, created_at
FROM simulation_runs
WHERE id = $1 AND user_id = $2`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// ListByUser returns the user's runs newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	const query = `
SELECT id, user_id, inputs, output, created_at
FROM simulation_runs
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	if limit <= 0 {
		limit = maxHistory
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var inputs, output []byte
	if err := row.Scan(&rec.ID, &rec.UserID, &inputs, &output, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(inputs, &rec.Inputs); err != nil {
		return Record{}, fmt.Errorf("decode inputs: %w", err)
	}
	if err := json.Unmarshal(output, &rec.Output); err != nil {
		return Record{}, fmt.Errorf("decode output: %w", err)
	}
	return rec, nil
}
