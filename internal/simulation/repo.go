package simulation

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a simulation record does not exist for the caller.
var ErrNotFound = errors.New("simulation not found")

// Repo persists simulation runs.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	GetByID(ctx context.Context, userID, id string) (Record, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
}
