package overlap

import "errors"

var (
	// ErrInvalidInput covers missing employee ids and empty résumés.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoJobHistory is returned when an uploaded résumé yields no entries.
	ErrNoJobHistory = errors.New("no job history found")
)
