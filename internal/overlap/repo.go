package overlap

import "context"

// Repo stores employee job histories and the peer suggestions derived from them.
type Repo interface {
	// SaveHistory replaces the employee's job history.
	SaveHistory(ctx context.Context, employeeID string, entries []JobHistoryEntry) error
	// ListOthers returns every employee with a stored history except excludeID.
	ListOthers(ctx context.Context, excludeID string) ([]Employee, error)
	// ReplaceSuggestions atomically swaps every suggestion involving
	// employeeID, in either direction, for suggestions.
	ReplaceSuggestions(ctx context.Context, employeeID string, suggestions []Suggestion) error
	ListSuggestions(ctx context.Context, employeeID string) ([]Suggestion, error)
}
