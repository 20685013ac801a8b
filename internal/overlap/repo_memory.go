package overlap

import (
	"context"
	"sort"
	"sync"
)

type suggestionKey struct {
	employee  string
	suggested string
	company   string
}

// MemoryRepo is an in-memory Repo.
type MemoryRepo struct {
	mu          sync.RWMutex
	histories   map[string][]JobHistoryEntry
	suggestions map[suggestionKey]Suggestion
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		histories:   make(map[string][]JobHistoryEntry),
		suggestions: make(map[suggestionKey]Suggestion),
	}
}

func (r *MemoryRepo) SaveHistory(ctx context.Context, employeeID string, entries []JobHistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := make([]JobHistoryEntry, len(entries))
	copy(cp, entries)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories[employeeID] = cp
	return nil
}

// ListOthers returns employees ordered by ID.
func (r *MemoryRepo) ListOthers(ctx context.Context, excludeID string) ([]Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Employee, 0, len(r.histories))
	for id, h := range r.histories {
		if id == excludeID {
			continue
		}
		cp := make([]JobHistoryEntry, len(h))
		copy(cp, h)
		out = append(out, Employee{ID: id, JobHistory: cp})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func keyOf(s Suggestion) suggestionKey {
	return suggestionKey{employee: s.EmployeeID, suggested: s.SuggestedEmployeeID, company: s.Company}
}

// ReplaceSuggestions swaps every suggestion involving employeeID for the given
// set. Pairs present before and after keep their CreatedAt.
func (r *MemoryRepo) ReplaceSuggestions(ctx context.Context, employeeID string, suggestions []Suggestion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := make(map[suggestionKey]Suggestion)
	for k, s := range r.suggestions {
		if k.employee == employeeID || k.suggested == employeeID {
			prev[k] = s
			delete(r.suggestions, k)
		}
	}
	for _, s := range suggestions {
		k := keyOf(s)
		if old, ok := prev[k]; ok {
			s.CreatedAt = old.CreatedAt
		}
		r.suggestions[k] = s
	}
	return nil
}

// ListSuggestions returns the employee's suggestions ordered by company then
// suggested employee.
func (r *MemoryRepo) ListSuggestions(ctx context.Context, employeeID string) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Suggestion, 0)
	for k, s := range r.suggestions {
		if k.employee == employeeID {
			out = append(out, s)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Company != out[j].Company {
			return out[i].Company < out[j].Company
		}
		return out[i].SuggestedEmployeeID < out[j].SuggestedEmployeeID
	})
	return out, nil
}
