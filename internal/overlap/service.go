package overlap

import (
	"context"
	"fmt"
	"time"

	"workvouch/internal/shared/metrics"
	"workvouch/internal/shared/telemetry"
)

// Service records job histories and maintains peer suggestions.
type Service struct {
	Repo Repo
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: time.Now}
}

// SubmitResume stores the employee's history and recomputes their peer
// suggestions against every other stored employee. Each match is stored in
// both directions so the coworker sees it too. The returned slice holds the
// suggestions for employeeID only.
func (s *Service) SubmitResume(ctx context.Context, employeeID string, resume ParsedResume) ([]Suggestion, error) {
	if employeeID == "" {
		return nil, ErrInvalidInput
	}
	if err := s.Repo.SaveHistory(ctx, employeeID, resume.JobHistory); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}
	others, err := s.Repo.ListOthers(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	found := ComputePeerSuggestions(employeeID, resume, others)
	now := s.now().UTC()
	all := make([]Suggestion, 0, 2*len(found))
	for i := range found {
		found[i].CreatedAt = now
		mirror := found[i]
		mirror.EmployeeID, mirror.SuggestedEmployeeID = found[i].SuggestedEmployeeID, found[i].EmployeeID
		all = append(all, found[i], mirror)
	}

	if err := s.Repo.ReplaceSuggestions(ctx, employeeID, all); err != nil {
		return nil, fmt.Errorf("replace suggestions: %w", err)
	}

	metrics.AddPeerSuggestions(len(found))
	telemetry.Info("overlap.resume_submitted", map[string]any{
		"employee_id":   employeeID,
		"jobs":          len(resume.JobHistory),
		"compared_with": len(others),
		"suggestions":   len(found),
	})
	if found == nil {
		found = []Suggestion{}
	}
	return found, nil
}

// Suggestions returns the stored suggestions for employeeID.
func (s *Service) Suggestions(ctx context.Context, employeeID string) ([]Suggestion, error) {
	if employeeID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListSuggestions(ctx, employeeID)
}
