package overlap

import "time"

// JobHistoryEntry is one employment record from a parsed résumé. A nil
// EndDate means the job is ongoing.
type JobHistoryEntry struct {
	Company   string  `json:"company" binding:"max=200"`
	Title     string  `json:"title,omitempty" binding:"max=200"`
	StartDate string  `json:"start_date" binding:"max=64"`
	EndDate   *string `json:"end_date" binding:"omitempty,max=64"`
}

// ParsedResume carries the job history extracted from a résumé.
type ParsedResume struct {
	JobHistory []JobHistoryEntry `json:"jobHistory" binding:"max=200,dive"`
}

// Employee is a worker whose history can be compared against others.
type Employee struct {
	ID         string            `json:"id"`
	JobHistory []JobHistoryEntry `json:"jobHistory"`
}

// Suggestion proposes SuggestedEmployeeID as a peer reference for EmployeeID
// because both worked at Company during the overlap window. OverlapEnd is nil
// when both jobs are still ongoing.
type Suggestion struct {
	EmployeeID          string     `json:"employeeId"`
	SuggestedEmployeeID string     `json:"suggestedEmployeeId"`
	Company             string     `json:"company"`
	OverlapStart        time.Time  `json:"overlapStart"`
	OverlapEnd          *time.Time `json:"overlapEnd"`
	CreatedAt           time.Time  `json:"createdAt,omitempty"`
}
