// Package overlap detects coworkers from employment histories and turns them
// into peer-reference suggestions.
package overlap

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing job dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

var companyStripper = strings.NewReplacer(",", "", ".", "")

// NormalizeCompany folds a company name so that spelling variants compare
// equal: lowercase, commas and periods removed, whitespace collapsed.
func NormalizeCompany(name string) string {
	folded := companyStripper.Replace(strings.ToLower(name))
	return strings.Join(strings.Fields(folded), " ")
}

// ParseDate parses a job date in any supported layout.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type interval struct {
	start   time.Time
	end     time.Time
	ongoing bool
}

// toInterval converts an entry to a half-open [start, end) range. ok is false
// when a present date does not parse.
func toInterval(e JobHistoryEntry) (interval, bool) {
	start, ok := ParseDate(e.StartDate)
	if !ok {
		return interval{}, false
	}
	if e.EndDate == nil || isOngoing(*e.EndDate) {
		return interval{start: start, ongoing: true}, true
	}
	end, ok := ParseDate(*e.EndDate)
	if !ok {
		return interval{}, false
	}
	return interval{start: start, end: end}, true
}

func isOngoing(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "present", "current", "now", "today":
		return true
	}
	return false
}

// intersect returns the shared window of a and b.
func intersect(a, b interval) (interval, bool) {
	out := interval{start: a.start}
	if b.start.After(out.start) {
		out.start = b.start
	}
	switch {
	case a.ongoing && b.ongoing:
		out.ongoing = true
	case a.ongoing:
		out.end = b.end
	case b.ongoing:
		out.end = a.end
	default:
		out.end = a.end
		if b.end.Before(out.end) {
			out.end = b.end
		}
	}
	if !out.ongoing && !out.start.Before(out.end) {
		return interval{}, false
	}
	return out, true
}

// ComputePeerSuggestions compares every job of resume against every job of
// each other employee. Jobs at the same normalized company with intersecting
// date ranges produce one suggestion per (employee, company) pair. Entries
// with unparseable dates are skipped and sourceEmployeeID is never suggested
// to itself.
func ComputePeerSuggestions(sourceEmployeeID string, resume ParsedResume, others []Employee) []Suggestion {
	type job struct {
		company string
		span    interval
	}
	source := make([]job, 0, len(resume.JobHistory))
	for _, e := range resume.JobHistory {
		company := NormalizeCompany(e.Company)
		if company == "" {
			continue
		}
		span, ok := toInterval(e)
		if !ok {
			continue
		}
		source = append(source, job{company: company, span: span})
	}

	var out []Suggestion
	seen := make(map[string]struct{})
	for _, other := range others {
		if other.ID == sourceEmployeeID {
			continue
		}
		for _, oe := range other.JobHistory {
			company := NormalizeCompany(oe.Company)
			if company == "" {
				continue
			}
			key := other.ID + ":" + company
			if _, dup := seen[key]; dup {
				continue
			}
			span, ok := toInterval(oe)
			if !ok {
				continue
			}
			for _, sj := range source {
				if sj.company != company {
					continue
				}
				shared, ok := intersect(sj.span, span)
				if !ok {
					continue
				}
				seen[key] = struct{}{}
				s := Suggestion{
					EmployeeID:          sourceEmployeeID,
					SuggestedEmployeeID: other.ID,
					Company:             company,
					OverlapStart:        shared.start,
				}
				if !shared.ongoing {
					end := shared.end
					s.OverlapEnd = &end
				}
				out = append(out, s)
				break
			}
		}
	}
	return out
}
