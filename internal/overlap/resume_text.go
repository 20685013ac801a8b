package overlap

import (
	"bufio"
	"regexp"
	"strings"
)

const (
	datePattern  = `(?:[A-Za-z]{3,9}\.?\s+\d{4}|\d{4}-\d{2}(?:-\d{2})?|\d{2}/\d{4}|\d{4})`
	endPattern   = `(?:` + datePattern + `|present|current|now|today)`
	rangePattern = `(` + datePattern + `)(?:\s*[-–—]\s*|\s+to\s+)(` + endPattern + `)`
)

var (
	// Acme Corp | Engineer | Jan 2019 - Present
	pipeLine = regexp.MustCompile(`(?i)^([^|]+?)\s*\|\s*(?:([^|]+?)\s*\|\s*)?` + rangePattern + `$`)
	// Acme Corp (2019 - 2021)
	parenLine = regexp.MustCompile(`(?i)^(.+?)\s*\(\s*` + rangePattern + `\s*\)$`)
	// Acme, Inc., 2019 – 2021
	commaLine = regexp.MustCompile(`(?i)^(.+)\s*,\s*` + rangePattern + `$`)
)

// ParseJobHistory scans résumé text for one-line employment entries and
// returns them in document order. Lines that do not look like an entry, or
// whose dates do not parse, are ignored. Ongoing jobs get a nil EndDate.
func ParseJobHistory(text string) []JobHistoryEntry {
	var out []JobHistoryEntry
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(strings.Trim(sc.Text(), "•*·-\t "))
		if line == "" {
			continue
		}
		if e, ok := parseLine(line); ok {
			out = append(out, e)
		}
	}
	return out
}

func parseLine(line string) (JobHistoryEntry, bool) {
	var company, title, start, end string
	switch {
	case pipeLine.MatchString(line):
		m := pipeLine.FindStringSubmatch(line)
		company, title, start, end = m[1], m[2], m[3], m[4]
	case parenLine.MatchString(line):
		m := parenLine.FindStringSubmatch(line)
		company, start, end = m[1], m[2], m[3]
	case commaLine.MatchString(line):
		m := commaLine.FindStringSubmatch(line)
		company, start, end = m[1], m[2], m[3]
	default:
		return JobHistoryEntry{}, false
	}

	company = strings.TrimSpace(strings.TrimRight(company, ",| "))
	if NormalizeCompany(company) == "" {
		return JobHistoryEntry{}, false
	}
	e := JobHistoryEntry{
		Company:   company,
		Title:     strings.TrimSpace(title),
		StartDate: cleanDate(start),
	}
	if _, ok := ParseDate(e.StartDate); !ok {
		return JobHistoryEntry{}, false
	}
	if end = cleanDate(end); !isOngoing(end) {
		if _, ok := ParseDate(end); !ok {
			return JobHistoryEntry{}, false
		}
		e.EndDate = &end
	}
	return e, true
}

// cleanDate drops the period of abbreviated months ("Sep. 2020"), fixes their
// case and shortens "Sept" so month names match ParseDate layouts. Other
// words ("Summer 2018") are left as they are and fail to parse.
func cleanDate(raw string) string {
	s := strings.Join(strings.Fields(strings.ReplaceAll(raw, ".", "")), " ")
	if s == "" || s[0] < 'A' || (s[0] > 'Z' && s[0] < 'a') || s[0] > 'z' {
		return s
	}
	s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	if rest, ok := strings.CutPrefix(s, "Sept "); ok {
		s = "Sep " + rest
	}
	return s
}
