package listing

import (
	"sort"
	"strings"
)

// Spec declares what one list endpoint can filter and sort on.
type Spec struct {
	// Baseline is always ANDed in, e.g. status=active on the public job board.
	Baseline Predicate
	// Search lists the columns a search term is matched against.
	Search []string
	// Status, Numeric and Date name the column each filter applies to; empty disables it.
	Status  string
	Numeric string
	Date    string
	// Enums maps a query parameter to the column it filters (comma-separated sets).
	Enums map[string]string
	// Sorts maps a public sort key to its SQL column.
	Sorts        map[string]string
	DefaultSort  string
	DefaultOrder string
	// TieBreaker keeps paging stable when the sort column has duplicates.
	TieBreaker string
}

// Build turns a parsed query into a predicate. It is a pure function of q and s.
func (s Spec) Build(q ListQuery) Predicate {
	var parts And
	if s.Baseline != nil {
		parts = append(parts, s.Baseline)
	}

	if q.Search != "" && len(s.Search) > 0 {
		parts = append(parts, Contains{Columns: s.Search, Needle: q.Search})
	}
	if len(q.Status) > 0 && s.Status != "" {
		parts = append(parts, In{Column: s.Status, Values: q.Status})
	}
	if (q.Min != nil || q.Max != nil) && s.Numeric != "" {
		parts = append(parts, Range{Column: s.Numeric, Min: q.Min, Max: q.Max})
	}
	if (q.From != nil || q.To != nil) && s.Date != "" {
		parts = append(parts, DateRange{Column: s.Date, From: q.From, To: q.To})
	}

	// map order is random; keep the rendered SQL deterministic
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		col, ok := s.Enums[k]
		if !ok || len(q.Filters[k]) == 0 {
			continue
		}
		parts = append(parts, In{Column: col, Values: q.Filters[k]})
	}

	switch len(parts) {
	case 0:
		return All{}
	case 1:
		return parts[0]
	default:
		return parts
	}
}

// OrderBy renders the ORDER BY expressions for q.
func (s Spec) OrderBy(q ListQuery) []string {
	key := q.SortField
	if key == "" {
		key = s.DefaultSort
	}
	col, ok := s.Sorts[key]
	if !ok {
		return nil
	}
	dir := q.SortDir
	if dir == "" {
		dir = s.DefaultOrder
	}
	if dir == "" {
		dir = OrderAsc
	}
	out := []string{col + " " + strings.ToUpper(dir)}
	if s.TieBreaker != "" && s.TieBreaker != col {
		out = append(out, s.TieBreaker+" "+strings.ToUpper(dir))
	}
	return out
}

// WithBaseline returns a copy of s whose baseline also includes p.
func (s Spec) WithBaseline(p Predicate) Spec {
	if s.Baseline == nil {
		s.Baseline = p
		return s
	}
	s.Baseline = And{s.Baseline, p}
	return s
}
