// Package record holds the nested map shape shared by projections, CSV rows and
// in-memory predicate matching. Paths are dotted: "employer.email".
package record

import "strings"

type Record map[string]any

// Get resolves a dotted path. Missing segments and nil values report ok=false.
func (r Record) Get(path string) (any, bool) {
	if r == nil || path == "" {
		return nil, false
	}
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// Set writes v at a dotted path, creating intermediate maps.
func (r Record) Set(path string, v any) {
	segs := strings.Split(path, ".")
	cur := map[string]any(r)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := asMap(cur[seg])
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = v
}

// String returns the value at path when it is a non-empty string.
func (r Record) String(path string) string {
	v, ok := r.Get(path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return map[string]any(m), true
	default:
		return nil, false
	}
}
