package csvrow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/record"
)

// Row renders rec in column order. Missing or nil values become "".
func (s Schema) Row(rec record.Record) []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		v, ok := rec.Get(c.Path)
		if !ok {
			continue
		}
		out[i] = FormatValue(v)
	}
	return out
}

// FormatValue renders one record value as a CSV cell.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case []string:
		return strings.Join(x, ArraySeparator)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case *int64:
		if x == nil {
			return ""
		}
		return strconv.FormatInt(*x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(DateLayout)
	case *time.Time:
		if x == nil || x.IsZero() {
			return ""
		}
		return x.Format(DateLayout)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// Record converts a row keyed by column title into a nested record. Empty
// cells are left out. Every bad cell is reported, keyed by its title.
func (s Schema) Record(row map[string]string) (record.Record, error) {
	rec := record.Record{}
	var errs domain.ValidationErrors
	for _, c := range s.Columns {
		raw := row[c.Title]
		if strings.TrimSpace(raw) == "" {
			if c.Required {
				errs = append(errs, domain.ValidationError{Field: c.Title, Msg: "is required"})
			}
			continue
		}
		// string cells are kept verbatim; typed cells tolerate padding
		if c.Kind != KindString {
			raw = strings.TrimSpace(raw)
		}
		v, err := parseCell(c.Kind, raw)
		if err != nil {
			errs = append(errs, domain.ValidationError{Field: c.Title, Msg: err.Error()})
			continue
		}
		rec.Set(c.Path, v)
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}
	return rec, nil
}

func parseCell(kind, raw string) (any, error) {
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("must be an integer, got %q", raw)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a number, got %q", raw)
		}
		return f, nil
	case KindArray:
		return SplitArray(raw), nil
	case KindDate:
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("must be a date (YYYY-MM-DD), got %q", raw)
		}
		return t, nil
	default:
		return raw, nil
	}
}

// SplitArray splits a delimited cell, dropping blank items.
func SplitArray(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
