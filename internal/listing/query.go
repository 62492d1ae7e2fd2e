package listing

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobboard/internal/domain"
)

// Query parameter names shared by every list endpoint.
const (
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSearch = "search"
	ParamStatus = "status"
	ParamFrom   = "from"
	ParamTo     = "to"
	ParamMin    = "min"
	ParamMax    = "max"
	ParamSort   = "sort"
	ParamOrder  = "order"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit within int for any accepted limit.
	MaxPage = math.MaxInt32

	OrderAsc  = "asc"
	OrderDesc = "desc"

	DateLayout = "2006-01-02"
)

// ListQuery is the typed, bounds-checked form of a list request.
type ListQuery struct {
	Page      int
	Limit     int
	Search    string
	Status    []string
	From      *time.Time
	To        *time.Time
	Min       *float64
	Max       *float64
	Filters   map[string][]string
	SortField string
	SortDir   string
}

// ParseQuery validates page/limit/sort/order strictly and reports every bad
// field at once. Range and date bounds stay lenient: unparsable values are
// treated as absent.
func ParseQuery(values url.Values, spec Spec) (ListQuery, error) {
	q := ListQuery{Page: DefaultPage, Limit: DefaultLimit}
	var errs domain.ValidationErrors

	if raw := strings.TrimSpace(values.Get(ParamPage)); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, domain.ValidationError{Field: ParamPage, Msg: "must be an integer"})
		case n < 1:
			errs = append(errs, domain.ValidationError{Field: ParamPage, Msg: "must be >= 1"})
		case n > MaxPage:
			errs = append(errs, domain.ValidationError{Field: ParamPage, Msg: "must be <= " + strconv.Itoa(MaxPage)})
		default:
			q.Page = n
		}
	}

	if raw := strings.TrimSpace(values.Get(ParamLimit)); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, domain.ValidationError{Field: ParamLimit, Msg: "must be an integer"})
		case n < 1:
			errs = append(errs, domain.ValidationError{Field: ParamLimit, Msg: "must be >= 1"})
		case n > MaxLimit:
			q.Limit = MaxLimit
		default:
			q.Limit = n
		}
	}

	q.Search = strings.TrimSpace(values.Get(ParamSearch))
	q.Status = splitList(values.Get(ParamStatus))
	q.Min = parseFloat(values.Get(ParamMin))
	q.Max = parseFloat(values.Get(ParamMax))
	q.From = parseDate(values.Get(ParamFrom))
	q.To = parseDate(values.Get(ParamTo))

	for name := range spec.Enums {
		if vals := splitList(values.Get(name)); len(vals) > 0 {
			if q.Filters == nil {
				q.Filters = map[string][]string{}
			}
			q.Filters[name] = vals
		}
	}

	if raw := strings.TrimSpace(values.Get(ParamSort)); raw != "" {
		if _, ok := spec.Sorts[raw]; !ok {
			errs = append(errs, domain.ValidationError{Field: ParamSort, Msg: "unsupported sort field " + strconv.Quote(raw)})
		} else {
			q.SortField = raw
		}
	}

	if raw := strings.ToLower(strings.TrimSpace(values.Get(ParamOrder))); raw != "" {
		if raw != OrderAsc && raw != OrderDesc {
			errs = append(errs, domain.ValidationError{Field: ParamOrder, Msg: "must be asc or desc"})
		} else {
			q.SortDir = raw
		}
	}

	if err := errs.OrNil(); err != nil {
		return ListQuery{}, err
	}
	return q, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}
