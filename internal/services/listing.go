package services

import (
	"context"
	"strings"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/listing"
	"jobboard/internal/record"
)

// Page is one page of entities plus its pagination block.
type Page[T any] struct {
	Items   []T
	Summary listing.Summary
}

type pagedRepo[T any] interface {
	List(ctx context.Context, pred listing.Predicate, orderBy []string, skip, take int) ([]T, error)
	Count(ctx context.Context, pred listing.Predicate) (int64, error)
}

// listPage counts first so a page past the end skips the SELECT.
func listPage[T any](ctx context.Context, repo pagedRepo[T], spec listing.Spec, q listing.ListQuery) (Page[T], error) {
	pred := spec.Build(q)
	total, err := repo.Count(ctx, pred)
	if err != nil {
		return Page[T]{}, err
	}
	page := listing.Paginate(q.Page, q.Limit, total)
	out := Page[T]{Items: []T{}, Summary: page.Summary}
	if total <= int64(page.Skip) {
		return out, nil
	}
	items, err := repo.List(ctx, pred, spec.OrderBy(q), page.Skip, page.Take)
	if err != nil {
		return Page[T]{}, err
	}
	out.Items = items
	return out, nil
}

// Typed readers over an imported record. Missing paths read as zero values;
// csvrow already enforced kinds and required columns.

func recInt64(rec record.Record, path string) *int64 {
	v, ok := rec.Get(path)
	if !ok {
		return nil
	}
	if n, ok := v.(int64); ok {
		return &n
	}
	return nil
}

func recStrings(rec record.Record, path string) []string {
	v, ok := rec.Get(path)
	if !ok {
		return nil
	}
	l, _ := v.([]string)
	return l
}

func recTime(rec record.Record, path string) *time.Time {
	v, ok := rec.Get(path)
	if !ok {
		return nil
	}
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return nil
}

func lowerOr(s, def string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	return s
}

func checkOneOf(errs *domain.ValidationErrors, field, v string, allowed []string) {
	if !domain.OneOf(v, allowed) {
		*errs = append(*errs, domain.ValidationError{Field: field, Msg: "must be one of " + strings.Join(allowed, ", ")})
	}
}
