package listing

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Predicate is a filter expression the repositories render into WHERE.
// Columns carry the table aliases of the repository SELECTs.
type Predicate = sq.Sqlizer

// All matches every row.
type All struct{}

func (All) ToSql() (string, []any, error) { return "(1=1)", nil, nil }

// Eq is exact equality on one column.
type Eq struct {
	Column string
	Value  any
}

func (p Eq) ToSql() (string, []any, error) {
	return sq.Eq{p.Column: p.Value}.ToSql()
}

// In matches any of Values. A single value renders as plain equality.
type In struct {
	Column string
	Values []string
}

func (p In) ToSql() (string, []any, error) {
	if len(p.Values) == 1 {
		return sq.Eq{p.Column: p.Values[0]}.ToSql()
	}
	return sq.Eq{p.Column: p.Values}.ToSql()
}

// Contains is a case-insensitive substring match across several columns (OR).
// A column may be an expression such as CONCAT_WS(' ', first, last).
type Contains struct {
	Columns []string
	Needle  string
}

func (p Contains) ToSql() (string, []any, error) {
	pattern := "%" + escapeLike(strings.ToLower(p.Needle)) + "%"
	parts := make(sq.Or, 0, len(p.Columns))
	for _, col := range p.Columns {
		parts = append(parts, sq.Expr("LOWER("+col+") LIKE ?", pattern))
	}
	return parts.ToSql()
}

// Range restricts a numeric column to [Min, Max]. Either bound may be nil.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

func (p Range) ToSql() (string, []any, error) {
	parts := sq.And{}
	if p.Min != nil {
		parts = append(parts, sq.GtOrEq{p.Column: *p.Min})
	}
	if p.Max != nil {
		parts = append(parts, sq.LtOrEq{p.Column: *p.Max})
	}
	return parts.ToSql()
}

// DateRange restricts a date/time column to [From, To] by calendar day.
type DateRange struct {
	Column string
	From   *time.Time
	To     *time.Time
}

func (p DateRange) ToSql() (string, []any, error) {
	parts := sq.And{}
	if p.From != nil {
		parts = append(parts, sq.GtOrEq{p.Column: *p.From})
	}
	if p.To != nil {
		parts = append(parts, sq.Lt{p.Column: p.To.AddDate(0, 0, 1)})
	}
	return parts.ToSql()
}

type And []Predicate

func (p And) ToSql() (string, []any, error) {
	return sq.And(p).ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
