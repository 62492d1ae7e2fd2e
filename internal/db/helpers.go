// Package db holds the SQL plumbing shared by the repositories.
package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"

	"jobboard/internal/domain"
)

// MySQL error numbers the repositories translate.
const (
	ErrDuplicateEntry = 1062
	ErrNoReferenced   = 1452
)

// QueryRower is satisfied by *sql.DB and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQL is the statement builder for MySQL placeholders.
var SQL = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// NullIfEmpty helps store optional strings as NULL.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func NullInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func NullTime(p *time.Time) any {
	if p == nil || p.IsZero() {
		return nil
	}
	return *p
}

func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func Int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}

func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// IsDuplicate reports a unique key violation.
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == ErrDuplicateEntry
}

// MapError translates driver errors into the domain taxonomy. Unknown errors
// pass through unchanged.
func MapError(resource, key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: resource, Key: key, Err: err}
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case ErrDuplicateEntry:
			return domain.ConflictError{Resource: resource, Msg: "already exists", Err: err}
		case ErrNoReferenced:
			return domain.NotFoundError{Resource: "referenced record", Err: err}
		}
	}
	return err
}

// HasTable reports whether table exists in the connected schema. Any error
// reads as false.
func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}
