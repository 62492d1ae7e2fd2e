package services

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	intconfig "jobboard/internal/config"
	"jobboard/internal/listing"
)

var (
	jobCols = []string{
		"id", "employer_id", "title", "company_name", "city", "description", "job_type", "status",
		"salary_min", "salary_max", "skills", "deadline", "created_at", "updated_at",
		"first_name", "last_name", "email",
	}
	userCols = []string{
		"id", "first_name", "last_name", "email", "password_hash", "role", "status", "phone", "city",
		"headline", "experience_years", "skills", "company_name", "created_at", "updated_at",
	}
	appCols = []string{
		"id", "job_id", "user_id", "status", "cover_letter", "applied_at",
		"title", "company_name", "employer_id", "first_name", "last_name", "email", "headline",
	}
	fixedTime = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
)

func jobRow(id, employerID int64, title, status string) []driver.Value {
	return []driver.Value{
		id, employerID, title, "Acme", "Berlin", "desc", "full-time", status,
		nil, nil, []byte(`[]`), nil, fixedTime, fixedTime,
		"Grace", "Hopper", "grace@acme.test",
	}
}

func userRow(id int64, email, role, hash string) []driver.Value {
	return []driver.Value{
		id, "Test", "User", email, hash, role, "active", "", "Berlin",
		nil, nil, nil, nil, fixedTime, fixedTime,
	}
}

func appRow(id, jobID, userID, employerID int64) []driver.Value {
	return []driver.Value{
		id, jobID, userID, "pending", "", fixedTime,
		"Backend Engineer", "Acme", employerID, "Linus", "T", "linus@example.com", nil,
	}
}

// withMock points the shared connection at a fresh sqlmock, as the
// repositories fall back to it when their DB field is nil.
func withMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	intconfig.DB = db
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		intconfig.DB = nil
		db.Close()
	})
	return db, mock
}

func defaultQuery() listing.ListQuery {
	return listing.ListQuery{Page: listing.DefaultPage, Limit: listing.DefaultLimit}
}
