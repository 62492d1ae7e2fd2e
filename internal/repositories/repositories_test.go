package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listing"
)

var jobRowColumns = []string{
	"id", "employer_id", "title", "company_name", "city", "description", "job_type", "status",
	"salary_min", "salary_max", "skills", "deadline", "created_at", "updated_at",
	"first_name", "last_name", "email",
}

func jobRowValues(id int64, title string) []driver.Value {
	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, int64(9), title, "Acme", "Berlin", "desc", "full-time", "active",
		int64(50000), nil, []byte(`["go","sql"]`), nil, created, created,
		"Grace", "Hopper", "grace@acme.test",
	}
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return db, mock, func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	}
}

func TestJobListSecondPage(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	q, err := listing.ParseQuery(url.Values{"page": {"2"}, "limit": {"10"}}, PublicJobSpec)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	pred := PublicJobSpec.Build(q)
	page := listing.Paginate(q.Page, q.Limit, 25)

	rows := sqlmock.NewRows(jobRowColumns)
	for i := int64(11); i <= 20; i++ {
		rows.AddRow(jobRowValues(i, "Engineer")...)
	}
	mock.ExpectQuery(regexp.QuoteMeta("FROM jobs j LEFT JOIN users u ON u.id = j.employer_id WHERE j.status = ? ORDER BY j.created_at DESC, j.id DESC LIMIT 10 OFFSET 10")).
		WithArgs(domain.JobActive).
		WillReturnRows(rows)

	jobs, err := JobRepository{DB: db}.List(context.Background(), pred, PublicJobSpec.OrderBy(q), page.Skip, page.Take)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 10 {
		t.Fatalf("expected 10 jobs, got %d", len(jobs))
	}
	first := jobs[0]
	if first.ID != 11 || first.Employer == nil || first.Employer.Email != "grace@acme.test" {
		t.Fatalf("unexpected first job: %+v", first)
	}
	if first.SalaryMin == nil || *first.SalaryMin != 50000 || first.SalaryMax != nil || first.Deadline != nil {
		t.Fatalf("nullable columns not mapped: %+v", first)
	}
	if len(first.Skills) != 2 || first.Skills[1] != "sql" {
		t.Fatalf("skills not decoded: %v", first.Skills)
	}
	if page.Summary != (listing.Summary{Current: 2, Pages: 3, Total: 25}) {
		t.Fatalf("unexpected summary: %+v", page.Summary)
	}
}

func TestJobCountUsesSamePredicate(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	q := listing.ListQuery{Page: 1, Limit: 10, Search: "engineer"}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM jobs j LEFT JOIN users u ON u.id = j.employer_id WHERE (j.status = ? AND (LOWER(j.title) LIKE ?")).
		WithArgs(domain.JobActive, "%engineer%", "%engineer%", "%engineer%", "%engineer%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := JobRepository{DB: db}.Count(context.Background(), PublicJobSpec.Build(q))
	if err != nil || n != 3 {
		t.Fatalf("count = %d, %v", n, err)
	}
}

func TestJobGetByIDNotFound(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("FROM jobs j").WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(jobRowColumns))

	_, err := JobRepository{DB: db}.GetByID(context.Background(), 42)
	if !domain.IsNotFound(err) || err.Error() != "job 42 not found" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestJobCreateDuplicateIsConflict(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO jobs").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '9-Engineer'"})

	j := models.Job{EmployerID: 9, Title: "Engineer", CompanyName: "Acme", JobType: "full-time", Status: "active"}
	err := JobRepository{DB: db}.Create(context.Background(), &j)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestJobCreateSetsID(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO jobs").WillReturnResult(sqlmock.NewResult(77, 1))

	j := models.Job{EmployerID: 9, Title: "Engineer", Skills: models.StringList{"go"}}
	if err := (JobRepository{DB: db}).Create(context.Background(), &j); err != nil {
		t.Fatalf("create: %v", err)
	}
	if j.ID != 77 || j.CreatedAt.IsZero() {
		t.Fatalf("job not updated after insert: %+v", j)
	}
}

func TestJobDeleteMissing(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("DELETE FROM jobs").WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := (JobRepository{DB: db}).Delete(context.Background(), 5); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

var userRowColumns = []string{
	"id", "first_name", "last_name", "email", "password_hash", "role", "status", "phone", "city",
	"headline", "experience_years", "skills", "company_name", "created_at", "updated_at",
}

func TestUserFindByEmailWithoutProfile(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users u WHERE u.email = ? LIMIT 1")).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			int64(1), "Ada", "Lovelace", "ada@example.com", "$2a$hash", "jobseeker", "active", "", "London",
			nil, nil, nil, nil, now, now,
		))

	u, err := UserRepository{DB: db}.FindByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.Profile != nil {
		t.Fatalf("expected no profile, got %+v", u.Profile)
	}
	if u.PasswordHash != "$2a$hash" {
		t.Fatalf("hash should be loaded for login")
	}
}

func TestUserFindByEmailMissing(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("FROM users u").WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := UserRepository{DB: db}.FindByEmail(context.Background(), "ghost@example.com")
	if !domain.IsNotFound(err) || err.Error() != "user ghost@example.com not found" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	u := models.User{FirstName: "Ada", Email: "ada@example.com", Role: "jobseeker", Status: "active"}
	if err := (UserRepository{DB: db}).Create(context.Background(), &u); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

var applicationRowColumns = []string{
	"id", "job_id", "user_id", "status", "cover_letter", "applied_at",
	"title", "company_name", "employer_id", "first_name", "last_name", "email", "headline",
}

func TestApplicationListJoinsJobAndApplicant(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	q := listing.ListQuery{Page: 1, Limit: 10, Filters: map[string][]string{"job_id": {"3"}}}
	mock.ExpectQuery(regexp.QuoteMeta("FROM applications a JOIN jobs j ON j.id = a.job_id JOIN users u ON u.id = a.user_id WHERE a.job_id = ?")).
		WithArgs("3").
		WillReturnRows(sqlmock.NewRows(applicationRowColumns).AddRow(
			int64(1), int64(3), int64(7), "pending", "hello", time.Now(),
			"Backend Engineer", "Acme", int64(9), "Linus", "T", "linus@example.com", nil,
		))

	apps, err := ApplicationRepository{DB: db}.List(context.Background(), ApplicationSpec.Build(q), ApplicationSpec.OrderBy(q), 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(apps) != 1 || apps[0].Job.Title != "Backend Engineer" || apps[0].Applicant.Email != "linus@example.com" {
		t.Fatalf("unexpected applications: %+v", apps)
	}
	if apps[0].Applicant.Headline != nil || apps[0].Job.EmployerID != 9 {
		t.Fatalf("join columns not mapped: %+v", apps[0])
	}
}

func TestApplicationSearchMatchesFullName(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	q := listing.ListQuery{Search: "Jane Doe"}
	mock.ExpectQuery(regexp.QuoteMeta("LOWER(CONCAT_WS(' ', u.first_name, u.last_name)) LIKE ?")).
		WithArgs("%jane doe%", "%jane doe%", "%jane doe%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	n, err := ApplicationRepository{DB: db}.Count(context.Background(), ApplicationSpec.Build(q))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
}

func TestApplicationCreateTwiceIsConflict(t *testing.T) {
	db, mock, done := newMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO applications").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO applications").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '3-7'"})

	repo := ApplicationRepository{DB: db}
	a := models.Application{JobID: 3, UserID: 7, Status: "pending"}
	if err := repo.Create(context.Background(), &a); err != nil || a.ID != 1 {
		t.Fatalf("first create: %v", err)
	}
	b := models.Application{JobID: 3, UserID: 7, Status: "pending"}
	if err := repo.Create(context.Background(), &b); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
