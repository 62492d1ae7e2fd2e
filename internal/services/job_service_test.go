package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"jobboard/internal/domain"
	"jobboard/internal/listing"
	"jobboard/internal/record"
)

func TestListPublicSecondPageOfTwentyFive(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM jobs j`).WithArgs(domain.JobActive).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(25)))
	rows := sqlmock.NewRows(jobCols)
	for i := int64(11); i <= 20; i++ {
		rows.AddRow(jobRow(i, 9, "Engineer", domain.JobActive)...)
	}
	mock.ExpectQuery(`LIMIT 10 OFFSET 10`).WithArgs(domain.JobActive).WillReturnRows(rows)

	page, err := JobService{}.ListPublic(context.Background(), listing.ListQuery{Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(page.Items))
	}
	if page.Summary != (listing.Summary{Current: 2, Pages: 3, Total: 25}) {
		t.Fatalf("unexpected summary %+v", page.Summary)
	}
}

func TestListPublicPastLastPage(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM jobs j`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(25)))

	page, err := JobService{}.ListPublic(context.Background(), listing.ListQuery{Page: 5, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 0 || page.Items == nil {
		t.Fatalf("expected empty non-nil items, got %v", page.Items)
	}
	if page.Summary != (listing.Summary{Current: 5, Pages: 3, Total: 25}) {
		t.Fatalf("unexpected summary %+v", page.Summary)
	}
}

func TestListPublicNoMatches(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM jobs j`).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(0)))

	page, err := JobService{}.ListPublic(context.Background(), listing.ListQuery{Page: 1, Limit: 10, Search: "nothing"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Summary.Pages != 0 || page.Summary.Total != 0 {
		t.Fatalf("unexpected summary %+v", page.Summary)
	}
}

func TestGetPublicHidesClosedJobs(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM jobs j`).WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(jobRow(4, 9, "Engineer", domain.JobClosed)...))

	_, err := JobService{}.GetPublic(context.Background(), 4)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateJobValidates(t *testing.T) {
	min, max := int64(5000), int64(1000)
	_, err := JobService{}.Create(context.Background(), domain.RequestContext{UserID: 9, Role: domain.RoleEmployer}, JobInput{
		CompanyName: "Acme",
		JobType:     "gig",
		SalaryMin:   &min,
		SalaryMax:   &max,
		Deadline:    "soon",
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateJobInsertsAndReloads(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectExec(`INSERT INTO jobs`).WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectQuery(`FROM jobs j`).WithArgs(int64(31)).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(jobRow(31, 9, "Go Developer", domain.JobActive)...))

	j, err := JobService{}.Create(context.Background(), domain.RequestContext{UserID: 9, Role: domain.RoleEmployer}, JobInput{
		Title:       " Go   Developer ",
		CompanyName: "Acme",
		Skills:      []string{"Go", "go", " sql "},
		Deadline:    "2025-03-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if j.ID != 31 || j.Employer == nil {
		t.Fatalf("unexpected job %+v", j)
	}
}

func TestUpdateJobOfAnotherEmployerIsForbidden(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM jobs j`).WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(jobRow(4, 9, "Engineer", domain.JobActive)...))

	_, err := JobService{}.Update(context.Background(), domain.RequestContext{UserID: 10, Role: domain.RoleEmployer}, 4, JobInput{Title: "x", CompanyName: "y"})
	if !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAdminMayDeleteAnyJob(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM jobs j`).WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(jobRow(4, 9, "Engineer", domain.JobActive)...))
	mock.ExpectExec(`DELETE FROM jobs`).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (JobService{}).Delete(context.Background(), domain.RequestContext{UserID: 1, Role: domain.RoleAdmin}, 4); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func importJobRecord() record.Record {
	rec := record.Record{"title": "Engineer", "company_name": "Acme"}
	rec.Set("employer.email", "HR@Acme.test")
	return rec
}

func TestJobImportRowUnknownEmployer(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM users u`).WithArgs("hr@acme.test").WillReturnRows(sqlmock.NewRows(userCols))

	err := JobService{}.ImportRow(context.Background(), importJobRecord())
	if !domain.IsNotFound(err) || err.Error() != "user hr@acme.test not found" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestJobImportRowRequiresEmployer(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM users u`).WithArgs("hr@acme.test").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userRow(3, "hr@acme.test", domain.RoleJobseeker, "x")...))

	if err := (JobService{}).ImportRow(context.Background(), importJobRecord()); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJobImportRowDuplicateIsConflict(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM users u`).WithArgs("hr@acme.test").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userRow(9, "hr@acme.test", domain.RoleEmployer, "x")...))
	mock.ExpectExec(`INSERT INTO jobs`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	if err := (JobService{}).ImportRow(context.Background(), importJobRecord()); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
