package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/bulk"
	"jobboard/internal/csvrow"
	"jobboard/internal/domain"
)

var jobseeker = domain.RequestContext{UserID: 7, Role: domain.RoleJobseeker}

func TestApplyToClosedJob(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM jobs j`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(jobRow(3, 9, "Engineer", domain.JobClosed)...))

	_, err := ApplicationService{}.Apply(context.Background(), jobseeker, 3, "hi")
	assert.True(t, domain.IsValidation(err))
}

func TestApplyAfterDeadline(t *testing.T) {
	_, mock := withMock(t)

	row := jobRow(3, 9, "Engineer", domain.JobActive)
	row[11] = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM jobs j`).WithArgs(int64(3)).WillReturnRows(sqlmock.NewRows(jobCols).AddRow(row...))

	svc := ApplicationService{Now: func() time.Time { return fixedTime }}
	_, err := svc.Apply(context.Background(), jobseeker, 3, "")
	assert.True(t, domain.IsValidation(err))
}

func TestApplyTwiceIsConflict(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM jobs j`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(jobRow(3, 9, "Engineer", domain.JobActive)...))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications`).WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	_, err := ApplicationService{}.Apply(context.Background(), jobseeker, 3, "")
	assert.True(t, domain.IsConflict(err))
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM jobs j`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(jobRow(3, 9, "Engineer", domain.JobActive)...))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications`).WithArgs(int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs(int64(3), int64(7), domain.ApplicationPending, "Hello there", fixedTime).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(`FROM applications a`).WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(appCols).AddRow(appRow(12, 3, 7, 9)...))

	svc := ApplicationService{Now: func() time.Time { return fixedTime }}
	a, err := svc.Apply(context.Background(), jobseeker, 3, "  Hello there ")
	require.NoError(t, err)
	assert.Equal(t, int64(12), a.ID)
	assert.Equal(t, "Backend Engineer", a.Job.Title)
}

func TestUpdateStatusByOtherEmployerIsForbidden(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM applications a`).WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(appCols).AddRow(appRow(12, 3, 7, 9)...))

	_, err := ApplicationService{}.UpdateStatus(context.Background(), domain.RequestContext{UserID: 10, Role: domain.RoleEmployer}, 12, "shortlisted")
	assert.True(t, domain.IsForbidden(err))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	_, err := ApplicationService{}.UpdateStatus(context.Background(), domain.RequestContext{UserID: 1, Role: domain.RoleAdmin}, 12, "ghosted")
	assert.Equal(t, []string{"status"}, domain.InvalidFields(err))
}

func TestListForJobRestrictsToOwner(t *testing.T) {
	_, mock := withMock(t)

	mock.ExpectQuery(`FROM jobs j`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(jobCols).AddRow(jobRow(3, 9, "Engineer", domain.JobActive)...))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM applications a .* WHERE a.job_id = \?`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(1)))
	mock.ExpectQuery(`FROM applications a .* WHERE a.job_id = \? ORDER BY a.applied_at DESC, a.id DESC LIMIT 10 OFFSET 0`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(appCols).AddRow(appRow(12, 3, 7, 9)...))

	page, err := ApplicationService{}.ListForJob(context.Background(), domain.RequestContext{UserID: 9, Role: domain.RoleEmployer}, 3, defaultQuery())
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Summary.Pages)
}

// The CSV import of applications where the second row names an unknown user.
func TestImportApplicationsReportsUnknownUser(t *testing.T) {
	_, mock := withMock(t)

	expectUser := func(id int64, email string) {
		mock.ExpectQuery(`FROM users u`).WithArgs(email).
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(userRow(id, email, domain.RoleJobseeker, "x")...))
	}
	expectJob := func() {
		mock.ExpectQuery(`FROM jobs j`).WithArgs("Backend Engineer", "Acme").
			WillReturnRows(sqlmock.NewRows(jobCols).AddRow(jobRow(3, 9, "Backend Engineer", domain.JobActive)...))
	}

	expectUser(7, "ada@example.com")
	expectJob()
	mock.ExpectExec(`INSERT INTO applications`).WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery(`FROM users u`).WithArgs("ghost@example.com").WillReturnRows(sqlmock.NewRows(userCols))

	expectUser(8, "linus@example.com")
	expectJob()
	mock.ExpectExec(`INSERT INTO applications`).WillReturnResult(sqlmock.NewResult(2, 1))

	path := filepath.Join(t.TempDir(), "applications.csv")
	content := "Applicant Email,Job Title,Company,Status,Applied At\n" +
		"ada@example.com,Backend Engineer,Acme,pending,2025-01-02\n" +
		"ghost@example.com,Backend Engineer,Acme,pending,2025-01-02\n" +
		"linus@example.com,Backend Engineer,Acme,reviewed,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	im := bulk.Importer{Schema: csvrow.MustLookup("applications")}
	res, err := im.Run(context.Background(), path, ApplicationService{}.ImportRow)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Success)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"Row 2: user ghost@example.com not found"}, res.Errors)
}
