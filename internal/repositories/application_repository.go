package repositories

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	intconfig "jobboard/internal/config"
	intdb "jobboard/internal/db"
	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listing"
)

// ApplicationRepository reads applications joined with job and applicant.
type ApplicationRepository struct {
	DB *sql.DB
}

func (r ApplicationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

var applicationColumns = []string{
	"a.id", "a.job_id", "a.user_id", "a.status", "a.cover_letter", "a.applied_at",
	"j.title", "j.company_name", "j.employer_id",
	"u.first_name", "u.last_name", "u.email", "u.headline",
}

func applicationSelect(cols ...string) sq.SelectBuilder {
	return intdb.SQL.Select(cols...).
		From("applications a").
		Join("jobs j ON j.id = a.job_id").
		Join("users u ON u.id = a.user_id")
}

func scanApplication(row interface{ Scan(...any) error }) (models.Application, error) {
	var (
		a        models.Application
		job      models.JobRef
		ap       models.ApplicantRef
		headline sql.NullString
	)
	err := row.Scan(
		&a.ID, &a.JobID, &a.UserID, &a.Status, &a.CoverLetter, &a.AppliedAt,
		&job.Title, &job.CompanyName, &job.EmployerID,
		&ap.FirstName, &ap.LastName, &ap.Email, &headline,
	)
	if err != nil {
		return a, err
	}
	job.ID = a.JobID
	ap.ID = a.UserID
	ap.Headline = intdb.StringPtr(headline)
	a.Job, a.Applicant = &job, &ap
	return a, nil
}

func (r ApplicationRepository) query(ctx context.Context, b sq.SelectBuilder) ([]models.Application, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r ApplicationRepository) List(ctx context.Context, pred listing.Predicate, orderBy []string, skip, take int) ([]models.Application, error) {
	b := applicationSelect(applicationColumns...).Where(pred).OrderBy(orderBy...).
		Limit(uint64(take)).Offset(uint64(skip))
	return r.query(ctx, b)
}

func (r ApplicationRepository) All(ctx context.Context, pred listing.Predicate, orderBy []string) ([]models.Application, error) {
	return r.query(ctx, applicationSelect(applicationColumns...).Where(pred).OrderBy(orderBy...))
}

func (r ApplicationRepository) Count(ctx context.Context, pred listing.Predicate) (int64, error) {
	query, args, err := applicationSelect("COUNT(*)").Where(pred).ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db().QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r ApplicationRepository) GetByID(ctx context.Context, id int64) (models.Application, error) {
	query, args, err := applicationSelect(applicationColumns...).Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return models.Application{}, err
	}
	a, err := scanApplication(r.db().QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.Application{}, intdb.MapError("application", strconv.FormatInt(id, 10), err)
	}
	return a, nil
}

// Create inserts a. Applying twice to the same job is a ConflictError.
func (r ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now().UTC()
	}
	query, args, err := intdb.SQL.Insert("applications").
		Columns("job_id", "user_id", "status", "cover_letter", "applied_at").
		Values(a.JobID, a.UserID, a.Status, a.CoverLetter, a.AppliedAt).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db().ExecContext(ctx, query, args...)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return domain.ConflictError{Resource: "application", Msg: "already applied to this job", Err: err}
		}
		return intdb.MapError("application", "", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

func (r ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query, args, err := intdb.SQL.Update("applications").Set("status", status).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db().ExecContext(ctx, query, args...)
	return err
}

// Exists reports whether userID already applied to jobID.
func (r ApplicationRepository) Exists(ctx context.Context, jobID, userID int64) (bool, error) {
	query, args, err := intdb.SQL.Select("COUNT(*)").From("applications").
		Where(sq.Eq{"job_id": jobID, "user_id": userID}).ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := r.db().QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
