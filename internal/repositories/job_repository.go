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

// JobRepository reads jobs joined with their employer.
type JobRepository struct {
	DB *sql.DB
}

func (r JobRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

var jobColumns = []string{
	"j.id", "j.employer_id", "j.title", "j.company_name", "j.city", "j.description",
	"j.job_type", "j.status", "j.salary_min", "j.salary_max", "j.skills", "j.deadline",
	"j.created_at", "j.updated_at",
	"u.first_name", "u.last_name", "u.email",
}

func jobSelect(cols ...string) sq.SelectBuilder {
	return intdb.SQL.Select(cols...).
		From("jobs j").
		LeftJoin("users u ON u.id = j.employer_id")
}

func scanJob(row interface{ Scan(...any) error }) (models.Job, error) {
	var (
		j                    models.Job
		salaryMin, salaryMax sql.NullInt64
		deadline             sql.NullTime
		first, last, email   sql.NullString
	)
	err := row.Scan(
		&j.ID, &j.EmployerID, &j.Title, &j.CompanyName, &j.City, &j.Description,
		&j.JobType, &j.Status, &salaryMin, &salaryMax, &j.Skills, &deadline,
		&j.CreatedAt, &j.UpdatedAt,
		&first, &last, &email,
	)
	if err != nil {
		return j, err
	}
	j.SalaryMin = intdb.Int64Ptr(salaryMin)
	j.SalaryMax = intdb.Int64Ptr(salaryMax)
	j.Deadline = intdb.TimePtr(deadline)
	if email.Valid {
		j.Employer = &models.UserRef{ID: j.EmployerID, FirstName: first.String, LastName: last.String, Email: email.String}
	}
	return j, nil
}

func (r JobRepository) query(ctx context.Context, b sq.SelectBuilder) ([]models.Job, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// List returns one page of jobs matching pred.
func (r JobRepository) List(ctx context.Context, pred listing.Predicate, orderBy []string, skip, take int) ([]models.Job, error) {
	b := jobSelect(jobColumns...).Where(pred).OrderBy(orderBy...).
		Limit(uint64(take)).Offset(uint64(skip))
	return r.query(ctx, b)
}

// All returns every job matching pred, for exports.
func (r JobRepository) All(ctx context.Context, pred listing.Predicate, orderBy []string) ([]models.Job, error) {
	return r.query(ctx, jobSelect(jobColumns...).Where(pred).OrderBy(orderBy...))
}

func (r JobRepository) Count(ctx context.Context, pred listing.Predicate) (int64, error) {
	query, args, err := jobSelect("COUNT(*)").Where(pred).ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db().QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r JobRepository) GetByID(ctx context.Context, id int64) (models.Job, error) {
	query, args, err := jobSelect(jobColumns...).Where(sq.Eq{"j.id": id}).ToSql()
	if err != nil {
		return models.Job{}, err
	}
	j, err := scanJob(r.db().QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.Job{}, intdb.MapError("job", strconv.FormatInt(id, 10), err)
	}
	return j, nil
}

// FindByTitle resolves a job by title, narrowed by company when given.
// The oldest match wins when titles repeat across employers.
func (r JobRepository) FindByTitle(ctx context.Context, title, company string) (models.Job, error) {
	where := sq.And{sq.Eq{"j.title": title}}
	if company != "" {
		where = append(where, sq.Eq{"j.company_name": company})
	}
	query, args, err := jobSelect(jobColumns...).Where(where).OrderBy("j.id ASC").Limit(1).ToSql()
	if err != nil {
		return models.Job{}, err
	}
	j, err := scanJob(r.db().QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.Job{}, intdb.MapError("job", title, err)
	}
	return j, nil
}

// Create inserts j and sets its ID. A repeated (employer, title) pair is a
// ConflictError.
func (r JobRepository) Create(ctx context.Context, j *models.Job) error {
	now := time.Now().UTC()
	query, args, err := intdb.SQL.Insert("jobs").
		Columns("employer_id", "title", "company_name", "city", "description", "job_type", "status",
			"salary_min", "salary_max", "skills", "deadline", "created_at", "updated_at").
		Values(j.EmployerID, j.Title, j.CompanyName, j.City, j.Description, j.JobType, j.Status,
			intdb.NullInt64(j.SalaryMin), intdb.NullInt64(j.SalaryMax), j.Skills, intdb.NullTime(j.Deadline), now, now).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db().ExecContext(ctx, query, args...)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return domain.ConflictError{Resource: "job", Msg: "employer already posted " + strconv.Quote(j.Title), Err: err}
		}
		return intdb.MapError("job", "", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	j.ID, j.CreatedAt, j.UpdatedAt = id, now, now
	return nil
}

func (r JobRepository) Update(ctx context.Context, j models.Job) error {
	query, args, err := intdb.SQL.Update("jobs").SetMap(map[string]any{
		"title":        j.Title,
		"company_name": j.CompanyName,
		"city":         j.City,
		"description":  j.Description,
		"job_type":     j.JobType,
		"status":       j.Status,
		"salary_min":   intdb.NullInt64(j.SalaryMin),
		"salary_max":   intdb.NullInt64(j.SalaryMax),
		"skills":       j.Skills,
		"deadline":     intdb.NullTime(j.Deadline),
		"updated_at":   time.Now().UTC(),
	}).Where(sq.Eq{"id": j.ID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db().ExecContext(ctx, query, args...); err != nil {
		if intdb.IsDuplicate(err) {
			return domain.ConflictError{Resource: "job", Msg: "employer already posted " + strconv.Quote(j.Title), Err: err}
		}
		return err
	}
	return nil
}

func (r JobRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := intdb.SQL.Delete("jobs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db().ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res, "job", id)
}

// requireAffected turns a DELETE that touched nothing into NotFoundError.
func requireAffected(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource, Key: strconv.FormatInt(id, 10)}
	}
	return nil
}
