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

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

var userColumns = []string{
	"u.id", "u.first_name", "u.last_name", "u.email", "u.password_hash", "u.role", "u.status",
	"u.phone", "u.city", "u.headline", "u.experience_years", "u.skills", "u.company_name",
	"u.created_at", "u.updated_at",
}

func userSelect(cols ...string) sq.SelectBuilder {
	return intdb.SQL.Select(cols...).From("users u")
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		u                 models.User
		headline, company sql.NullString
		years             sql.NullInt64
		skills            models.StringList
	)
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.Phone, &u.City, &headline, &years, &skills, &company,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return u, err
	}
	// the profile exists once any of its columns was filled in
	if headline.Valid || years.Valid || skills != nil || company.Valid {
		u.Profile = &models.UserProfile{
			Headline:        headline.String,
			ExperienceYears: intdb.Int64Ptr(years),
			Skills:          skills,
			CompanyName:     company.String,
		}
	}
	return u, nil
}

func (r UserRepository) query(ctx context.Context, b sq.SelectBuilder) ([]models.User, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r UserRepository) List(ctx context.Context, pred listing.Predicate, orderBy []string, skip, take int) ([]models.User, error) {
	b := userSelect(userColumns...).Where(pred).OrderBy(orderBy...).
		Limit(uint64(take)).Offset(uint64(skip))
	return r.query(ctx, b)
}

func (r UserRepository) All(ctx context.Context, pred listing.Predicate, orderBy []string) ([]models.User, error) {
	return r.query(ctx, userSelect(userColumns...).Where(pred).OrderBy(orderBy...))
}

func (r UserRepository) Count(ctx context.Context, pred listing.Predicate) (int64, error) {
	query, args, err := userSelect("COUNT(*)").Where(pred).ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := r.db().QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.getBy(ctx, sq.Eq{"u.id": id}, strconv.FormatInt(id, 10))
}

// FindByEmail expects an already normalized address.
func (r UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getBy(ctx, sq.Eq{"u.email": email}, email)
}

func (r UserRepository) getBy(ctx context.Context, where sq.Sqlizer, key string) (models.User, error) {
	query, args, err := userSelect(userColumns...).Where(where).Limit(1).ToSql()
	if err != nil {
		return models.User{}, err
	}
	u, err := scanUser(r.db().QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.User{}, intdb.MapError("user", key, err)
	}
	return u, nil
}

// Create inserts u and sets its ID. A taken email is a ConflictError.
func (r UserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	var (
		headline, company any
		years             any
		skills            any
	)
	if p := u.Profile; p != nil {
		headline = intdb.NullIfEmpty(p.Headline)
		company = intdb.NullIfEmpty(p.CompanyName)
		years = intdb.NullInt64(p.ExperienceYears)
		if p.Skills != nil {
			skills = p.Skills
		}
	}
	query, args, err := intdb.SQL.Insert("users").
		Columns("first_name", "last_name", "email", "password_hash", "role", "status", "phone", "city",
			"headline", "experience_years", "skills", "company_name", "created_at", "updated_at").
		Values(u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.Status, u.Phone, u.City,
			headline, years, skills, company, now, now).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db().ExecContext(ctx, query, args...)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return domain.ConflictError{Resource: "user", Msg: "email " + u.Email + " is already registered", Err: err}
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID, u.CreatedAt, u.UpdatedAt = id, now, now
	return nil
}

// ExistsEmail lets imports report a duplicate before inserting.
func (r UserRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	query, args, err := intdb.SQL.Select("1").From("users").Where(sq.Eq{"email": email}).Limit(1).ToSql()
	if err != nil {
		return false, err
	}
	var one int
	err = r.db().QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (r UserRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query, args, err := intdb.SQL.Update("users").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db().ExecContext(ctx, query, args...)
	return err
}
