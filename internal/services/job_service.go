package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain"
	"jobboard/internal/domain/models"
	"jobboard/internal/listing"
	"jobboard/internal/record"
	"jobboard/internal/repositories"
	"jobboard/internal/utils"
)

type JobService struct {
	Jobs      repositories.JobRepository
	Users     repositories.UserRepository
	RequestID string
}

// JobInput is the create/update payload. Deadline is YYYY-MM-DD.
type JobInput struct {
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	City        string   `json:"city"`
	Description string   `json:"description"`
	JobType     string   `json:"job_type"`
	Status      string   `json:"status"`
	SalaryMin   *int64   `json:"salary_min"`
	SalaryMax   *int64   `json:"salary_max"`
	Skills      []string `json:"skills"`
	Deadline    string   `json:"deadline"`
}

func (s JobService) ListPublic(ctx context.Context, q listing.ListQuery) (Page[models.Job], error) {
	return listPage[models.Job](ctx, s.Jobs, repositories.PublicJobSpec, q)
}

func (s JobService) ListAdmin(ctx context.Context, q listing.ListQuery) (Page[models.Job], error) {
	return listPage[models.Job](ctx, s.Jobs, repositories.AdminJobSpec, q)
}

// Export returns every job matching q under the admin spec.
func (s JobService) Export(ctx context.Context, q listing.ListQuery) ([]models.Job, error) {
	return s.Jobs.All(ctx, repositories.AdminJobSpec.Build(q), repositories.AdminJobSpec.OrderBy(q))
}

// GetPublic hides anything but active postings.
func (s JobService) GetPublic(ctx context.Context, id int64) (models.Job, error) {
	j, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		return models.Job{}, err
	}
	if j.Status != domain.JobActive {
		return models.Job{}, domain.NotFoundError{Resource: "job", Key: fmt.Sprint(id)}
	}
	return j, nil
}

func (s JobService) Create(ctx context.Context, rc domain.RequestContext, in JobInput) (models.Job, error) {
	j := models.Job{EmployerID: int64(rc.UserID)}
	if err := applyJobInput(&j, in); err != nil {
		return models.Job{}, err
	}
	if j.CompanyName == "" {
		if emp, err := s.Users.GetByID(ctx, j.EmployerID); err == nil && emp.Profile != nil {
			j.CompanyName = emp.Profile.CompanyName
		}
	}
	if err := validateJob(j).OrNil(); err != nil {
		return models.Job{}, err
	}
	if err := s.Jobs.Create(ctx, &j); err != nil {
		return models.Job{}, err
	}
	utils.LogEvent(s.RequestID, "job", "create", fmt.Sprintf("job_id=%d employer_id=%d", j.ID, j.EmployerID))
	return s.Jobs.GetByID(ctx, j.ID)
}

func (s JobService) Update(ctx context.Context, rc domain.RequestContext, id int64, in JobInput) (models.Job, error) {
	j, err := s.owned(ctx, rc, id)
	if err != nil {
		return models.Job{}, err
	}
	if err := applyJobInput(&j, in); err != nil {
		return models.Job{}, err
	}
	if err := validateJob(j).OrNil(); err != nil {
		return models.Job{}, err
	}
	if err := s.Jobs.Update(ctx, j); err != nil {
		return models.Job{}, err
	}
	utils.LogEvent(s.RequestID, "job", "update", fmt.Sprintf("job_id=%d", id))
	return s.Jobs.GetByID(ctx, id)
}

func (s JobService) Delete(ctx context.Context, rc domain.RequestContext, id int64) error {
	if _, err := s.owned(ctx, rc, id); err != nil {
		return err
	}
	if err := s.Jobs.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "job", "delete", fmt.Sprintf("job_id=%d", id))
	return nil
}

// owned loads a job the caller may modify: its employer or an admin.
func (s JobService) owned(ctx context.Context, rc domain.RequestContext, id int64) (models.Job, error) {
	j, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		return models.Job{}, err
	}
	if !rc.IsAdmin() && j.EmployerID != int64(rc.UserID) {
		return models.Job{}, domain.ForbiddenError{Msg: "job belongs to another employer"}
	}
	return j, nil
}

// ImportRow creates one job from a CSV record, posted by the employer named
// in the row. The same (employer, title) twice is a ConflictError.
func (s JobService) ImportRow(ctx context.Context, rec record.Record) error {
	email := utils.NormalizeEmail(rec.String("employer.email"))
	emp, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if emp.Role != domain.RoleEmployer && emp.Role != domain.RoleAdmin {
		return domain.ValidationError{Field: "employer.email", Msg: email + " is not an employer"}
	}

	j := models.Job{
		EmployerID:  emp.ID,
		Title:       utils.NormalizeSpace(rec.String("title")),
		CompanyName: utils.NormalizeSpace(rec.String("company_name")),
		City:        utils.NormalizeSpace(rec.String("city")),
		Description: rec.String("description"),
		JobType:     lowerOr(rec.String("job_type"), "full-time"),
		Status:      lowerOr(rec.String("status"), domain.JobActive),
		SalaryMin:   recInt64(rec, "salary_min"),
		SalaryMax:   recInt64(rec, "salary_max"),
		Skills:      recStrings(rec, "skills"),
		Deadline:    recTime(rec, "deadline"),
	}
	if err := validateJob(j).OrNil(); err != nil {
		return err
	}
	return s.Jobs.Create(ctx, &j)
}

func applyJobInput(j *models.Job, in JobInput) error {
	j.Title = utils.NormalizeSpace(in.Title)
	j.CompanyName = utils.NormalizeSpace(in.CompanyName)
	j.City = utils.NormalizeSpace(in.City)
	j.Description = strings.TrimSpace(in.Description)
	j.JobType = lowerOr(in.JobType, "full-time")
	j.Status = lowerOr(in.Status, domain.JobActive)
	j.SalaryMin, j.SalaryMax = in.SalaryMin, in.SalaryMax
	j.Skills = cleanSkills(in.Skills)
	j.Deadline = nil
	if raw := strings.TrimSpace(in.Deadline); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return domain.ValidationError{Field: "deadline", Msg: "must be a date (YYYY-MM-DD)"}
		}
		j.Deadline = &d
	}
	return nil
}

func validateJob(j models.Job) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if j.Title == "" {
		errs = append(errs, domain.ValidationError{Field: "title", Msg: "is required"})
	}
	if j.CompanyName == "" {
		errs = append(errs, domain.ValidationError{Field: "company_name", Msg: "is required"})
	}
	checkOneOf(&errs, "job_type", j.JobType, domain.JobTypes)
	checkOneOf(&errs, "status", j.Status, domain.JobStatuses)
	if (j.SalaryMin != nil && *j.SalaryMin < 0) || (j.SalaryMax != nil && *j.SalaryMax < 0) {
		errs = append(errs, domain.ValidationError{Field: "salary", Msg: "must not be negative"})
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax {
		errs = append(errs, domain.ValidationError{Field: "salary_max", Msg: "must not be below salary_min"})
	}
	return errs
}

func cleanSkills(in []string) models.StringList {
	out := models.StringList{}
	seen := map[string]bool{}
	for _, s := range in {
		s = utils.NormalizeSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}

// deadlinePassed reports whether applications closed before now.
func deadlinePassed(j models.Job, now time.Time) bool {
	return j.Deadline != nil && now.UTC().After(j.Deadline.AddDate(0, 0, 1))
}
