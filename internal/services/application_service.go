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

const maxCoverLetter = 5000

type ApplicationService struct {
	Applications repositories.ApplicationRepository
	Jobs         repositories.JobRepository
	Users        repositories.UserRepository
	RequestID    string
	Now          func() time.Time
}

func (s ApplicationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Apply files an application from the calling jobseeker.
func (s ApplicationService) Apply(ctx context.Context, rc domain.RequestContext, jobID int64, coverLetter string) (models.Application, error) {
	coverLetter = strings.TrimSpace(coverLetter)
	if len(coverLetter) > maxCoverLetter {
		return models.Application{}, domain.ValidationError{Field: "cover_letter", Msg: fmt.Sprintf("must be at most %d characters", maxCoverLetter)}
	}
	j, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return models.Application{}, err
	}
	if j.Status != domain.JobActive || deadlinePassed(j, s.now()) {
		return models.Application{}, domain.ValidationError{Field: "job_id", Msg: "job is not accepting applications"}
	}

	userID := int64(rc.UserID)
	exists, err := s.Applications.Exists(ctx, jobID, userID)
	if err != nil {
		return models.Application{}, err
	}
	if exists {
		return models.Application{}, domain.ConflictError{Resource: "application", Msg: "already applied to this job"}
	}

	a := models.Application{
		JobID:       jobID,
		UserID:      userID,
		Status:      domain.ApplicationPending,
		CoverLetter: coverLetter,
		AppliedAt:   s.now().UTC(),
	}
	if err := s.Applications.Create(ctx, &a); err != nil {
		return models.Application{}, err
	}
	utils.LogEvent(s.RequestID, "application", "apply", fmt.Sprintf("application_id=%d job_id=%d", a.ID, jobID))
	return s.Applications.GetByID(ctx, a.ID)
}

// ListForJob lists applications to one job; only its employer or an admin may.
func (s ApplicationService) ListForJob(ctx context.Context, rc domain.RequestContext, jobID int64, q listing.ListQuery) (Page[models.Application], error) {
	j, err := s.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return Page[models.Application]{}, err
	}
	if !rc.IsAdmin() && j.EmployerID != int64(rc.UserID) {
		return Page[models.Application]{}, domain.ForbiddenError{Msg: "job belongs to another employer"}
	}
	spec := repositories.ApplicationSpec.WithBaseline(listing.Eq{Column: "a.job_id", Value: jobID})
	return listPage[models.Application](ctx, s.Applications, spec, q)
}

// ListMine lists the caller's own applications.
func (s ApplicationService) ListMine(ctx context.Context, rc domain.RequestContext, q listing.ListQuery) (Page[models.Application], error) {
	spec := repositories.ApplicationSpec.WithBaseline(listing.Eq{Column: "a.user_id", Value: int64(rc.UserID)})
	return listPage[models.Application](ctx, s.Applications, spec, q)
}

func (s ApplicationService) ListAdmin(ctx context.Context, q listing.ListQuery) (Page[models.Application], error) {
	return listPage[models.Application](ctx, s.Applications, repositories.ApplicationSpec, q)
}

func (s ApplicationService) Export(ctx context.Context, q listing.ListQuery) ([]models.Application, error) {
	return s.Applications.All(ctx, repositories.ApplicationSpec.Build(q), repositories.ApplicationSpec.OrderBy(q))
}

// UpdateStatus moves an application through review; the job's employer or
// an admin may.
func (s ApplicationService) UpdateStatus(ctx context.Context, rc domain.RequestContext, id int64, status string) (models.Application, error) {
	status = lowerOr(status, "")
	if !domain.OneOf(status, domain.ApplicationStatuses) {
		return models.Application{}, domain.ValidationError{Field: "status", Msg: "must be one of " + strings.Join(domain.ApplicationStatuses, ", ")}
	}
	a, err := s.Applications.GetByID(ctx, id)
	if err != nil {
		return models.Application{}, err
	}
	if !rc.IsAdmin() && (a.Job == nil || a.Job.EmployerID != int64(rc.UserID)) {
		return models.Application{}, domain.ForbiddenError{Msg: "application belongs to another employer's job"}
	}
	if err := s.Applications.UpdateStatus(ctx, id, status); err != nil {
		return models.Application{}, err
	}
	a.Status = status
	utils.LogEvent(s.RequestID, "application", "update_status", fmt.Sprintf("application_id=%d status=%s", id, status))
	return a, nil
}

// ImportRow links an existing user to an existing job. Either side missing
// fails the row; an existing application is a ConflictError.
func (s ApplicationService) ImportRow(ctx context.Context, rec record.Record) error {
	email := utils.NormalizeEmail(rec.String("applicant.email"))
	u, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	j, err := s.Jobs.FindByTitle(ctx, utils.NormalizeSpace(rec.String("job.title")), utils.NormalizeSpace(rec.String("job.company_name")))
	if err != nil {
		return err
	}

	a := models.Application{
		JobID:       j.ID,
		UserID:      u.ID,
		Status:      lowerOr(rec.String("status"), domain.ApplicationPending),
		CoverLetter: rec.String("cover_letter"),
	}
	if t := recTime(rec, "applied_at"); t != nil {
		a.AppliedAt = *t
	}
	var errs domain.ValidationErrors
	checkOneOf(&errs, "status", a.Status, domain.ApplicationStatuses)
	if len(a.CoverLetter) > maxCoverLetter {
		errs = append(errs, domain.ValidationError{Field: "cover_letter", Msg: "too long"})
	}
	if err := errs.OrNil(); err != nil {
		return err
	}
	return s.Applications.Create(ctx, &a)
}
