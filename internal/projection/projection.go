// Package projection shapes stored entities into API and export records.
// Profiles only read data the caller already fetched; they never query.
package projection

import (
	"fmt"
	"strings"
	"time"

	"jobboard/internal/domain/models"
	"jobboard/internal/record"
)

// Profile names.
const (
	UserPublic = "user.public"
	UserAdmin  = "user.admin"
	UserExport = "user.export"

	JobPublic = "job.public"
	JobAdmin  = "job.admin"
	JobExport = "job.export"

	ApplicationApplicant = "application.applicant"
	ApplicationEmployer  = "application.employer"
	ApplicationExport    = "application.export"
)

// NA is the placeholder for optional nested data that is absent.
const NA = "N/A"

const dateLayout = "2006-01-02"

type userProfile func(models.User) record.Record
type jobProfile func(models.Job) record.Record
type applicationProfile func(models.Application) record.Record

var (
	userProfiles = map[string]userProfile{
		UserPublic: userPublic,
		UserAdmin:  userAdmin,
		UserExport: userExport,
	}
	jobProfiles = map[string]jobProfile{
		JobPublic: jobPublic,
		JobAdmin:  jobAdmin,
		JobExport: jobExport,
	}
	applicationProfiles = map[string]applicationProfile{
		ApplicationApplicant: applicationApplicant,
		ApplicationEmployer:  applicationEmployer,
		ApplicationExport:    applicationExport,
	}
)

// Project applies a named profile to src. src must be the entity type the
// profile is declared for (value or pointer).
func Project(profile string, src any) (record.Record, error) {
	switch v := src.(type) {
	case models.User:
		if fn, ok := userProfiles[profile]; ok {
			return fn(v), nil
		}
	case *models.User:
		if fn, ok := userProfiles[profile]; ok && v != nil {
			return fn(*v), nil
		}
	case models.Job:
		if fn, ok := jobProfiles[profile]; ok {
			return fn(v), nil
		}
	case *models.Job:
		if fn, ok := jobProfiles[profile]; ok && v != nil {
			return fn(*v), nil
		}
	case models.Application:
		if fn, ok := applicationProfiles[profile]; ok {
			return fn(v), nil
		}
	case *models.Application:
		if fn, ok := applicationProfiles[profile]; ok && v != nil {
			return fn(*v), nil
		}
	}
	return nil, fmt.Errorf("projection: profile %q does not apply to %T", profile, src)
}

// Many projects every item with the same profile.
func Many[T any](profile string, items []T) ([]record.Record, error) {
	out := make([]record.Record, 0, len(items))
	for _, it := range items {
		r, err := Project(profile, it)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func userPublic(u models.User) record.Record {
	r := record.Record{
		"id":       u.ID,
		"name":     orNA(u.FullName()),
		"role":     u.Role,
		"city":     u.City,
		"headline": NA,
		"company":  NA,
		"skills":   []string{},
	}
	if p := u.Profile; p != nil {
		r["headline"] = orNA(p.Headline)
		r["company"] = orNA(p.CompanyName)
		r["skills"] = list(p.Skills)
	}
	return r
}

func userAdmin(u models.User) record.Record {
	r := userPublic(u)
	r["first_name"] = u.FirstName
	r["last_name"] = u.LastName
	r["email"] = u.Email
	r["phone"] = u.Phone
	r["status"] = u.Status
	r["experience_years"] = nil
	r["created_at"] = u.CreatedAt
	if u.Profile != nil && u.Profile.ExperienceYears != nil {
		r["experience_years"] = *u.Profile.ExperienceYears
	}
	return r
}

func userExport(u models.User) record.Record {
	r := record.Record{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"role":       u.Role,
		"status":     u.Status,
		"phone":      u.Phone,
		"city":       u.City,
	}
	if p := u.Profile; p != nil {
		r.Set("profile.headline", p.Headline)
		r.Set("profile.skills", list(p.Skills))
		r.Set("profile.company_name", p.CompanyName)
		if p.ExperienceYears != nil {
			r.Set("profile.experience_years", *p.ExperienceYears)
		}
	}
	return r
}

func jobPublic(j models.Job) record.Record {
	r := record.Record{
		"id":            j.ID,
		"title":         j.Title,
		"company_name":  j.CompanyName,
		"city":          j.City,
		"description":   j.Description,
		"job_type":      j.JobType,
		"salary_min":    int64OrNil(j.SalaryMin),
		"salary_max":    int64OrNil(j.SalaryMax),
		"skills":        list(j.Skills),
		"deadline":      dateOrNil(j.Deadline),
		"posted_at":     j.CreatedAt,
		"employer_name": NA,
	}
	if j.Employer != nil {
		r["employer_name"] = orNA(fullName(j.Employer.FirstName, j.Employer.LastName))
	}
	return r
}

func jobAdmin(j models.Job) record.Record {
	r := jobPublic(j)
	r["status"] = j.Status
	r["employer_id"] = j.EmployerID
	r["employer_email"] = NA
	r["created_at"] = j.CreatedAt
	r["updated_at"] = j.UpdatedAt
	if j.Employer != nil && j.Employer.Email != "" {
		r["employer_email"] = j.Employer.Email
	}
	return r
}

func jobExport(j models.Job) record.Record {
	r := record.Record{
		"title":        j.Title,
		"company_name": j.CompanyName,
		"city":         j.City,
		"job_type":     j.JobType,
		"status":       j.Status,
		"skills":       list(j.Skills),
		"description":  j.Description,
	}
	if j.SalaryMin != nil {
		r["salary_min"] = *j.SalaryMin
	}
	if j.SalaryMax != nil {
		r["salary_max"] = *j.SalaryMax
	}
	if j.Deadline != nil {
		r["deadline"] = *j.Deadline
	}
	if j.Employer != nil {
		r.Set("employer.email", j.Employer.Email)
	}
	return r
}

func applicationApplicant(a models.Application) record.Record {
	r := record.Record{
		"id":           a.ID,
		"job_id":       a.JobID,
		"job_title":    NA,
		"company_name": NA,
		"status":       a.Status,
		"applied_at":   a.AppliedAt,
	}
	if a.Job != nil {
		r["job_title"] = orNA(a.Job.Title)
		r["company_name"] = orNA(a.Job.CompanyName)
	}
	return r
}

func applicationEmployer(a models.Application) record.Record {
	r := record.Record{
		"id":              a.ID,
		"job_id":          a.JobID,
		"job_title":       NA,
		"applicant_id":    a.UserID,
		"applicant_name":  NA,
		"applicant_email": NA,
		"headline":        NA,
		"status":          a.Status,
		"cover_letter":    a.CoverLetter,
		"applied_at":      a.AppliedAt,
	}
	if a.Job != nil {
		r["job_title"] = orNA(a.Job.Title)
	}
	if ap := a.Applicant; ap != nil {
		r["applicant_name"] = orNA(fullName(ap.FirstName, ap.LastName))
		r["applicant_email"] = orNA(ap.Email)
		if ap.Headline != nil {
			r["headline"] = orNA(*ap.Headline)
		}
	}
	return r
}

func applicationExport(a models.Application) record.Record {
	r := record.Record{
		"status":       a.Status,
		"cover_letter": a.CoverLetter,
	}
	if !a.AppliedAt.IsZero() {
		r["applied_at"] = a.AppliedAt
	}
	if a.Applicant != nil {
		r.Set("applicant.email", a.Applicant.Email)
	}
	if a.Job != nil {
		r.Set("job.title", a.Job.Title)
		r.Set("job.company_name", a.Job.CompanyName)
	}
	return r
}

func fullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return strings.TrimSpace(s)
}

func list(l models.StringList) []string {
	if l == nil {
		return []string{}
	}
	return []string(l)
}

func int64OrNil(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
