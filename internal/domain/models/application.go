package models

import "time"

type Application struct {
	ID          int64         `json:"id"`
	JobID       int64         `json:"job_id"`
	UserID      int64         `json:"user_id"`
	Status      string        `json:"status"`
	CoverLetter string        `json:"cover_letter"`
	AppliedAt   time.Time     `json:"applied_at"`
	Job         *JobRef       `json:"job,omitempty"`
	Applicant   *ApplicantRef `json:"applicant,omitempty"`
}

type JobRef struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	EmployerID  int64  `json:"employer_id"`
}

// ApplicantRef carries the applicant columns joined by the repository.
// Headline is nil when the applicant never filled in a profile.
type ApplicantRef struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Headline  *string `json:"headline,omitempty"`
}
