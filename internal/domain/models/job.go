package models

import "time"

type Job struct {
	ID          int64      `json:"id"`
	EmployerID  int64      `json:"employer_id"`
	Employer    *UserRef   `json:"employer,omitempty"`
	Title       string     `json:"title"`
	CompanyName string     `json:"company_name"`
	City        string     `json:"city"`
	Description string     `json:"description"`
	JobType     string     `json:"job_type"`
	Status      string     `json:"status"`
	SalaryMin   *int64     `json:"salary_min,omitempty"`
	SalaryMax   *int64     `json:"salary_max,omitempty"`
	Skills      StringList `json:"skills"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserRef is the slice of a user joined into another entity's row.
type UserRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
