package models

import "time"

type User struct {
	ID           int64        `json:"id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         string       `json:"role"`
	Status       string       `json:"status"`
	Phone        string       `json:"phone"`
	City         string       `json:"city"`
	Profile      *UserProfile `json:"profile,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// UserProfile is optional: a freshly registered account has none.
type UserProfile struct {
	Headline        string     `json:"headline"`
	ExperienceYears *int64     `json:"experience_years,omitempty"`
	Skills          StringList `json:"skills"`
	CompanyName     string     `json:"company_name"`
}

// FullName joins first and last name, ignoring blanks.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
