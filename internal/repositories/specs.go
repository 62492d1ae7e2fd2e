package repositories

import (
	"jobboard/internal/domain"
	"jobboard/internal/listing"
)

// Listing specs per endpoint. Columns carry the table aliases used by the
// SELECTs in this package.
var (
	jobSearch = []string{"j.title", "j.company_name", "j.city", "j.description"}
	jobEnums  = map[string]string{
		"job_type": "j.job_type",
		"city":     "j.city",
	}
	jobSorts = map[string]string{
		"created_at": "j.created_at",
		"title":      "j.title",
		"salary":     "j.salary_min",
		"deadline":   "j.deadline",
	}
)

// PublicJobSpec only ever sees active postings.
var PublicJobSpec = listing.Spec{
	Baseline:     listing.Eq{Column: "j.status", Value: domain.JobActive},
	Search:       jobSearch,
	Numeric:      "j.salary_min",
	Date:         "j.created_at",
	Enums:        jobEnums,
	Sorts:        jobSorts,
	DefaultSort:  "created_at",
	DefaultOrder: listing.OrderDesc,
	TieBreaker:   "j.id",
}

// AdminJobSpec has no baseline and can filter by status and employer.
var AdminJobSpec = listing.Spec{
	Search:  jobSearch,
	Status:  "j.status",
	Numeric: "j.salary_min",
	Date:    "j.created_at",
	Enums: map[string]string{
		"job_type":    jobEnums["job_type"],
		"city":        jobEnums["city"],
		"employer_id": "j.employer_id",
	},
	Sorts:        jobSorts,
	DefaultSort:  "created_at",
	DefaultOrder: listing.OrderDesc,
	TieBreaker:   "j.id",
}

// fullNameColumn lets a search for "Jane Doe" match across both name columns.
const fullNameColumn = "CONCAT_WS(' ', u.first_name, u.last_name)"

var UserSpec = listing.Spec{
	Search:  []string{fullNameColumn, "u.email", "u.city", "u.headline"},
	Status:  "u.status",
	Numeric: "u.experience_years",
	Date:    "u.created_at",
	Enums: map[string]string{
		"role": "u.role",
		"city": "u.city",
	},
	Sorts: map[string]string{
		"created_at": "u.created_at",
		"name":       "u.last_name",
		"email":      "u.email",
	},
	DefaultSort:  "created_at",
	DefaultOrder: listing.OrderDesc,
	TieBreaker:   "u.id",
}

var ApplicationSpec = listing.Spec{
	Search: []string{"j.title", fullNameColumn, "u.email"},
	Status: "a.status",
	Date:   "a.applied_at",
	Enums: map[string]string{
		"job_id": "a.job_id",
	},
	Sorts: map[string]string{
		"applied_at": "a.applied_at",
		"status":     "a.status",
	},
	DefaultSort:  "applied_at",
	DefaultOrder: listing.OrderDesc,
	TieBreaker:   "a.id",
}
