package domain

// ID is used across domain entities.
type ID int64

// Roles.
const (
	RoleJobseeker = "jobseeker"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

// Account statuses.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// Job statuses. Public listings only ever see JobActive.
const (
	JobActive = "active"
	JobClosed = "closed"
	JobDraft  = "draft"
)

// Application statuses.
const (
	ApplicationPending     = "pending"
	ApplicationReviewed    = "reviewed"
	ApplicationShortlisted = "shortlisted"
	ApplicationRejected    = "rejected"
	ApplicationHired       = "hired"
)

var (
	Roles               = []string{RoleJobseeker, RoleEmployer, RoleAdmin}
	UserStatuses        = []string{UserActive, UserInactive}
	JobStatuses         = []string{JobActive, JobClosed, JobDraft}
	JobTypes            = []string{"full-time", "part-time", "contract", "internship", "remote"}
	ApplicationStatuses = []string{ApplicationPending, ApplicationReviewed, ApplicationShortlisted, ApplicationRejected, ApplicationHired}
)

// OneOf reports whether v is in allowed.
func OneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID ID     `json:"userId"`
	Role   string `json:"role"`
}

func (rc RequestContext) IsAdmin() bool { return rc.Role == RoleAdmin }
