package projection

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain/models"
)

func sampleUser() models.User {
	years := int64(4)
	return models.User{
		ID:           7,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         "jobseeker",
		Status:       "active",
		City:         "London",
		Profile: &models.UserProfile{
			Headline:        "Analyst",
			ExperienceYears: &years,
			Skills:          models.StringList{"math", "engines"},
		},
	}
}

func TestUserProfilesNeverExposePassword(t *testing.T) {
	u := sampleUser()
	for _, profile := range []string{UserPublic, UserAdmin, UserExport} {
		r, err := Project(profile, u)
		require.NoError(t, err, profile)

		b, err := json.Marshal(r)
		require.NoError(t, err)
		body := string(b)
		assert.NotContains(t, body, "secret", profile)
		assert.NotContains(t, strings.ToLower(body), "password", profile)
	}
}

func TestUserPublicDerivesName(t *testing.T) {
	r, err := Project(UserPublic, sampleUser())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", r["name"])
	assert.Equal(t, "Analyst", r["headline"])
	assert.Equal(t, []string{"math", "engines"}, r["skills"])
	_, hasEmail := r["email"]
	assert.False(t, hasEmail)
}

func TestUserWithoutProfileDefaultsToNA(t *testing.T) {
	u := sampleUser()
	u.Profile = nil
	u.FirstName, u.LastName = "", ""

	r, err := Project(UserAdmin, &u)
	require.NoError(t, err)
	assert.Equal(t, NA, r["name"])
	assert.Equal(t, NA, r["headline"])
	assert.Equal(t, NA, r["company"])
	assert.Nil(t, r["experience_years"])
	assert.Equal(t, []string{}, r["skills"])
}

func TestJobAdminEmbedsEmployer(t *testing.T) {
	deadline := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	j := models.Job{
		ID:         3,
		EmployerID: 9,
		Employer:   &models.UserRef{ID: 9, FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.test"},
		Title:      "Compiler Engineer",
		Status:     "active",
		Deadline:   &deadline,
	}

	r, err := Project(JobAdmin, j)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", r["employer_name"])
	assert.Equal(t, "grace@navy.test", r["employer_email"])
	assert.Equal(t, "2025-03-01", r["deadline"])
	assert.Nil(t, r["salary_min"])
}

func TestJobWithoutEmployerJoin(t *testing.T) {
	r, err := Project(JobAdmin, models.Job{Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, NA, r["employer_name"])
	assert.Equal(t, NA, r["employer_email"])
}

func TestApplicationEmployerDenormalizes(t *testing.T) {
	headline := "Go developer"
	a := models.Application{
		ID:        1,
		JobID:     2,
		UserID:    3,
		Status:    "pending",
		Job:       &models.JobRef{ID: 2, Title: "Backend Engineer", CompanyName: "Acme"},
		Applicant: &models.ApplicantRef{ID: 3, FirstName: "Linus", Email: "linus@example.com", Headline: &headline},
	}

	r, err := Project(ApplicationEmployer, a)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", r["job_title"])
	assert.Equal(t, "Linus", r["applicant_name"])
	assert.Equal(t, "Go developer", r["headline"])
}

func TestApplicationEmployerMissingApplicantProfile(t *testing.T) {
	a := models.Application{Applicant: &models.ApplicantRef{FirstName: "Kim"}}

	r, err := Project(ApplicationEmployer, a)
	require.NoError(t, err)
	assert.Equal(t, NA, r["headline"])
	assert.Equal(t, NA, r["job_title"])
	assert.Equal(t, NA, r["applicant_email"])
}

func TestProjectRejectsUnknownProfile(t *testing.T) {
	_, err := Project("job.secret", models.Job{})
	assert.Error(t, err)

	_, err = Project(JobPublic, models.User{})
	assert.Error(t, err)

	var nilJob *models.Job
	_, err = Project(JobPublic, nilJob)
	assert.Error(t, err)
}

func TestMany(t *testing.T) {
	out, err := Many(JobPublic, []models.Job{{ID: 1}, {ID: 2}})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[1]["id"])
}
