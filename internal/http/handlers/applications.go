package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/internal/http/middleware"
	"jobboard/internal/projection"
	"jobboard/internal/repositories"
	"jobboard/internal/services"
)

func applicationService(c *gin.Context) services.ApplicationService {
	return services.ApplicationService{
		Applications: repositories.ApplicationRepository{},
		Jobs:         repositories.JobRepository{},
		Users:        repositories.UserRepository{},
		RequestID:    middleware.GetRequestID(c),
	}
}

type applyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

// Apply files an application for the calling jobseeker. The body is optional.
func Apply(c *gin.Context) {
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in applyRequest
	if c.Request.ContentLength > 0 && !BindJSONOrError(c, &in) {
		return
	}
	a, err := applicationService(c).Apply(c.Request.Context(), middleware.Caller(c), jobID, in.CoverLetter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOne(c, http.StatusCreated, projection.ApplicationApplicant, a)
}

// ListJobApplications shows the applicants of one job to its owner.
func ListJobApplications(c *gin.Context) {
	jobID, ok := parseID(c, "id")
	if !ok {
		return
	}
	q, ok := parseList(c, repositories.ApplicationSpec)
	if !ok {
		return
	}
	page, err := applicationService(c).ListForJob(c.Request.Context(), middleware.Caller(c), jobID, q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, projection.ApplicationEmployer, page)
}

// MyApplications lists the caller's own applications.
func MyApplications(c *gin.Context) {
	q, ok := parseList(c, repositories.ApplicationSpec)
	if !ok {
		return
	}
	page, err := applicationService(c).ListMine(c.Request.Context(), middleware.Caller(c), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, projection.ApplicationApplicant, page)
}

func UpdateApplicationStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in statusRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	a, err := applicationService(c).UpdateStatus(c.Request.Context(), middleware.Caller(c), id, in.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOne(c, http.StatusOK, projection.ApplicationEmployer, a)
}

func AdminListApplications(c *gin.Context) {
	q, ok := parseList(c, repositories.ApplicationSpec)
	if !ok {
		return
	}
	page, err := applicationService(c).ListAdmin(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, projection.ApplicationEmployer, page)
}
