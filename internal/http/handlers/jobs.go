package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/internal/http/middleware"
	"jobboard/internal/projection"
	"jobboard/internal/repositories"
	"jobboard/internal/services"
)

func jobService(c *gin.Context) services.JobService {
	return services.JobService{
		Jobs:      repositories.JobRepository{},
		Users:     repositories.UserRepository{},
		RequestID: middleware.GetRequestID(c),
	}
}

// ListJobs is the public board: active jobs only.
func ListJobs(c *gin.Context) {
	q, ok := parseList(c, repositories.PublicJobSpec)
	if !ok {
		return
	}
	page, err := jobService(c).ListPublic(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, projection.JobPublic, page)
}

func GetJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	j, err := jobService(c).GetPublic(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOne(c, http.StatusOK, projection.JobPublic, j)
}

func CreateJob(c *gin.Context) {
	var in services.JobInput
	if !BindJSONOrError(c, &in) {
		return
	}
	j, err := jobService(c).Create(c.Request.Context(), middleware.Caller(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOne(c, http.StatusCreated, projection.JobAdmin, j)
}

func UpdateJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.JobInput
	if !BindJSONOrError(c, &in) {
		return
	}
	j, err := jobService(c).Update(c.Request.Context(), middleware.Caller(c), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOne(c, http.StatusOK, projection.JobAdmin, j)
}

func DeleteJob(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := jobService(c).Delete(c.Request.Context(), middleware.Caller(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdminListJobs lists jobs in every status.
func AdminListJobs(c *gin.Context) {
	q, ok := parseList(c, repositories.AdminJobSpec)
	if !ok {
		return
	}
	page, err := jobService(c).ListAdmin(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, projection.JobAdmin, page)
}
