package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/internal/projection"
	"jobboard/internal/repositories"
)

// GetUser is the public profile of one user.
func GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := userService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOne(c, http.StatusOK, projection.UserPublic, u)
}

// AdminListUsers lists every account.
func AdminListUsers(c *gin.Context) {
	q, ok := parseList(c, repositories.UserSpec)
	if !ok {
		return
	}
	page, err := userService(c).List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, projection.UserAdmin, page)
}

type statusRequest struct {
	Status string `json:"status"`
}

// AdminSetUserStatus activates or deactivates an account.
func AdminSetUserStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in statusRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := userService(c).SetStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOne(c, http.StatusOK, projection.UserAdmin, u)
}
