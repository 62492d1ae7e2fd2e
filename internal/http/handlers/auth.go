package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/internal/http/middleware"
	"jobboard/internal/projection"
	"jobboard/internal/repositories"
	"jobboard/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userService(c *gin.Context) services.UserService {
	return services.UserService{
		Users:     repositories.UserRepository{},
		Tokens:    current().Tokens,
		RequestID: middleware.GetRequestID(c),
	}
}

// Register creates a jobseeker or employer account.
func Register(c *gin.Context) {
	var in services.RegisterInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := userService(c).Register(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOne(c, http.StatusCreated, projection.UserAdmin, u)
}

// Login exchanges credentials for a bearer token.
func Login(c *gin.Context) {
	var in loginRequest
	if !BindJSONOrError(c, &in) {
		return
	}
	token, u, err := userService(c).Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	user, err := projection.Project(projection.UserAdmin, u)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the caller's own account.
func Me(c *gin.Context) {
	rc := middleware.Caller(c)
	u, err := userService(c).Get(c.Request.Context(), int64(rc.UserID))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOne(c, http.StatusOK, projection.UserAdmin, u)
}
