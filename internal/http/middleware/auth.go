package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard/internal/domain"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// TokenParser verifies a bearer token and returns the caller.
type TokenParser interface {
	Parse(raw string) (domain.RequestContext, error)
}

// Auth requires a valid bearer token and stores userID/userRole on the context.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abortAuth(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		rc, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			abortAuth(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(userIDKey, int64(rc.UserID))
		c.Set(userRoleKey, rc.Role)
		c.Next()
	}
}

// Caller returns the authenticated user set by Auth.
func Caller(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		UserID: domain.ID(c.GetInt64(userIDKey)),
		Role:   c.GetString(userRoleKey),
	}
}

func abortAuth(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"code":       "unauthorized",
		"request_id": GetRequestID(c),
	})
}
