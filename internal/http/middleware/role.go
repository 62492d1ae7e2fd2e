package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRoles only lets through callers whose role is in allowedRoles.
// Auth must run first so userRole is set:
//
//	r.GET("/admin", Auth(tokens), RequireRoles("admin"), handler)
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if role == "" {
			abortAuth(c, http.StatusUnauthorized, "role missing from context")
			return
		}

		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "role not allowed",
				"code":       "forbidden",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}
