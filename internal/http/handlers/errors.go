package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/internal/domain"
	"jobboard/internal/http/middleware"
	"jobboard/internal/utils"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Validation
// failures list the offending fields under details.fields.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), gin.H{"fields": domain.InvalidFields(err)})
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsTransientIO(err):
		utils.LogError(middleware.GetRequestID(c), "http", c.FullPath(), err)
		respondError(c, http.StatusServiceUnavailable, "io_error", "storage temporarily unavailable, retry later", nil)
	default:
		utils.LogError(middleware.GetRequestID(c), "http", c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
