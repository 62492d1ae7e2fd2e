package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"jobboard/internal/domain"
	"jobboard/internal/listing"
	"jobboard/internal/projection"
	"jobboard/internal/services"
	"jobboard/internal/storage"
)

// Deps are the collaborators handlers need beyond the shared DB.
type Deps struct {
	Tokens         services.TokenIssuer
	Archiver       storage.Archiver
	UploadDir      string
	MaxUploadBytes int64
}

var (
	depsMu sync.RWMutex
	deps   = Deps{Archiver: storage.NopArchiver{}}
)

// SetDeps installs the handler collaborators; the router calls it once.
func SetDeps(d Deps) {
	if d.Archiver == nil {
		d.Archiver = storage.NopArchiver{}
	}
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func current() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "request body is empty", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid payload: "+err.Error(), nil)
		return false
	}
	return true
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: name, Msg: "must be a positive integer"})
		return 0, false
	}
	return id, true
}

func parseList(c *gin.Context, spec listing.Spec) (listing.ListQuery, bool) {
	q, err := listing.ParseQuery(c.Request.URL.Query(), spec)
	if err != nil {
		RespondDomainError(c, err)
		return listing.ListQuery{}, false
	}
	return q, true
}

func respondPage[T any](c *gin.Context, profile string, p services.Page[T]) {
	data, err := projection.Many(profile, p.Items)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "pagination": p.Summary})
}

func respondOne(c *gin.Context, status int, profile string, v any) {
	r, err := projection.Project(profile, v)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(status, gin.H{"data": r})
}
