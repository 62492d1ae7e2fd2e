package api

import (
	"log/slog"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "jobboard/internal/config"
	"jobboard/internal/domain"
	h "jobboard/internal/http/handlers"
	"jobboard/internal/http/middleware"
)

// NewRouter wires middleware and every /api route.
func NewRouter(env intconfig.Env, deps h.Deps) *gin.Engine {
	h.SetDeps(deps)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		slog.Warn("failed to set trusted proxies", "error", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route not found",
			"code":       "not_found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	auth := middleware.Auth(deps.Tokens)
	employer := middleware.RequireRoles(domain.RoleEmployer, domain.RoleAdmin)
	jobseeker := middleware.RequireRoles(domain.RoleJobseeker)
	admin := middleware.RequireRoles(domain.RoleAdmin)
	importLimit := middleware.RateLimit(env.ImportPerMin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", auth, h.Me)

		// Jobs
		jobs := api.Group("/jobs")
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id", h.GetJob)
		jobs.POST("", auth, employer, h.CreateJob)
		jobs.PUT("/:id", auth, employer, h.UpdateJob)
		jobs.DELETE("/:id", auth, employer, h.DeleteJob)
		jobs.POST("/:id/apply", auth, jobseeker, h.Apply)
		jobs.GET("/:id/applications", auth, employer, h.ListJobApplications)

		// Applications
		apps := api.Group("/applications", auth)
		apps.GET("/me", jobseeker, h.MyApplications)
		apps.PUT("/:id/status", employer, h.UpdateApplicationStatus)

		// Users
		api.GET("/users/:id", h.GetUser)

		// Admin
		adm := api.Group("/admin", auth, admin)
		adm.GET("/routes", h.Routes)

		adm.GET("/jobs", h.AdminListJobs)
		adm.GET("/jobs/export", h.ExportJobs)
		adm.POST("/jobs/import", importLimit, h.ImportJobs)

		adm.GET("/users", h.AdminListUsers)
		adm.GET("/users/export", h.ExportUsers)
		adm.POST("/users/import", importLimit, h.ImportUsers)
		adm.PUT("/users/:id/status", h.AdminSetUserStatus)

		adm.GET("/applications", h.AdminListApplications)
		adm.GET("/applications/export", h.ExportApplications)
		adm.POST("/applications/import", importLimit, h.ImportApplications)
	}

	h.SetRouter(r)
	return r
}
