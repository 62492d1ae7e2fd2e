package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	intconfig "jobboard/internal/config"
	intdb "jobboard/internal/db"
)

var schemaTables = []string{"users", "jobs", "applications"}

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func DBCheck(c *gin.Context) {
	ctx := c.Request.Context()
	if err := intconfig.PingDB(ctx); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", err.Error(), nil)
		return
	}
	tables := gin.H{}
	for _, name := range schemaTables {
		tables[name] = intdb.HasTable(ctx, intconfig.DB, name)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "reachable", "tables": tables})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
