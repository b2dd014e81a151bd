package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opdshelf/opdshelf/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db         *database.Database
	libraryDir string
	version    string
}

func NewHealthController(db *database.Database, libraryDir, version string) *HealthController {
	return &HealthController{
		db:         db,
		libraryDir: libraryDir,
		version:    version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check sync database connectivity
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["sync_database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["sync_database"] = "ok"
		}
	} else {
		checks["sync_database"] = "not configured"
	}

	// Check the content root is reachable
	if info, err := os.Stat(h.libraryDir); err != nil {
		checks["library_dir"] = "error: " + err.Error()
		status = "unhealthy"
	} else if !info.IsDir() {
		checks["library_dir"] = "error: not a directory"
		status = "unhealthy"
	} else {
		checks["library_dir"] = "ok"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
