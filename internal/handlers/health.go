package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/database"
	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
)

const readinessTimeout = 3 * time.Second

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports 200 when the store answers and the schema is in place
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := database.CheckReadiness(ctx, h.db); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, apierrors.Envelope{
			Success: false,
			Message: "Database not ready",
			Data:    gin.H{"status": "unavailable"},
		})
		return
	}

	apierrors.OK(c, gin.H{"status": "ok", "database": "connected"}, "Service is healthy")
}
