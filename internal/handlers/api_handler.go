package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pinger is a dependency the health check pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

type APIHandler struct {
	db    *gorm.DB
	cache Pinger
	log   *zap.Logger
}

// NewAPIHandler builds the operational endpoints. cache may be nil when caching is disabled.
func NewAPIHandler(db *gorm.DB, cache Pinger, log *zap.Logger) *APIHandler {
	return &APIHandler{db: db, cache: cache, log: log}
}

func (h *APIHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	status := http.StatusOK

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.log.Error("database health check failed", zap.Error(err))
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		checks["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			h.log.Warn("cache health check failed", zap.Error(err))
			checks["cache"] = "unavailable"
		}
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":    state,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
