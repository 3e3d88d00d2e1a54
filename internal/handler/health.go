package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/varnamer/api/internal/store"
	"gorm.io/gorm"
)

// Environment reports which optional integrations are configured
type Environment struct {
	GinMode     string `json:"ginMode"`
	HasDatabase bool   `json:"hasDatabase"`
	HasRedis    bool   `json:"hasRedis"`
	HasRag      bool   `json:"hasRag"`
	HasBackup   bool   `json:"hasBackup"`
}

type HealthHandler struct {
	db          *gorm.DB
	mappings    *store.MappingStore
	activities  *store.ActivityStore
	environment Environment
}

func NewHealthHandler(db *gorm.DB, mappings *store.MappingStore, activities *store.ActivityStore, env Environment) *HealthHandler {
	return &HealthHandler{db: db, mappings: mappings, activities: activities, environment: env}
}

// Liveness handles GET /health
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Health handles GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	start := time.Now()

	stats, categories, err := h.databaseStats(c)
	if err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "unhealthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database": gin.H{
				"connected": false,
				"error":     err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database": gin.H{
			"connected":    true,
			"responseTime": fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
			"stats":        stats,
			"categories":   categories,
		},
		"environment": h.environment,
	})
}

func (h *HealthHandler) databaseStats(c *gin.Context) (gin.H, []store.CategoryCount, error) {
	ctx := c.Request.Context()

	sqlDB, err := h.db.DB()
	if err != nil {
		return nil, nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, nil, err
	}

	mappingCount, err := h.mappings.Count(ctx)
	if err != nil {
		return nil, nil, err
	}
	activityCount, err := h.activities.CountActivities(ctx)
	if err != nil {
		return nil, nil, err
	}
	categories, err := h.mappings.CountByCategory(ctx)
	if err != nil {
		return nil, nil, err
	}

	return gin.H{
		"variableMappings": mappingCount,
		"userActivities":   activityCount,
	}, categories, nil
}
