package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports process and database liveness
type HealthHandler struct {
	db     *gorm.DB
	driver string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB, driver string) *HealthHandler {
	return &HealthHandler{db: db, driver: driver}
}

// Check pings the database.
func (h *HealthHandler) Check(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": h.driver})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": h.driver})
}
