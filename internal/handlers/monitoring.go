package handlers

import (
	"net/http"
	"time"

	"ckd-service/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MonitoringHandlers обработчики состояния сервиса
type MonitoringHandlers struct {
	db      *gorm.DB
	started time.Time
}

func NewMonitoringHandlers(db *gorm.DB) *MonitoringHandlers {
	return &MonitoringHandlers{db: db, started: time.Now()}
}

// HealthCheck godoc
// @Summary Состояние сервиса и базы данных
// @Tags monitoring
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 503 {object} ErrorResponse
// @Router /monitoring/health [get]
func (h *MonitoringHandlers) HealthCheck(c *gin.Context) {
	dbStatus := "ok"
	status := http.StatusOK
	if err := database.HealthCheck(h.db); err != nil {
		dbStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":    dbStatus,
		"service":   "ckd-service",
		"uptime":    time.Since(h.started).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
