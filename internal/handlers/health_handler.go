package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db      *gorm.DB
	started time.Time
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// Check is a liveness probe: it reports the database state but stays 200.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if err := database.Ping(ctx, h.db); err != nil {
		slog.Warn("health check database ping failed", "error", err)
		dbStatus = "unhealthy"
	}

	return c.JSON(dto.HealthResponse{
		Success:   true,
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Seconds(),
		DB:        dbStatus,
	})
}
