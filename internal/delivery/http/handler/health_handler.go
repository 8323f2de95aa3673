package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/random-spot/internal/usecase"
	"github.com/random-spot/internal/usecase/dto"
	"go.uber.org/zap"
)

// HealthCheck проверяет доступность внешней зависимости
type HealthCheck func(ctx context.Context) error

// HealthHandler - health-check сервиса
type HealthHandler struct {
	regionUC *usecase.RegionUseCase
	checks   map[string]HealthCheck
	logger   *zap.Logger
}

// NewHealthHandler - создание нового HealthHandler; checks - проверки по имени сервиса
func NewHealthHandler(regionUC *usecase.RegionUseCase, checks map[string]HealthCheck, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		regionUC: regionUC,
		checks:   checks,
		logger:   logger,
	}
}

// Health godoc
// @Summary Health check
// @Description healthy - все зависимости доступны, degraded - часть недоступна (503)
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{
		Status:   "healthy",
		Regions:  h.regionUC.Count(),
		Services: make(map[string]string, len(h.checks)),
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("service", name), zap.Error(err))
			resp.Services[name] = "unavailable"
			resp.Status = "degraded"
			continue
		}
		resp.Services[name] = "ok"
	}

	status := fiber.StatusOK
	if resp.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
