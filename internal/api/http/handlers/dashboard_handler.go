package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pleme-io/pleme-support/internal/service"
	"github.com/pleme-io/pleme-support/pkg/errorutil"
)

// DashboardHandler exposes the analytics dashboard. Embedding services must
// restrict this route to privileged callers.
type DashboardHandler struct {
	service *service.SupportService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(supportService *service.SupportService) *DashboardHandler {
	return &DashboardHandler{service: supportService}
}

// GetMetrics GET /api/v1/dashboard.
func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	periodStart, err := time.Parse(time.RFC3339, c.Query("period_start"))
	if err != nil {
		return errorutil.NewInvalidInput("period_start must be RFC3339")
	}
	periodEnd, err := time.Parse(time.RFC3339, c.Query("period_end"))
	if err != nil {
		return errorutil.NewInvalidInput("period_end must be RFC3339")
	}

	metrics, err := h.service.GetDashboardMetrics(c.UserContext(), c.Query("product"), periodStart, periodEnd)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}
