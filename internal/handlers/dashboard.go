package handlers

import (
	"github.com/garrisonhq/garrison/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardHandler handles read-only reporting routes
type DashboardHandler struct {
	DB *gorm.DB
}

// Metrics handles GET /api/dashboard/metrics
// @Summary Balance summary
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.DashboardMetrics
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	metrics, err := services.GetDashboardMetrics(h.DB)
	if err != nil {
		return serviceError(c, err, "dashboard.metrics")
	}

	return c.Status(fiber.StatusOK).JSON(metrics)
}

// TotalAssets handles GET /api/dashboard/total-assets
// @Summary Total asset row count
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /dashboard/total-assets [get]
func (h *DashboardHandler) TotalAssets(c *fiber.Ctx) error {
	count, err := services.CountAssets(h.DB)
	if err != nil {
		return serviceError(c, err, "dashboard.totalAssets")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"totalAssets": count})
}

// AssetsByBase handles GET /api/dashboard/assets-by-base
// @Summary Asset counts grouped by base
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.BaseAssetCount
// @Router /dashboard/assets-by-base [get]
func (h *DashboardHandler) AssetsByBase(c *fiber.Ctx) error {
	rows, err := services.GetAssetsByBase(h.DB)
	if err != nil {
		return serviceError(c, err, "dashboard.assetsByBase")
	}

	return c.Status(fiber.StatusOK).JSON(rows)
}

// AssetsByType handles GET /api/dashboard/assets-by-type
// @Summary Asset counts grouped by type
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.TypeAssetCount
// @Router /dashboard/assets-by-type [get]
func (h *DashboardHandler) AssetsByType(c *fiber.Ctx) error {
	rows, err := services.GetAssetsByType(h.DB)
	if err != nil {
		return serviceError(c, err, "dashboard.assetsByType")
	}

	return c.Status(fiber.StatusOK).JSON(rows)
}

// RecentActivity handles GET /api/dashboard/recent-activity
// @Summary Five most recent rows of each record kind
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.RecentActivity
// @Router /dashboard/recent-activity [get]
func (h *DashboardHandler) RecentActivity(c *fiber.Ctx) error {
	activity, err := services.GetRecentActivity(h.DB)
	if err != nil {
		return serviceError(c, err, "dashboard.recentActivity")
	}

	return c.Status(fiber.StatusOK).JSON(activity)
}
