// Controller for the operator review endpoints: failed saves, analytics
// counters and recent logs.
package controller

import (
	"strconv"

	"offline-traffic-bot/internal/pkg/logger"
	"offline-traffic-bot/internal/pkg/serverutils"
	"offline-traffic-bot/internal/repository/contract"
	"offline-traffic-bot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReviewController interface {
	RegisterRoutes(api fiber.Router)
}

type reviewController struct {
	fallbackRepo     contract.FallbackRepository
	analyticsService service.IAnalyticsService
	logger           logger.ILogger
}

func NewReviewController(
	fallbackRepo contract.FallbackRepository,
	analyticsService service.IAnalyticsService,
	sysLogger logger.ILogger,
) IReviewController {
	return &reviewController{
		fallbackRepo:     fallbackRepo,
		analyticsService: analyticsService,
		logger:           sysLogger,
	}
}

func (c *reviewController) RegisterRoutes(api fiber.Router) {
	review := api.Group("/review")
	review.Get("/failed", c.GetFailedSaves)
	review.Get("/analytics", c.GetAnalytics)
	review.Get("/logs", c.GetLogs)
}

// GetFailedSaves returns the rows that never reached the sheet, for manual
// re-entry.
func (c *reviewController) GetFailedSaves(ctx *fiber.Ctx) error {
	entries, err := c.fallbackRepo.ListFailed()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Failed saves retrieved", entries))
}

func (c *reviewController) GetAnalytics(ctx *fiber.Ctx) error {
	stats, err := c.analyticsService.Stats()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Analytics retrieved", stats))
}

func (c *reviewController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit, err := strconv.Atoi(ctx.Query("limit", "100"))
	if err != nil || limit < 1 {
		limit = 100
	}
	offset, err := strconv.Atoi(ctx.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	logs, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Logs retrieved", logs))
}
