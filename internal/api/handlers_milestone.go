package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (handler *Handler) CelebrateMilestone(c *fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	milestoneKey := strings.TrimSpace(c.Params("key"))

	celebrated, err := handler.milestones.Celebrate(c.Context(), userID, milestoneKey)
	if err != nil {
		handler.logger.Error("milestone celebration failed",
			zap.String("user_id", userID),
			zap.String("milestone", milestoneKey),
			zap.Error(err),
		)
		return apiError(c, fiber.StatusBadGateway, "milestone celebration failed")
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"milestone":  milestoneKey,
		"celebrated": celebrated,
	})
}
