package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (handler *Handler) RunDigest(c *fiber.Ctx) error {
	digests, err := handler.digest.RunTeamDigest(c.Context())
	if err != nil {
		handler.logger.Error("digest run failed", zap.Error(err))
		return apiError(c, fiber.StatusBadGateway, "digest run failed")
	}

	return c.JSON(fiber.Map{
		"teams_notified": len(digests),
		"teams":          digests,
	})
}
