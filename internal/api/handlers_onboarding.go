package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (handler *Handler) StartOnboarding(c *fiber.Ctx) error {
	input, err := parseSignupPayload(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := handler.onboarding.StartOnboarding(c.Context(), input)
	if err != nil {
		handler.logger.Error("onboarding failed",
			zap.String("user_id", input.ID),
			zap.Error(err),
		)
		return apiError(c, fiber.StatusBadGateway, "onboarding failed")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
