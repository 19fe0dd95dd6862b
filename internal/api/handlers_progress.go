package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/teamsync/onboard/internal/models"
)

type progressResponse struct {
	Metrics               models.EngagementMetrics `json:"metrics"`
	InterventionTriggered bool                     `json:"intervention_triggered"`
}

func (handler *Handler) TrackProgress(c *fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	metrics, err := handler.engagement.TrackProgress(c.Context(), userID)
	if err != nil {
		handler.logger.Error("progress check failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return apiError(c, fiber.StatusBadGateway, "progress check failed")
	}

	fired, err := handler.interventions.EvaluateAndNotify(c.Context(), metrics)
	if err != nil {
		handler.logger.Error("intervention dispatch failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return apiError(c, fiber.StatusBadGateway, "intervention dispatch failed")
	}

	return c.JSON(progressResponse{
		Metrics:               metrics,
		InterventionTriggered: fired,
	})
}
