package api

import (
	"go.uber.org/zap"

	"github.com/teamsync/onboard/internal/services"
)

type Handler struct {
	onboarding    *services.OnboardingService
	engagement    *services.EngagementService
	interventions *services.InterventionService
	milestones    *services.MilestoneService
	digest        *services.DigestService
	logger        *zap.Logger
}

func NewHandler(
	onboarding *services.OnboardingService,
	engagement *services.EngagementService,
	interventions *services.InterventionService,
	milestones *services.MilestoneService,
	digest *services.DigestService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		onboarding:    onboarding,
		engagement:    engagement,
		interventions: interventions,
		milestones:    milestones,
		digest:        digest,
		logger:        logger,
	}
}
