package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamsync/onboard/internal/models"
	"github.com/teamsync/onboard/internal/platform"
)

const (
	lowScoreThreshold      = 30
	staleSignupDays        = 7
	minEarlyTasksCompleted = 2
	unopenedEmailFloor     = 3

	// legacyTaskBaseline is the historical assumption of how many tasks an
	// onboarding run schedules. Only used when the task journal has no rows
	// for the user.
	legacyTaskBaseline = 5

	enterpriseAlertTemplate = "enterprise-intervention-alert"
	reEngagementTemplate    = "re-engagement-email"

	RiskHigh   = "high"
	RiskMedium = "medium"
)

// NeedsIntervention evaluates the three OR-ed at-risk rules.
func NeedsIntervention(metrics models.EngagementMetrics) bool {
	if metrics.EngagementScore < lowScoreThreshold {
		return true
	}
	if metrics.DaysSinceSignup > staleSignupDays && metrics.TasksCompleted < minEarlyTasksCompleted {
		return true
	}
	if metrics.EmailsOpened == 0 && metrics.EmailsSent > unopenedEmailFloor {
		return true
	}
	return false
}

func RiskLevel(engagementScore int) string {
	if engagementScore < lowScoreThreshold {
		return RiskHigh
	}
	return RiskMedium
}

// OutstandingTaskEstimate prefers the real scheduled-task count from the
// journal; the legacy baseline of 5 only applies to users onboarded before
// this service kept records.
func OutstandingTaskEstimate(scheduledTasks int64, tasksCompleted int) int {
	total := int(scheduledTasks)
	if total == 0 {
		total = legacyTaskBaseline
	}
	outstanding := total - tasksCompleted
	if outstanding < 0 {
		return 0
	}
	return outstanding
}

type ScheduledTaskCounter interface {
	CountScheduledTasks(userID string) (int64, error)
}

// InterventionService routes at-risk users to exactly one escalation path:
// enterprise accounts alert the success channel, everyone else gets a direct
// re-engagement message.
type InterventionService struct {
	platform     platform.Client
	tasks        ScheduledTaskCounter
	slackChannel string
	slackToken   string
	logger       *zap.Logger
}

func NewInterventionService(platformClient platform.Client, tasks ScheduledTaskCounter, slackChannel string, slackToken string, logger *zap.Logger) *InterventionService {
	return &InterventionService{
		platform:     platformClient,
		tasks:        tasks,
		slackChannel: slackChannel,
		slackToken:   slackToken,
		logger:       logger,
	}
}

// EvaluateAndNotify sends at most one notification per evaluation. Repeat
// evaluations that still match the rules re-fire; suppression is the
// caller's concern.
func (service *InterventionService) EvaluateAndNotify(ctx context.Context, metrics models.EngagementMetrics) (bool, error) {
	if !NeedsIntervention(metrics) {
		return false, nil
	}

	profile, err := service.platform.GetProfile(ctx, metrics.UserID)
	if err != nil {
		return false, fmt.Errorf("fetch profile for intervention: %w", err)
	}

	if models.Plan(profile.StringAttr("plan")) == models.PlanEnterprise {
		if err := service.escalateToSuccessChannel(ctx, metrics, profile); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := service.sendReEngagement(ctx, metrics); err != nil {
		return false, err
	}
	return true, nil
}

func (service *InterventionService) escalateToSuccessChannel(ctx context.Context, metrics models.EngagementMetrics, profile platform.Profile) error {
	risk := RiskLevel(metrics.EngagementScore)
	_, err := service.platform.Send(ctx, platform.SendRequest{
		To: platform.Recipient{Slack: &platform.SlackDestination{
			Channel:     service.slackChannel,
			AccessToken: service.slackToken,
		}},
		Template: enterpriseAlertTemplate,
		Data: map[string]any{
			"user_id":    metrics.UserID,
			"company":    profile.StringAttr("company"),
			"metrics":    metrics,
			"risk_level": risk,
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return fmt.Errorf("escalate enterprise account: %w", err)
	}

	service.logger.Warn("enterprise account escalated",
		zap.String("user_id", metrics.UserID),
		zap.String("risk_level", risk),
		zap.Int("engagement_score", metrics.EngagementScore),
	)
	return nil
}

func (service *InterventionService) sendReEngagement(ctx context.Context, metrics models.EngagementMetrics) error {
	scheduled, err := service.tasks.CountScheduledTasks(metrics.UserID)
	if err != nil {
		return fmt.Errorf("count scheduled tasks: %w", err)
	}

	_, err = service.platform.Send(ctx, platform.SendRequest{
		To:       platform.Recipient{UserID: metrics.UserID},
		Template: reEngagementTemplate,
		Data: map[string]any{
			"days_inactive":     metrics.DaysSinceSignup,
			"uncompleted_tasks": OutstandingTaskEstimate(scheduled, metrics.TasksCompleted),
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return fmt.Errorf("send re-engagement message: %w", err)
	}

	service.logger.Info("re-engagement message sent",
		zap.String("user_id", metrics.UserID),
		zap.Int("engagement_score", metrics.EngagementScore),
	)
	return nil
}
