package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teamsync/onboard/internal/models"
	"github.com/teamsync/onboard/internal/platform"
)

// LogWindow is how many recent message-log entries a progress check reads.
const LogWindow = 50

// EngagementService recomputes a user's onboarding engagement metrics from
// the platform profile and message log.
type EngagementService struct {
	platform platform.Client
	now      func() time.Time
}

func NewEngagementService(platformClient platform.Client) *EngagementService {
	return &EngagementService{
		platform: platformClient,
		now:      time.Now,
	}
}

func (service *EngagementService) TrackProgress(ctx context.Context, userID string) (models.EngagementMetrics, error) {
	profile, err := service.platform.GetProfile(ctx, userID)
	if err != nil {
		return models.EngagementMetrics{}, fmt.Errorf("fetch profile: %w", err)
	}

	entries, err := service.platform.ListLogs(ctx, userID, LogWindow)
	if err != nil {
		return models.EngagementMetrics{}, fmt.Errorf("fetch message logs: %w", err)
	}

	now := service.now()
	emailsSent, emailsOpened, tasksCompleted, lastActivity := AggregateLogMetrics(entries)

	return models.EngagementMetrics{
		UserID:          userID,
		DaysSinceSignup: DaysSinceSignup(profile, now),
		EmailsSent:      emailsSent,
		EmailsOpened:    emailsOpened,
		TasksCompleted:  tasksCompleted,
		LastActivity:    lastActivity,
		EngagementScore: EngagementScore(emailsSent, emailsOpened, tasksCompleted, lastActivity, now),
	}, nil
}
