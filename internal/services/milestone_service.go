package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/teamsync/onboard/internal/platform"
)

type Milestone struct {
	Template string
	Reward   string
}

var milestoneCatalog = map[string]Milestone{
	"first_project": {Template: "first-project-celebration", Reward: "1 month free upgrade"},
	"team_invited":  {Template: "team-growth-celebration", Reward: "Collaboration guide"},
	"week_active":   {Template: "engagement-celebration", Reward: "Power user badge"},
}

var celebrationChannels = []string{
	platform.ChannelEmail,
	platform.ChannelInbox,
	platform.ChannelPush,
}

// MilestoneService fires celebration messages for recognized milestones.
type MilestoneService struct {
	platform platform.Client
}

func NewMilestoneService(platformClient platform.Client) *MilestoneService {
	return &MilestoneService{platform: platformClient}
}

// Celebrate sends one multi-channel celebration for a known milestone key.
// Unrecognized keys are a silent no-op, not an error.
func (service *MilestoneService) Celebrate(ctx context.Context, userID string, milestoneKey string) (bool, error) {
	milestone, known := milestoneCatalog[milestoneKey]
	if !known {
		return false, nil
	}

	_, err := service.platform.Send(ctx, platform.SendRequest{
		To:       platform.Recipient{UserID: userID},
		Template: milestone.Template,
		Channels: celebrationChannels,
		Data: map[string]any{
			"milestone": milestoneKey,
			"reward":    milestone.Reward,
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return false, fmt.Errorf("send milestone celebration: %w", err)
	}
	return true, nil
}
