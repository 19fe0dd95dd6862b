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
	digestTemplate = "team-onboarding-digest"

	newMemberWindowDays  = 7
	activationScoreFloor = 50
)

type TeamDirectory interface {
	ListTeams() ([]models.Team, error)
	ListMembers(teamID string) ([]models.TeamMember, error)
}

type ProgressTracker interface {
	TrackProgress(ctx context.Context, userID string) (models.EngagementMetrics, error)
}

type TeamDigest struct {
	TeamID             string   `json:"team_id"`
	TeamName           string   `json:"team_name"`
	LeadUserID         string   `json:"lead_user_id"`
	MemberCount        int      `json:"member_count"`
	NewMembers         int      `json:"new_members"`
	ActivationRate     float64  `json:"activation_rate"`
	AverageProgress    int      `json:"average_progress"`
	MembersNeedingHelp []string `json:"members_needing_help"`
}

// DigestService fans one onboarding summary out to each team lead. It is the
// body of a scheduled batch job; the scheduler itself lives elsewhere.
type DigestService struct {
	platform platform.Client
	teams    TeamDirectory
	progress ProgressTracker
	logger   *zap.Logger
}

func NewDigestService(platformClient platform.Client, teams TeamDirectory, progress ProgressTracker, logger *zap.Logger) *DigestService {
	return &DigestService{
		platform: platformClient,
		teams:    teams,
		progress: progress,
		logger:   logger,
	}
}

// RunTeamDigest computes per-team metrics and sends one digest per lead.
// A failing team is logged and skipped so one bad profile cannot starve the
// rest of the fan-out.
func (service *DigestService) RunTeamDigest(ctx context.Context) ([]TeamDigest, error) {
	teams, err := service.teams.ListTeams()
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	digests := make([]TeamDigest, 0, len(teams))
	for _, team := range teams {
		digest, err := service.buildTeamDigest(ctx, team)
		if err != nil {
			service.logger.Error("team digest failed",
				zap.String("team_id", team.TeamID),
				zap.Error(err),
			)
			continue
		}

		if err := service.sendDigest(ctx, digest); err != nil {
			service.logger.Error("digest delivery failed",
				zap.String("team_id", team.TeamID),
				zap.String("lead_user_id", digest.LeadUserID),
				zap.Error(err),
			)
			continue
		}
		digests = append(digests, digest)
	}
	return digests, nil
}

func (service *DigestService) buildTeamDigest(ctx context.Context, team models.Team) (TeamDigest, error) {
	members, err := service.teams.ListMembers(team.TeamID)
	if err != nil {
		return TeamDigest{}, fmt.Errorf("list members: %w", err)
	}

	memberMetrics := make([]models.EngagementMetrics, 0, len(members))
	names := make(map[string]string, len(members))
	for _, member := range members {
		metrics, err := service.progress.TrackProgress(ctx, member.UserID)
		if err != nil {
			return TeamDigest{}, fmt.Errorf("track member %s: %w", member.UserID, err)
		}
		memberMetrics = append(memberMetrics, metrics)
		names[member.UserID] = member.DisplayName
	}

	return SummarizeTeam(team, memberMetrics, names), nil
}

// SummarizeTeam reduces member metrics into the digest payload: new members
// within the signup window, activation rate, average score, and the members
// the intervention rules flag.
func SummarizeTeam(team models.Team, memberMetrics []models.EngagementMetrics, names map[string]string) TeamDigest {
	digest := TeamDigest{
		TeamID:             team.TeamID,
		TeamName:           team.Name,
		LeadUserID:         team.LeadUserID,
		MemberCount:        len(memberMetrics),
		MembersNeedingHelp: []string{},
	}
	if len(memberMetrics) == 0 {
		return digest
	}

	activated := 0
	scoreSum := 0
	for _, metrics := range memberMetrics {
		scoreSum += metrics.EngagementScore
		if metrics.DaysSinceSignup <= newMemberWindowDays {
			digest.NewMembers++
		}
		if metrics.EngagementScore >= activationScoreFloor {
			activated++
		}
		if NeedsIntervention(metrics) {
			name := names[metrics.UserID]
			if name == "" {
				name = metrics.UserID
			}
			digest.MembersNeedingHelp = append(digest.MembersNeedingHelp, name)
		}
	}

	digest.ActivationRate = float64(activated) / float64(len(memberMetrics))
	digest.AverageProgress = scoreSum / len(memberMetrics)
	return digest
}

func (service *DigestService) sendDigest(ctx context.Context, digest TeamDigest) error {
	_, err := service.platform.Send(ctx, platform.SendRequest{
		To:       platform.Recipient{UserID: digest.LeadUserID},
		Template: digestTemplate,
		Data: map[string]any{
			"team_name":            digest.TeamName,
			"new_members":          digest.NewMembers,
			"activation_rate":      digest.ActivationRate,
			"average_progress":     digest.AverageProgress,
			"members_needing_help": digest.MembersNeedingHelp,
		},
		IdempotencyKey: uuid.NewString(),
	})
	return err
}
