package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/teamsync/onboard/internal/models"
	"github.com/teamsync/onboard/internal/platform"
	"github.com/teamsync/onboard/internal/services"
)

func TestRunDigestNotifiesEachTeamLead(t *testing.T) {
	app, platformStub, repositories := newTestApp(t)

	if err := repositories.Teams.CreateTeam(&models.Team{TeamID: "team-1", Name: "Platform", LeadUserID: "lead-1"}); err != nil {
		t.Fatalf("create team: %v", err)
	}
	if err := repositories.Teams.AddMember(&models.TeamMember{TeamID: "team-1", UserID: "member-a", DisplayName: "Ada"}); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := repositories.Teams.AddMember(&models.TeamMember{TeamID: "team-1", UserID: "member-b", DisplayName: "Ben"}); err != nil {
		t.Fatalf("add member: %v", err)
	}

	now := time.Now().UTC()
	sentAt := now.Add(-2 * time.Hour)
	platformStub.profiles["member-a"] = platform.Profile{"signup_date": now.AddDate(0, 0, -2).Format(time.RFC3339)}
	platformStub.profiles["member-b"] = platform.Profile{"signup_date": now.AddDate(0, 0, -2).Format(time.RFC3339)}
	platformStub.logs["member-a"] = []platform.LogEntry{
		{ID: "log-1", Channel: platform.ChannelEmail, Timestamp: &sentAt, OpenedAt: &sentAt},
		{ID: "log-2", Channel: platform.ChannelInbox, Timestamp: &sentAt, ReadAt: &sentAt},
	}

	resp := postJSON(t, app, "/api/digest/run", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		TeamsNotified int                   `json:"teams_notified"`
		Teams         []services.TeamDigest `json:"teams"`
	}
	decodeJSON(t, resp, &result)
	if result.TeamsNotified != 1 {
		t.Fatalf("expected 1 team notified, got %d", result.TeamsNotified)
	}
	digest := result.Teams[0]
	if digest.MemberCount != 2 || digest.NewMembers != 2 {
		t.Fatalf("unexpected member counts: %+v", digest)
	}
	if digest.ActivationRate != 0.5 {
		t.Fatalf("expected activation rate 0.5, got %v", digest.ActivationRate)
	}

	if len(platformStub.sends) != 1 {
		t.Fatalf("expected 1 digest send, got %d", len(platformStub.sends))
	}
	send := platformStub.sends[0]
	if send.To.UserID != "lead-1" {
		t.Fatalf("digest must go to the team lead, got %q", send.To.UserID)
	}
	if send.Template != "team-onboarding-digest" {
		t.Fatalf("unexpected template %q", send.Template)
	}
}

func TestRunDigestNoTeams(t *testing.T) {
	app, platformStub, _ := newTestApp(t)

	resp := postJSON(t, app, "/api/digest/run", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		TeamsNotified int `json:"teams_notified"`
	}
	decodeJSON(t, resp, &result)
	if result.TeamsNotified != 0 {
		t.Fatalf("expected 0 teams, got %d", result.TeamsNotified)
	}
	if len(platformStub.sends) != 0 {
		t.Fatalf("no teams means no sends, got %d", len(platformStub.sends))
	}
}
