package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/teamsync/onboard/internal/models"
	"github.com/teamsync/onboard/internal/platform"
)

func TestTrackProgressReturnsMetricsAndFiresIntervention(t *testing.T) {
	app, platformStub, _ := newTestApp(t)

	signup := time.Now().UTC().AddDate(0, 0, -10)
	platformStub.profiles["user-1"] = platform.Profile{
		"plan":        "trial",
		"signup_date": signup.Format(time.RFC3339),
	}
	for i := 0; i < 4; i++ {
		timestamp := signup
		platformStub.logs["user-1"] = append(platformStub.logs["user-1"], platform.LogEntry{
			Channel:   platform.ChannelEmail,
			Timestamp: &timestamp,
		})
	}

	resp := postJSON(t, app, "/api/users/user-1/progress", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Metrics               models.EngagementMetrics `json:"metrics"`
		InterventionTriggered bool                     `json:"intervention_triggered"`
	}
	decodeJSON(t, resp, &result)

	if result.Metrics.EmailsSent != 4 || result.Metrics.EmailsOpened != 0 {
		t.Fatalf("unexpected metrics: %+v", result.Metrics)
	}
	if result.Metrics.DaysSinceSignup != 10 {
		t.Fatalf("expected 10 days since signup, got %d", result.Metrics.DaysSinceSignup)
	}
	if !result.InterventionTriggered {
		t.Fatal("expected intervention for the at-risk user")
	}

	// Exactly one outbound notification: the re-engagement message.
	if len(platformStub.sends) != 1 {
		t.Fatalf("expected 1 send, got %d", len(platformStub.sends))
	}
	if platformStub.sends[0].Template != "re-engagement-email" {
		t.Fatalf("expected re-engagement send, got %q", platformStub.sends[0].Template)
	}
}

func TestTrackProgressHealthyUserNoIntervention(t *testing.T) {
	app, platformStub, _ := newTestApp(t)

	now := time.Now().UTC()
	signup := now.AddDate(0, 0, -2)
	platformStub.profiles["user-2"] = platform.Profile{
		"plan":        "startup",
		"signup_date": signup.Format(time.RFC3339),
	}
	opened := now.Add(-time.Hour)
	read := now.Add(-time.Hour)
	platformStub.logs["user-2"] = []platform.LogEntry{
		{Channel: platform.ChannelEmail, OpenedAt: &opened, Timestamp: &opened},
		{Channel: platform.ChannelInbox, ReadAt: &read, Timestamp: &read},
		{Channel: platform.ChannelInbox, ReadAt: &read, Timestamp: &read},
	}

	resp := postJSON(t, app, "/api/users/user-2/progress", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Metrics               models.EngagementMetrics `json:"metrics"`
		InterventionTriggered bool                     `json:"intervention_triggered"`
	}
	decodeJSON(t, resp, &result)

	if result.InterventionTriggered {
		t.Fatalf("healthy user must not trigger intervention: %+v", result.Metrics)
	}
	if len(platformStub.sends) != 0 {
		t.Fatalf("expected no sends, got %d", len(platformStub.sends))
	}
}
