package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/teamsync/onboard/internal/db"
	"github.com/teamsync/onboard/internal/platform"
	"github.com/teamsync/onboard/internal/security"
	"github.com/teamsync/onboard/internal/services"
)

// recordingPlatform stands in for the messaging platform and records every
// outbound call.
type recordingPlatform struct {
	profiles map[string]platform.Profile
	logs     map[string][]platform.LogEntry
	sends    []platform.SendRequest
	invoked  []string
}

func newRecordingPlatform() *recordingPlatform {
	return &recordingPlatform{
		profiles: map[string]platform.Profile{},
		logs:     map[string][]platform.LogEntry{},
	}
}

func (stub *recordingPlatform) MergeProfile(_ context.Context, recipientID string, attributes map[string]any) error {
	profile := platform.Profile{}
	for key, value := range attributes {
		profile[key] = value
	}
	stub.profiles[recipientID] = profile
	return nil
}

func (stub *recordingPlatform) GetProfile(_ context.Context, recipientID string) (platform.Profile, error) {
	profile, ok := stub.profiles[recipientID]
	if !ok {
		return platform.Profile{}, nil
	}
	return profile, nil
}

func (stub *recordingPlatform) Send(_ context.Context, request platform.SendRequest) (platform.SendResponse, error) {
	stub.sends = append(stub.sends, request)
	return platform.SendResponse{MessageID: "msg-1"}, nil
}

func (stub *recordingPlatform) InvokeAutomation(_ context.Context, automationID string, _ string, _ map[string]any) (platform.InvokeResponse, error) {
	stub.invoked = append(stub.invoked, automationID)
	return platform.InvokeResponse{RunID: "run-1"}, nil
}

func (stub *recordingPlatform) ListLogs(_ context.Context, recipientID string, _ int) ([]platform.LogEntry, error) {
	return stub.logs[recipientID], nil
}

func newTestApp(t *testing.T) (*fiber.App, *recordingPlatform, *db.Repositories) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "onboard-api-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	repositories := db.NewRepositories(database)
	platformStub := newRecordingPlatform()

	signer, err := security.NewLinkSigner("0123456789abcdef0123456789abcdef", time.Hour, "https://app.teamsync.example.com")
	if err != nil {
		t.Fatalf("new link signer: %v", err)
	}

	logger := zap.NewNop()
	onboarding := services.NewOnboardingService(
		platformStub,
		repositories.Journal,
		signer,
		"support@teamsync.example.com",
		"enterprise-support@teamsync.example.com",
		logger,
	)
	engagement := services.NewEngagementService(platformStub)
	interventions := services.NewInterventionService(platformStub, repositories.Journal, "#customer-success", "slack-token", logger)
	milestones := services.NewMilestoneService(platformStub)
	digest := services.NewDigestService(platformStub, repositories.Teams, engagement, logger)

	handler := NewHandler(onboarding, engagement, interventions, milestones, digest, logger)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, platformStub, repositories
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body := []byte(nil)
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = encoded
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
