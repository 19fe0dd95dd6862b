package services

import (
	"context"
	"time"

	"github.com/teamsync/onboard/internal/platform"
)

// stubPlatform records every outbound call so tests can assert on exact
// payloads and call counts.
type stubPlatform struct {
	profiles map[string]platform.Profile
	logs     map[string][]platform.LogEntry

	mergedProfiles  []map[string]any
	sends           []platform.SendRequest
	invocations     []stubInvocation
	mergeErr        error
	sendErr         error
	invokeErr       error
	getProfileErr   error
	listLogsErr     error
	nextMessageID   string
	nextRunID       string
}

type stubInvocation struct {
	AutomationID string
	RecipientID  string
	Data         map[string]any
}

func newStubPlatform() *stubPlatform {
	return &stubPlatform{
		profiles:      map[string]platform.Profile{},
		logs:          map[string][]platform.LogEntry{},
		nextMessageID: "msg-1",
		nextRunID:     "run-1",
	}
}

func (stub *stubPlatform) MergeProfile(_ context.Context, recipientID string, attributes map[string]any) error {
	if stub.mergeErr != nil {
		return stub.mergeErr
	}
	stub.mergedProfiles = append(stub.mergedProfiles, attributes)
	profile := platform.Profile{}
	for key, value := range attributes {
		profile[key] = value
	}
	stub.profiles[recipientID] = profile
	return nil
}

func (stub *stubPlatform) GetProfile(_ context.Context, recipientID string) (platform.Profile, error) {
	if stub.getProfileErr != nil {
		return nil, stub.getProfileErr
	}
	profile, ok := stub.profiles[recipientID]
	if !ok {
		return platform.Profile{}, nil
	}
	return profile, nil
}

func (stub *stubPlatform) Send(_ context.Context, request platform.SendRequest) (platform.SendResponse, error) {
	if stub.sendErr != nil {
		return platform.SendResponse{}, stub.sendErr
	}
	stub.sends = append(stub.sends, request)
	return platform.SendResponse{MessageID: stub.nextMessageID}, nil
}

func (stub *stubPlatform) InvokeAutomation(_ context.Context, automationID string, recipientID string, data map[string]any) (platform.InvokeResponse, error) {
	if stub.invokeErr != nil {
		return platform.InvokeResponse{}, stub.invokeErr
	}
	stub.invocations = append(stub.invocations, stubInvocation{
		AutomationID: automationID,
		RecipientID:  recipientID,
		Data:         data,
	})
	return platform.InvokeResponse{RunID: stub.nextRunID}, nil
}

func (stub *stubPlatform) ListLogs(_ context.Context, recipientID string, _ int) ([]platform.LogEntry, error) {
	if stub.listLogsErr != nil {
		return nil, stub.listLogsErr
	}
	return stub.logs[recipientID], nil
}

func (stub *stubPlatform) sendsForTemplate(template string) []platform.SendRequest {
	matched := []platform.SendRequest(nil)
	for _, request := range stub.sends {
		if request.Template == template {
			matched = append(matched, request)
		}
	}
	return matched
}

func (stub *stubPlatform) seedEmailLogs(userID string, sent int, opened int, at time.Time) {
	for i := 0; i < sent; i++ {
		entry := platform.LogEntry{Channel: platform.ChannelEmail, Timestamp: &at}
		if i < opened {
			entry.OpenedAt = &at
		}
		stub.logs[userID] = append(stub.logs[userID], entry)
	}
}
