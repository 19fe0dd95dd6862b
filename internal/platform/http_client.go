package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	clientTimeout    = 8 * time.Second
	errorBodyLimit   = 1024
	defaultLogsLimit = 50
)

// StatusError is returned for non-2xx platform responses. The retry layer
// uses the code to tell transient failures from permanent ones.
type StatusError struct {
	Code int
	Body string
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("platform status %d: %s", err.Code, err.Body)
}

// HTTPClient talks to the platform REST API with a bearer token.
type HTTPClient struct {
	baseURL   string
	authToken string
	client    *http.Client
}

func NewHTTPClient(baseURL string, authToken string) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		client: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

func (client *HTTPClient) MergeProfile(ctx context.Context, recipientID string, attributes map[string]any) error {
	payload := map[string]any{"profile": attributes}
	path := "/profiles/" + url.PathEscape(recipientID)
	if err := client.doJSON(ctx, http.MethodPost, path, nil, payload, nil); err != nil {
		return fmt.Errorf("merge profile %s: %w", recipientID, err)
	}
	return nil
}

func (client *HTTPClient) GetProfile(ctx context.Context, recipientID string) (Profile, error) {
	var result struct {
		Profile Profile `json:"profile"`
	}
	path := "/profiles/" + url.PathEscape(recipientID)
	if err := client.doJSON(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, fmt.Errorf("get profile %s: %w", recipientID, err)
	}
	if result.Profile == nil {
		result.Profile = Profile{}
	}
	return result.Profile, nil
}

func (client *HTTPClient) Send(ctx context.Context, request SendRequest) (SendResponse, error) {
	envelope := sendEnvelope{Message: buildMessagePayload(request)}

	headers := map[string]string{}
	if request.IdempotencyKey != "" {
		headers["Idempotency-Key"] = request.IdempotencyKey
	}

	var result struct {
		RequestID string `json:"requestId"`
	}
	if err := client.doJSON(ctx, http.MethodPost, "/send", headers, envelope, &result); err != nil {
		return SendResponse{}, fmt.Errorf("send %s: %w", request.Template, err)
	}
	return SendResponse{MessageID: result.RequestID}, nil
}

func (client *HTTPClient) InvokeAutomation(ctx context.Context, automationID string, recipientID string, data map[string]any) (InvokeResponse, error) {
	payload := map[string]any{
		"recipient": recipientID,
		"data":      data,
	}
	var result struct {
		RunID string `json:"runId"`
	}
	path := "/automations/" + url.PathEscape(automationID) + "/invoke"
	if err := client.doJSON(ctx, http.MethodPost, path, nil, payload, &result); err != nil {
		return InvokeResponse{}, fmt.Errorf("invoke automation %s: %w", automationID, err)
	}
	return InvokeResponse{RunID: result.RunID}, nil
}

func (client *HTTPClient) ListLogs(ctx context.Context, recipientID string, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = defaultLogsLimit
	}

	values := url.Values{}
	values.Set("recipient", recipientID)
	values.Set("limit", strconv.Itoa(limit))

	var result struct {
		Results []LogEntry `json:"results"`
	}
	if err := client.doJSON(ctx, http.MethodGet, "/logs?"+values.Encode(), nil, nil, &result); err != nil {
		return nil, fmt.Errorf("list logs %s: %w", recipientID, err)
	}
	return result.Results, nil
}

type sendEnvelope struct {
	Message messagePayload `json:"message"`
}

type messagePayload struct {
	To        recipientPayload  `json:"to"`
	Template  string            `json:"template"`
	Data      map[string]any    `json:"data,omitempty"`
	Channels  []string          `json:"channels,omitempty"`
	Overrides *messageOverrides `json:"overrides,omitempty"`
	Metadata  *messageMetadata  `json:"metadata,omitempty"`
}

type recipientPayload struct {
	UserID string        `json:"user_id,omitempty"`
	Slack  *slackPayload `json:"slack,omitempty"`
}

type slackPayload struct {
	Channel     string `json:"channel"`
	AccessToken string `json:"access_token"`
}

type messageOverrides struct {
	EmailSubject string `json:"email_subject,omitempty"`
}

type messageMetadata struct {
	Tags []string `json:"tags,omitempty"`
}

func buildMessagePayload(request SendRequest) messagePayload {
	message := messagePayload{
		Template: request.Template,
		Data:     request.Data,
		Channels: request.Channels,
	}

	message.To.UserID = request.To.UserID
	if request.To.Slack != nil {
		message.To.Slack = &slackPayload{
			Channel:     request.To.Slack.Channel,
			AccessToken: request.To.Slack.AccessToken,
		}
	}

	if request.EmailSubject != "" {
		message.Overrides = &messageOverrides{EmailSubject: request.EmailSubject}
	}
	if len(request.Tags) > 0 {
		message.Metadata = &messageMetadata{Tags: request.Tags}
	}
	return message
}

func (client *HTTPClient) doJSON(ctx context.Context, method string, path string, headers map[string]string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+client.authToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
