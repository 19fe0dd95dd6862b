// Package platform wraps the third-party messaging/notification platform:
// profile storage, message delivery, automation invocation and log listing.
// Everything else in this service talks to the Client interface so tests can
// substitute a stub.
package platform

import (
	"context"
	"time"
)

const (
	ChannelEmail = "email"
	ChannelInbox = "inbox"
	ChannelPush  = "push"
)

// Profile is the flat attribute set stored for a recipient.
type Profile map[string]any

// StringAttr returns the named attribute when it is a string, otherwise "".
func (profile Profile) StringAttr(key string) string {
	value, _ := profile[key].(string)
	return value
}

// Recipient addresses a send: either a platform user id or a named Slack
// channel carrying its own credentials.
type Recipient struct {
	UserID string
	Slack  *SlackDestination
}

type SlackDestination struct {
	Channel     string
	AccessToken string
}

type SendRequest struct {
	To             Recipient
	Template       string
	Data           map[string]any
	Channels       []string
	EmailSubject   string
	Tags           []string
	IdempotencyKey string
}

type SendResponse struct {
	MessageID string
}

type InvokeResponse struct {
	RunID string
}

// LogEntry is one delivery record from the platform message log. OpenedAt and
// ReadAt are only present once the recipient interacted with the message.
type LogEntry struct {
	ID        string     `json:"id"`
	Channel   string     `json:"channel"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	OpenedAt  *time.Time `json:"opened_at,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

type Client interface {
	MergeProfile(ctx context.Context, recipientID string, attributes map[string]any) error
	GetProfile(ctx context.Context, recipientID string) (Profile, error)
	Send(ctx context.Context, request SendRequest) (SendResponse, error)
	InvokeAutomation(ctx context.Context, automationID string, recipientID string, data map[string]any) (InvokeResponse, error)
	ListLogs(ctx context.Context, recipientID string, limit int) ([]LogEntry, error)
}
