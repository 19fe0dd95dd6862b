package models

import "time"

// EngagementMetrics is recomputed from the platform message log on every
// progress check and never persisted.
type EngagementMetrics struct {
	UserID          string     `json:"user_id"`
	DaysSinceSignup int        `json:"days_since_signup"`
	EmailsSent      int        `json:"emails_sent"`
	EmailsOpened    int        `json:"emails_opened"`
	TasksCompleted  int        `json:"tasks_completed"`
	LastActivity    *time.Time `json:"last_activity,omitempty"`
	EngagementScore int        `json:"engagement_score"`
}
