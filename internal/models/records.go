package models

import "time"

// Journal step names for a single onboarding run. Tasks use TaskStepName.
const (
	StepProfile    = "profile"
	StepAutomation = "automation"
	StepWelcome    = "welcome"
)

func TaskStepName(taskID string) string {
	return "task:" + taskID
}

// OnboardingStep journals one completed step of a user's onboarding run.
// Re-running onboarding consults these rows and skips what is already done.
type OnboardingStep struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      string    `gorm:"not null;uniqueIndex:uidx_user_step"`
	Step        string    `gorm:"not null;uniqueIndex:uidx_user_step"`
	CompletedAt time.Time `gorm:"not null"`
}

// ScheduledTask records an onboarding task sent to the user's inbox, so the
// re-engagement path can report the real outstanding count instead of the
// legacy fixed baseline.
type ScheduledTask struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;index"`
	TaskID    string    `gorm:"not null"`
	Title     string    `gorm:"not null"`
	Priority  int       `gorm:"not null"`
	DueAt     time.Time `gorm:"not null"`
	MessageID string
	CreatedAt time.Time
}

// Team and TeamMember form the directory the weekly digest fans out over.
type Team struct {
	ID         uint   `gorm:"primaryKey"`
	TeamID     string `gorm:"uniqueIndex;not null"`
	Name       string `gorm:"not null"`
	LeadUserID string `gorm:"not null"`
	CreatedAt  time.Time
}

type TeamMember struct {
	ID          uint   `gorm:"primaryKey"`
	TeamID      string `gorm:"not null;index"`
	UserID      string `gorm:"not null"`
	DisplayName string
	CreatedAt   time.Time
}
