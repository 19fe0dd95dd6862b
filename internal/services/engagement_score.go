package services

import (
	"math"
	"time"

	"github.com/teamsync/onboard/internal/platform"
)

const (
	emailComponentCap = 40
	taskComponentCap  = 40
	taskPoints        = 10
	scoreCap          = 100
)

// AggregateLogMetrics folds the platform message log into the engagement
// counters: email sends and opens, completed inbox tasks, and the newest
// event timestamp across all entries that carry one.
func AggregateLogMetrics(entries []platform.LogEntry) (emailsSent int, emailsOpened int, tasksCompleted int, lastActivity *time.Time) {
	for _, entry := range entries {
		if entry.Channel == platform.ChannelEmail {
			emailsSent++
			if entry.OpenedAt != nil {
				emailsOpened++
			}
		}
		if entry.Channel == platform.ChannelInbox && entry.ReadAt != nil {
			tasksCompleted++
		}
		if entry.Timestamp != nil {
			if lastActivity == nil || entry.Timestamp.After(*lastActivity) {
				timestamp := *entry.Timestamp
				lastActivity = &timestamp
			}
		}
	}
	return emailsSent, emailsOpened, tasksCompleted, lastActivity
}

// EmailComponent scores open rate into at most 40 points. No sends means no
// signal, not a zero open rate.
func EmailComponent(emailsSent int, emailsOpened int) int {
	if emailsSent <= 0 {
		return 0
	}
	openRate := float64(emailsOpened) / float64(emailsSent)
	return int(math.Min(openRate*emailComponentCap, emailComponentCap))
}

func TaskComponent(tasksCompleted int) int {
	points := tasksCompleted * taskPoints
	if points > taskComponentCap {
		return taskComponentCap
	}
	if points < 0 {
		return 0
	}
	return points
}

// RecencyComponent rewards recent activity in tiers: same day 20, within
// three days 10, within a week 5, otherwise nothing.
func RecencyComponent(lastActivity *time.Time, now time.Time) int {
	if lastActivity == nil {
		return 0
	}
	days := WholeDaysBetween(*lastActivity, now)
	switch {
	case days == 0:
		return 20
	case days <= 3:
		return 10
	case days <= 7:
		return 5
	default:
		return 0
	}
}

// EngagementScore sums the three capped components and clamps to [0,100].
func EngagementScore(emailsSent int, emailsOpened int, tasksCompleted int, lastActivity *time.Time, now time.Time) int {
	score := EmailComponent(emailsSent, emailsOpened) +
		TaskComponent(tasksCompleted) +
		RecencyComponent(lastActivity, now)
	if score > scoreCap {
		return scoreCap
	}
	if score < 0 {
		return 0
	}
	return score
}

// WholeDaysBetween counts full days from one instant to another, never
// negative.
func WholeDaysBetween(from time.Time, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

// DaysSinceSignup reads the signup_date profile attribute. A missing or
// unparseable date yields zero days rather than an error.
func DaysSinceSignup(profile platform.Profile, now time.Time) int {
	raw := profile.StringAttr("signup_date")
	if raw == "" {
		return 0
	}
	signedUp, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0
	}
	return WholeDaysBetween(signedUp, now)
}
