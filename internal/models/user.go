package models

import (
	"strings"
	"time"
)

type Plan string

const (
	PlanTrial      Plan = "trial"
	PlanStartup    Plan = "startup"
	PlanEnterprise Plan = "enterprise"
	PlanEducation  Plan = "education"
)

const DefaultCompanySize = 1

// ParsePlan maps raw signup input onto the closed plan set. Unknown or empty
// values fall back to the trial plan rather than failing the signup.
func ParsePlan(raw string) Plan {
	switch Plan(strings.ToLower(strings.TrimSpace(raw))) {
	case PlanTrial:
		return PlanTrial
	case PlanStartup:
		return PlanStartup
	case PlanEnterprise:
		return PlanEnterprise
	case PlanEducation:
		return PlanEducation
	default:
		return PlanTrial
	}
}

func (plan Plan) String() string {
	return string(plan)
}

// User is the in-memory record a single onboarding run operates on. It is
// never persisted by this service; the platform profile is the durable copy.
type User struct {
	ID          string
	Email       string
	Name        string
	Company     string
	Plan        Plan
	CompanySize int
	CreatedAt   time.Time
}
