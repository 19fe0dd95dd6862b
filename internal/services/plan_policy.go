package services

import "github.com/teamsync/onboard/internal/models"

// DefaultAutomationID is the fallback onboarding flow for any plan the closed
// mapping does not cover.
const DefaultAutomationID = "default-onboarding-flow"

// AutomationForPlan is total over the plan set: every defined plan maps to
// its own flow and anything else maps to the default flow, never a fault.
func AutomationForPlan(plan models.Plan) string {
	switch plan {
	case models.PlanTrial:
		return "trial-onboarding-flow"
	case models.PlanStartup:
		return "startup-onboarding-flow"
	case models.PlanEnterprise:
		return "enterprise-onboarding-flow"
	case models.PlanEducation:
		return "education-onboarding-flow"
	default:
		return DefaultAutomationID
	}
}

func PlanFeatures(plan models.Plan) []string {
	switch plan {
	case models.PlanTrial:
		return []string{"basic_features", "email_support"}
	case models.PlanStartup:
		return []string{"all_features", "priority_support", "integrations"}
	case models.PlanEnterprise:
		return []string{"all_features", "dedicated_support", "sso", "api_access"}
	case models.PlanEducation:
		return []string{"education_features", "bulk_licensing", "lms_integration"}
	default:
		return []string{}
	}
}

func OnboardingChecklist(plan models.Plan) []string {
	checklist := []string{
		"Complete your profile",
		"Invite team members",
		"Create first project",
		"Connect integrations",
	}
	if plan == models.PlanEnterprise {
		checklist = append(checklist,
			"Schedule onboarding call",
			"Configure SSO",
			"Review security settings",
		)
	}
	return checklist
}

// TasksForPlan returns the base task list plus the enterprise extras: an
// urgent success-team call and a low-priority SSO setup.
func TasksForPlan(plan models.Plan) []models.TaskDefinition {
	tasks := []models.TaskDefinition{
		{ID: "complete-profile", Title: "Complete your profile", Priority: 1, DueDays: 1},
		{ID: "invite-team", Title: "Invite your team members", Priority: 2, DueDays: 3},
		{ID: "create-project", Title: "Create your first project", Priority: 3, DueDays: 7},
	}
	if plan == models.PlanEnterprise {
		tasks = append(tasks,
			models.TaskDefinition{ID: "schedule-onboarding-call", Title: "Schedule onboarding call with success team", Priority: 0, DueDays: 1},
			models.TaskDefinition{ID: "setup-sso", Title: "Configure Single Sign-On", Priority: 4, DueDays: 14},
		)
	}
	return tasks
}
