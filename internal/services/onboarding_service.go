package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamsync/onboard/internal/models"
	"github.com/teamsync/onboard/internal/platform"
)

var (
	ErrSignupIDRequired    = errors.New("signup id is required")
	ErrSignupEmailRequired = errors.New("signup email is required")
	ErrSignupNameRequired  = errors.New("signup name is required")
)

const (
	welcomeTemplate = "welcome-email"
	taskTemplate    = "onboarding-task"

	defaultTimezone = "UTC"
	defaultLocale   = "en"
)

// SignupInput is the raw attribute set from the application's signup flow.
// Optional fields fall back to documented defaults instead of failing.
type SignupInput struct {
	ID          string
	Email       string
	Name        string
	Company     string
	Plan        string
	CompanySize int
	Timezone    string
	Locale      string
}

type OnboardingResult struct {
	UserID           string   `json:"user_id"`
	ProfileMerged    bool     `json:"profile_merged"`
	AutomationRunID  string   `json:"automation_run_id,omitempty"`
	WelcomeMessageID string   `json:"welcome_message_id,omitempty"`
	TasksScheduled   int      `json:"tasks_scheduled"`
	StepsSkipped     []string `json:"steps_skipped,omitempty"`
}

// OnboardingJournal is the durable step record that makes re-runs idempotent.
type OnboardingJournal interface {
	CompletedSteps(userID string) (map[string]time.Time, error)
	MarkStep(userID string, step string, completedAt time.Time) error
	RecordScheduledTask(task *models.ScheduledTask) error
}

type GettingStartedLinker interface {
	GettingStartedLink(userID string) (string, error)
}

type OnboardingService struct {
	platform               platform.Client
	journal                OnboardingJournal
	links                  GettingStartedLinker
	supportEmail           string
	enterpriseSupportEmail string
	now                    func() time.Time
	logger                 *zap.Logger
}

func NewOnboardingService(platformClient platform.Client, journal OnboardingJournal, links GettingStartedLinker, supportEmail string, enterpriseSupportEmail string, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{
		platform:               platformClient,
		journal:                journal,
		links:                  links,
		supportEmail:           supportEmail,
		enterpriseSupportEmail: enterpriseSupportEmail,
		now:                    time.Now,
		logger:                 logger,
	}
}

func ValidateSignupInput(input SignupInput) error {
	if strings.TrimSpace(input.ID) == "" {
		return ErrSignupIDRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return ErrSignupEmailRequired
	}
	if strings.TrimSpace(input.Name) == "" {
		return ErrSignupNameRequired
	}
	return nil
}

// NewUserFromSignup applies the documented defaults: unknown plan becomes
// trial, a non-positive company size becomes 1.
func NewUserFromSignup(input SignupInput, now time.Time) models.User {
	size := input.CompanySize
	if size < 1 {
		size = models.DefaultCompanySize
	}
	return models.User{
		ID:          strings.TrimSpace(input.ID),
		Email:       strings.TrimSpace(input.Email),
		Name:        strings.TrimSpace(input.Name),
		Company:     strings.TrimSpace(input.Company),
		Plan:        models.ParsePlan(input.Plan),
		CompanySize: size,
		CreatedAt:   now,
	}
}

// ProfileAttributes flattens the user into the platform profile attribute
// set. signup_date is RFC3339 so progress checks can parse it back.
func ProfileAttributes(user models.User, timezone string, locale string) map[string]any {
	if strings.TrimSpace(timezone) == "" {
		timezone = defaultTimezone
	}
	if strings.TrimSpace(locale) == "" {
		locale = defaultLocale
	}
	return map[string]any{
		"email":        user.Email,
		"name":         user.Name,
		"company":      user.Company,
		"plan":         user.Plan.String(),
		"company_size": user.CompanySize,
		"signup_date":  user.CreatedAt.UTC().Format(time.RFC3339),
		"timezone":     timezone,
		"locale":       locale,
	}
}

// StartOnboarding runs the full sequence: merge profile, invoke the plan
// automation, send the welcome message, schedule tasks. Steps already in the
// journal are skipped, so re-running for the same user resumes instead of
// re-sending.
func (service *OnboardingService) StartOnboarding(ctx context.Context, input SignupInput) (OnboardingResult, error) {
	if err := ValidateSignupInput(input); err != nil {
		return OnboardingResult{}, err
	}

	now := service.now()
	user := NewUserFromSignup(input, now)
	result := OnboardingResult{UserID: user.ID}

	done, err := service.journal.CompletedSteps(user.ID)
	if err != nil {
		return result, fmt.Errorf("load onboarding journal: %w", err)
	}

	if _, skipped := done[models.StepProfile]; skipped {
		result.StepsSkipped = append(result.StepsSkipped, models.StepProfile)
	} else {
		attrs := ProfileAttributes(user, input.Timezone, input.Locale)
		if err := service.platform.MergeProfile(ctx, user.ID, attrs); err != nil {
			return result, fmt.Errorf("merge profile: %w", err)
		}
		if err := service.journal.MarkStep(user.ID, models.StepProfile, service.now()); err != nil {
			return result, fmt.Errorf("journal profile step: %w", err)
		}
		result.ProfileMerged = true
	}

	if _, skipped := done[models.StepAutomation]; skipped {
		result.StepsSkipped = append(result.StepsSkipped, models.StepAutomation)
	} else {
		invoked, err := service.platform.InvokeAutomation(ctx, AutomationForPlan(user.Plan), user.ID, map[string]any{
			"user_name":     user.Name,
			"company_name":  user.Company,
			"plan_features": PlanFeatures(user.Plan),
		})
		if err != nil {
			return result, fmt.Errorf("invoke onboarding automation: %w", err)
		}
		if err := service.journal.MarkStep(user.ID, models.StepAutomation, service.now()); err != nil {
			return result, fmt.Errorf("journal automation step: %w", err)
		}
		result.AutomationRunID = invoked.RunID
	}

	if _, skipped := done[models.StepWelcome]; skipped {
		result.StepsSkipped = append(result.StepsSkipped, models.StepWelcome)
	} else {
		welcomeID, err := service.sendWelcome(ctx, user)
		if err != nil {
			return result, fmt.Errorf("send welcome message: %w", err)
		}
		if err := service.journal.MarkStep(user.ID, models.StepWelcome, service.now()); err != nil {
			return result, fmt.Errorf("journal welcome step: %w", err)
		}
		result.WelcomeMessageID = welcomeID
	}

	scheduled, skipped, err := service.scheduleTasks(ctx, user, done)
	if err != nil {
		return result, err
	}
	result.TasksScheduled = scheduled
	result.StepsSkipped = append(result.StepsSkipped, skipped...)

	if len(result.StepsSkipped) > 0 {
		service.logger.Info("onboarding re-run skipped completed steps",
			zap.String("user_id", user.ID),
			zap.Strings("steps", result.StepsSkipped),
		)
	}
	return result, nil
}

func (service *OnboardingService) sendWelcome(ctx context.Context, user models.User) (string, error) {
	link, err := service.links.GettingStartedLink(user.ID)
	if err != nil {
		return "", fmt.Errorf("sign getting-started link: %w", err)
	}

	response, err := service.platform.Send(ctx, platform.SendRequest{
		To:       platform.Recipient{UserID: user.ID},
		Template: welcomeTemplate,
		Data: map[string]any{
			"user_name":            user.Name,
			"company_name":         user.Company,
			"getting_started_link": link,
			"support_email":        service.supportEmailForPlan(user.Plan),
			"onboarding_checklist": OnboardingChecklist(user.Plan),
		},
		EmailSubject:   fmt.Sprintf("Welcome to TeamSync, %s! 🎉", user.Name),
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	return response.MessageID, nil
}

func (service *OnboardingService) scheduleTasks(ctx context.Context, user models.User, done map[string]time.Time) (int, []string, error) {
	scheduled := 0
	skipped := []string(nil)

	for _, task := range TasksForPlan(user.Plan) {
		step := models.TaskStepName(task.ID)
		if _, alreadyDone := done[step]; alreadyDone {
			skipped = append(skipped, step)
			continue
		}

		dueAt := service.now().AddDate(0, 0, task.DueDays)
		response, err := service.platform.Send(ctx, platform.SendRequest{
			To:       platform.Recipient{UserID: user.ID},
			Template: taskTemplate,
			Channels: []string{platform.ChannelInbox},
			Data: map[string]any{
				"task_id":    task.ID,
				"task_title": task.Title,
				"due_date":   dueAt.UTC().Format(time.RFC3339),
				"action_url": "/tasks/" + task.ID,
			},
			Tags:           []string{"onboarding", fmt.Sprintf("priority-%d", task.Priority)},
			IdempotencyKey: uuid.NewString(),
		})
		if err != nil {
			return scheduled, skipped, fmt.Errorf("schedule task %s: %w", task.ID, err)
		}

		if err := service.journal.RecordScheduledTask(&models.ScheduledTask{
			UserID:    user.ID,
			TaskID:    task.ID,
			Title:     task.Title,
			Priority:  task.Priority,
			DueAt:     dueAt,
			MessageID: response.MessageID,
		}); err != nil {
			return scheduled, skipped, fmt.Errorf("record scheduled task %s: %w", task.ID, err)
		}
		if err := service.journal.MarkStep(user.ID, step, service.now()); err != nil {
			return scheduled, skipped, fmt.Errorf("journal task step %s: %w", task.ID, err)
		}
		scheduled++
	}
	return scheduled, skipped, nil
}

func (service *OnboardingService) supportEmailForPlan(plan models.Plan) string {
	if plan == models.PlanEnterprise {
		return service.enterpriseSupportEmail
	}
	return service.supportEmail
}
