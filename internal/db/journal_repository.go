package db

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamsync/onboard/internal/models"
)

// JournalRepository persists the onboarding step journal and the scheduled
// task records that make onboarding re-runs idempotent.
type JournalRepository struct {
	database *gorm.DB
}

func NewJournalRepository(database *gorm.DB) *JournalRepository {
	return &JournalRepository{database: database}
}

func (repo *JournalRepository) CompletedSteps(userID string) (map[string]time.Time, error) {
	steps := []models.OnboardingStep{}
	if err := repo.database.Where("user_id = ?", userID).Find(&steps).Error; err != nil {
		return nil, err
	}

	completed := make(map[string]time.Time, len(steps))
	for _, step := range steps {
		completed[step.Step] = step.CompletedAt
	}
	return completed, nil
}

// MarkStep is an upsert: marking an already-completed step keeps the original
// completion time, so concurrent re-runs cannot corrupt the journal.
func (repo *JournalRepository) MarkStep(userID string, step string, completedAt time.Time) error {
	return repo.database.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.OnboardingStep{
		UserID:      userID,
		Step:        step,
		CompletedAt: completedAt,
	}).Error
}

func (repo *JournalRepository) RecordScheduledTask(task *models.ScheduledTask) error {
	return repo.database.Create(task).Error
}

func (repo *JournalRepository) CountScheduledTasks(userID string) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.ScheduledTask{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *JournalRepository) ListScheduledTasks(userID string) ([]models.ScheduledTask, error) {
	tasks := []models.ScheduledTask{}
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("priority ASC, due_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
