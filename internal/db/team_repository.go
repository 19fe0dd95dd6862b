package db

import (
	"gorm.io/gorm"

	"github.com/teamsync/onboard/internal/models"
)

// TeamRepository is the directory the weekly digest fans out over. Rows are
// synced in from the application's own user database; this service only
// reads and seeds them.
type TeamRepository struct {
	database *gorm.DB
}

func NewTeamRepository(database *gorm.DB) *TeamRepository {
	return &TeamRepository{database: database}
}

func (repo *TeamRepository) ListTeams() ([]models.Team, error) {
	teams := []models.Team{}
	if err := repo.database.Order("team_id ASC").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (repo *TeamRepository) ListMembers(teamID string) ([]models.TeamMember, error) {
	members := []models.TeamMember{}
	if err := repo.database.
		Where("team_id = ?", teamID).
		Order("user_id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (repo *TeamRepository) CreateTeam(team *models.Team) error {
	return repo.database.Create(team).Error
}

func (repo *TeamRepository) AddMember(member *models.TeamMember) error {
	return repo.database.Create(member).Error
}
