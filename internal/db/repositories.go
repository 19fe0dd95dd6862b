package db

import "gorm.io/gorm"

type Repositories struct {
	Journal *JournalRepository
	Teams   *TeamRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Journal: NewJournalRepository(database),
		Teams:   NewTeamRepository(database),
	}
}
