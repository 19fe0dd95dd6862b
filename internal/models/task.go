package models

// TaskDefinition describes one onboarding task scheduled into the user's
// inbox. Lower priority means more urgent.
type TaskDefinition struct {
	ID       string
	Title    string
	Priority int
	DueDays  int
}
