package database

import "database/sql"

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*UserRepo
	*SettingsRepo
	*ProjectRepo
	*TaskRepo
	*MessageRepo
	*ReminderRepo
	*NotificationLogRepo
}

var _ DataStore = (*Repository)(nil)

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		UserRepo:            &UserRepo{db: db},
		SettingsRepo:        &SettingsRepo{db: db},
		ProjectRepo:         &ProjectRepo{db: db},
		TaskRepo:            &TaskRepo{db: db},
		MessageRepo:         &MessageRepo{db: db},
		ReminderRepo:        &ReminderRepo{db: db},
		NotificationLogRepo: &NotificationLogRepo{db: db},
	}
}
