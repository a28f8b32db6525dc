package types

// ID types give each integer key its domain meaning so a task ID can never be
// passed where a project ID is expected.

// UserID identifies an account of any role
type UserID int

// ProjectID identifies a customer project
type ProjectID int

// TaskID identifies a task within a project
type TaskID int

// MessageID identifies a chat message posted on a project
type MessageID int

// NoteID identifies a progress note attached to a task
type NoteID int

// MilestoneID identifies a project milestone
type MilestoneID int

// TeamMemberID identifies a team assignment row
type TeamMemberID int

// NotificationLogID identifies a persisted dispatch outcome
type NotificationLogID int

// ToInt converts the ID back to a plain int
func (id UserID) ToInt() int {
	return int(id)
}

func (id ProjectID) ToInt() int {
	return int(id)
}

func (id TaskID) ToInt() int {
	return int(id)
}

func (id MessageID) ToInt() int {
	return int(id)
}
