package models

import "strings"

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "Pending"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectOnHold     ProjectStatus = "On Hold"
)

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectPending:    {ProjectInProgress, ProjectOnHold},
	ProjectInProgress: {ProjectCompleted, ProjectOnHold},
	ProjectOnHold:     {ProjectInProgress, ProjectPending},
	ProjectCompleted:  {ProjectInProgress},
}

// ProjectStatuses lists the valid project statuses
var ProjectStatuses = []ProjectStatus{ProjectPending, ProjectInProgress, ProjectCompleted, ProjectOnHold}

func (s ProjectStatus) Valid() bool {
	_, ok := projectTransitions[s]
	return ok
}

// CanTransitionTo reports whether a project may move from s to next.
// Staying in the same status is always allowed.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	if s == next {
		return next.Valid()
	}
	for _, allowed := range projectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseProjectStatus accepts the display form ("In Progress") or the
// snake form ("in_progress").
func ParseProjectStatus(s string) (ProjectStatus, error) {
	for _, st := range ProjectStatuses {
		if matchesLabel(string(st), s) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// TaskStatus is the lifecycle state of a task
type TaskStatus string

const (
	TaskPending    TaskStatus = "Pending"
	TaskInProgress TaskStatus = "In Progress"
	TaskBlocked    TaskStatus = "Blocked"
	TaskCompleted  TaskStatus = "Completed"
)

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskPending:    {TaskInProgress, TaskBlocked, TaskCompleted},
	TaskInProgress: {TaskCompleted, TaskBlocked, TaskPending},
	TaskBlocked:    {TaskInProgress, TaskPending},
	TaskCompleted:  {TaskInProgress},
}

// TaskStatuses lists the valid task statuses
var TaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskBlocked, TaskCompleted}

func (s TaskStatus) Valid() bool {
	_, ok := taskTransitions[s]
	return ok
}

// CanTransitionTo reports whether a task may move from s to next.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s == next {
		return next.Valid()
	}
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	for _, st := range TaskStatuses {
		if matchesLabel(string(st), s) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// Priority ranks task urgency
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if matchesLabel(string(p), s) {
			return p, nil
		}
	}
	return "", ErrInvalidPriority
}

func matchesLabel(label, input string) bool {
	in := strings.ReplaceAll(strings.TrimSpace(input), "_", " ")
	return strings.EqualFold(label, in)
}
