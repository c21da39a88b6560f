package domain

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work inside a project.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority,omitempty"`
	ProjectID    uuid.UUID  `json:"project_id"`
	ProjectName  string     `json:"project_name,omitempty"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	AssigneeName string     `json:"assignee_name,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Files        []TaskFile `json:"files,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TaskFile is an attachment uploaded to a task.
type TaskFile struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	URL        string    `json:"url,omitempty"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Valid task statuses, in board order.
var ValidStatuses = []string{
	"Todo",
	"In Progress",
	"Completed",
	"Blocked",
}

// Valid task priorities, lowest first.
var ValidPriorities = []string{
	"Low",
	"Medium",
	"High",
}

var validStatusSet = func() map[string]bool {
	m := make(map[string]bool, len(ValidStatuses))
	for _, s := range ValidStatuses {
		m[s] = true
	}
	return m
}()

var validPrioritySet = func() map[string]bool {
	m := make(map[string]bool, len(ValidPriorities))
	for _, p := range ValidPriorities {
		m[p] = true
	}
	return m
}()

// ValidStatus returns true if the given status is a known task status.
func ValidStatus(status string) bool {
	return validStatusSet[status]
}

// ValidPriority returns true if the given priority is a known task priority.
func ValidPriority(priority string) bool {
	return validPrioritySet[priority]
}

// NextStatus returns the status following s in board order, wrapping around.
// Unknown statuses reset to the first valid one.
func NextStatus(s string) string {
	for i, v := range ValidStatuses {
		if v == s {
			return ValidStatuses[(i+1)%len(ValidStatuses)]
		}
	}
	return ValidStatuses[0]
}
