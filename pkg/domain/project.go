package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project is a workspace grouping tasks and members.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	Members     []Member  `json:"members,omitempty"`
	TaskCount   int       `json:"task_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member is a user's membership in a project.
type Member struct {
	ID     uuid.UUID `json:"id"`
	UserID string    `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role,omitempty"`
}
