package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"taskdeck/pkg/domain"
)

// CreateProjectRequest is the payload for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest is the payload for updating a project.
type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// ListProjects fetches the projects visible to the authenticated user.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.get(ctx, "/api/projects", &projects); err != nil {
		return nil, fmt.Errorf("client.ListProjects: %w", err)
	}
	return projects, nil
}

// GetProject fetches a single project by ID, including its members.
func (c *Client) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project
	if err := c.get(ctx, "/api/projects/"+url.PathEscape(id.String()), &p); err != nil {
		return nil, fmt.Errorf("client.GetProject: %w", err)
	}
	return &p, nil
}

// CreateProject creates a new project owned by the authenticated user.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (*domain.Project, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("client.CreateProject: %w", err)
	}
	var created domain.Project
	if err := c.post(ctx, "/api/projects", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateProject: %w", err)
	}
	return &created, nil
}

// UpdateProject updates a project's name and description.
func (c *Client) UpdateProject(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*domain.Project, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("client.UpdateProject: %w", err)
	}
	var updated domain.Project
	if err := c.put(ctx, "/api/projects/"+url.PathEscape(id.String()), req, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateProject: %w", err)
	}
	return &updated, nil
}

// DeleteProject removes a project by ID.
func (c *Client) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := c.delete(ctx, "/api/projects/"+url.PathEscape(id.String())); err != nil {
		return fmt.Errorf("client.DeleteProject: %w", err)
	}
	return nil
}

// AddProjectMember adds a user to a project's membership.
func (c *Client) AddProjectMember(ctx context.Context, projectID uuid.UUID, userID string) error {
	body := map[string]string{"userId": userID}
	if err := c.post(ctx, "/api/projects/"+url.PathEscape(projectID.String())+"/members", body, nil); err != nil {
		return fmt.Errorf("client.AddProjectMember: %w", err)
	}
	return nil
}

// RemoveProjectMember removes a member from a project.
func (c *Client) RemoveProjectMember(ctx context.Context, projectID, memberID uuid.UUID) error {
	path := "/api/projects/" + url.PathEscape(projectID.String()) + "/members/" + url.PathEscape(memberID.String())
	if err := c.delete(ctx, path); err != nil {
		return fmt.Errorf("client.RemoveProjectMember: %w", err)
	}
	return nil
}
