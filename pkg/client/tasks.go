package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"taskdeck/pkg/domain"
)

// TaskFilter narrows ListTasks results. Zero values mean "no filter"; Page is
// 1-based and Limit falls back to the server default when 0.
type TaskFilter struct {
	Status      string
	Priority    string
	ProjectID   uuid.UUID
	AssignedTo  string
	Search      string
	DueDateFrom time.Time
	DueDateTo   time.Time
	Page        int
	Limit       int
}

func (f TaskFilter) query() url.Values {
	params := url.Values{}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	if f.Priority != "" {
		params.Set("priority", f.Priority)
	}
	if f.ProjectID != uuid.Nil {
		params.Set("project", f.ProjectID.String())
	}
	if f.AssignedTo != "" {
		params.Set("assignedUser", f.AssignedTo)
	}
	if f.Search != "" {
		params.Set("searchQuery", f.Search)
	}
	if !f.DueDateFrom.IsZero() {
		params.Set("dueDateFrom", f.DueDateFrom.Format(time.RFC3339))
	}
	if !f.DueDateTo.IsZero() {
		params.Set("dueDateTo", f.DueDateTo.Format(time.RFC3339))
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	return params
}

// TaskPage is one page of tasks plus the unpaged total.
type TaskPage struct {
	Tasks      []domain.Task `json:"tasks"`
	TotalCount int           `json:"totalCount"`
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty"`
	ProjectID   uuid.UUID  `json:"project_id" validate:"required"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateTaskRequest is the payload for updating a task. Nil/empty fields are
// left unchanged by the server.
type UpdateTaskRequest struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// ListTasks fetches tasks matching the filter.
func (c *Client) ListTasks(ctx context.Context, filter TaskFilter) (*TaskPage, error) {
	path := "/api/tasks"
	if q := filter.query().Encode(); q != "" {
		path += "?" + q
	}
	var page TaskPage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("client.ListTasks: %w", err)
	}
	return &page, nil
}

// ListProjectTasks fetches all tasks belonging to a project.
func (c *Client) ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.get(ctx, "/api/tasks/project/"+url.PathEscape(projectID.String()), &tasks); err != nil {
		return nil, fmt.Errorf("client.ListProjectTasks: %w", err)
	}
	return tasks, nil
}

// GetTask fetches a single task by ID.
func (c *Client) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := c.get(ctx, "/api/tasks/"+url.PathEscape(id.String()), &task); err != nil {
		return nil, fmt.Errorf("client.GetTask: %w", err)
	}
	return &task, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("client.CreateTask: %w", err)
	}
	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return nil, fmt.Errorf("client.CreateTask: invalid status %q", req.Status)
	}
	if req.Priority != "" && !domain.ValidPriority(req.Priority) {
		return nil, fmt.Errorf("client.CreateTask: invalid priority %q", req.Priority)
	}
	var created domain.Task
	if err := c.post(ctx, "/api/tasks", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateTask: %w", err)
	}
	return &created, nil
}

// UpdateTask updates a task's fields.
func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*domain.Task, error) {
	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return nil, fmt.Errorf("client.UpdateTask: invalid status %q", req.Status)
	}
	if req.Priority != "" && !domain.ValidPriority(req.Priority) {
		return nil, fmt.Errorf("client.UpdateTask: invalid priority %q", req.Priority)
	}
	var updated domain.Task
	if err := c.put(ctx, "/api/tasks/"+url.PathEscape(id.String()), req, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateTask: %w", err)
	}
	return &updated, nil
}

// DeleteTask removes a task by ID.
func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := c.delete(ctx, "/api/tasks/"+url.PathEscape(id.String())); err != nil {
		return fmt.Errorf("client.DeleteTask: %w", err)
	}
	return nil
}

// UpdateTaskStatus moves a task to a new status without touching other fields.
func (c *Client) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Task, error) {
	if !domain.ValidStatus(status) {
		return nil, fmt.Errorf("client.UpdateTaskStatus: invalid status %q", status)
	}
	var updated domain.Task
	body := map[string]string{"status": status}
	if err := c.patch(ctx, "/api/tasks/"+url.PathEscape(id.String())+"/status", body, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateTaskStatus: %w", err)
	}
	return &updated, nil
}

// UploadTaskFile attaches a file to a task. The content is buffered so the
// request can be replayed by the pipeline after a token refresh.
func (c *Client) UploadTaskFile(ctx context.Context, taskID uuid.UUID, filename string, data []byte) (*domain.TaskFile, error) {
	if filename == "" {
		return nil, fmt.Errorf("client.UploadTaskFile: filename is required")
	}
	var uploaded domain.TaskFile
	path := "/api/tasks/" + url.PathEscape(taskID.String()) + "/files"
	if err := c.upload(ctx, path, "file", filename, data, &uploaded); err != nil {
		return nil, fmt.Errorf("client.UploadTaskFile: %w", err)
	}
	return &uploaded, nil
}

// ListTaskFiles fetches a task's attachments.
func (c *Client) ListTaskFiles(ctx context.Context, taskID uuid.UUID) ([]domain.TaskFile, error) {
	var files []domain.TaskFile
	if err := c.get(ctx, "/api/tasks/"+url.PathEscape(taskID.String())+"/files", &files); err != nil {
		return nil, fmt.Errorf("client.ListTaskFiles: %w", err)
	}
	return files, nil
}

// DeleteTaskFile removes an attachment from a task.
func (c *Client) DeleteTaskFile(ctx context.Context, taskID, fileID uuid.UUID) error {
	path := "/api/tasks/" + url.PathEscape(taskID.String()) + "/files/" + url.PathEscape(fileID.String())
	if err := c.delete(ctx, path); err != nil {
		return fmt.Errorf("client.DeleteTaskFile: %w", err)
	}
	return nil
}
