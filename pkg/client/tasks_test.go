package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	"taskdeck/pkg/domain"
)

func TestTaskFilterQuery(t *testing.T) {
	projectID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter TaskFilter
		want   url.Values
	}{
		{
			name:   "empty",
			filter: TaskFilter{},
			want:   url.Values{},
		},
		{
			name:   "status and priority",
			filter: TaskFilter{Status: "In Progress", Priority: "High"},
			want:   url.Values{"status": {"In Progress"}, "priority": {"High"}},
		},
		{
			name:   "pagination",
			filter: TaskFilter{Page: 2, Limit: 25},
			want:   url.Values{"page": {"2"}, "limit": {"25"}},
		},
		{
			name:   "project and search",
			filter: TaskFilter{ProjectID: projectID, Search: "deploy"},
			want:   url.Values{"project": {projectID.String()}, "searchQuery": {"deploy"}},
		},
		{
			name:   "due date range",
			filter: TaskFilter{DueDateFrom: from},
			want:   url.Values{"dueDateFrom": {"2026-03-01T00:00:00Z"}},
		},
		{
			name:   "assignee",
			filter: TaskFilter{AssignedTo: "user-7"},
			want:   url.Values{"assignedUser": {"user-7"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.query()
			if got.Encode() != tt.want.Encode() {
				t.Errorf("query() = %q, want %q", got.Encode(), tt.want.Encode())
			}
		})
	}
}

func TestListTasks(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		writeJSON(w, http.StatusOK, TaskPage{
			Tasks:      []domain.Task{{Title: "ship it", Status: "Todo"}},
			TotalCount: 41,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &memSession{access: "tok"})
	page, err := c.ListTasks(context.Background(), TaskFilter{Status: "Todo", Page: 2, Limit: 25})
	if err != nil {
		t.Fatalf("ListTasks() error: %v", err)
	}
	if page.TotalCount != 41 {
		t.Errorf("TotalCount = %d, want 41", page.TotalCount)
	}
	if len(page.Tasks) != 1 || page.Tasks[0].Title != "ship it" {
		t.Errorf("Tasks = %+v, want one task titled 'ship it'", page.Tasks)
	}
	if gotQuery.Get("status") != "Todo" || gotQuery.Get("page") != "2" {
		t.Errorf("query = %v, want status=Todo page=2", gotQuery)
	}
}

func TestListProjectTasks(t *testing.T) {
	projectID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks/project/"+projectID.String() {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, []domain.Task{{Title: "a"}, {Title: "b"}})
	}))
	defer srv.Close()

	c := New(srv.URL, &memSession{access: "tok"})
	tasks, err := c.ListProjectTasks(context.Background(), projectID)
	if err != nil {
		t.Fatalf("ListProjectTasks() error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
}

func TestCreateTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, domain.Task{ID: uuid.New(), Title: req.Title, Priority: req.Priority})
	}))
	defer srv.Close()

	c := New(srv.URL, &memSession{access: "tok"})
	task, err := c.CreateTask(context.Background(), CreateTaskRequest{
		Title:     "write release notes",
		ProjectID: uuid.New(),
		Priority:  "High",
	})
	if err != nil {
		t.Fatalf("CreateTask() error: %v", err)
	}
	if task.Title != "write release notes" {
		t.Errorf("Title = %q, want %q", task.Title, "write release notes")
	}
}

func TestCreateTask_InvalidPriority(t *testing.T) {
	c := New("http://127.0.0.1:0", &memSession{access: "tok"})
	_, err := c.CreateTask(context.Background(), CreateTaskRequest{
		Title:     "t",
		ProjectID: uuid.New(),
		Priority:  "Urgent",
	})
	if err == nil {
		t.Fatal("expected error for invalid priority")
	}
}

func TestCreateTask_MissingProject(t *testing.T) {
	c := New("http://127.0.0.1:0", &memSession{access: "tok"})
	_, err := c.CreateTask(context.Background(), CreateTaskRequest{Title: "orphan"})
	if err == nil {
		t.Fatal("expected validation error for missing project")
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	id := uuid.New()
	var gotBody map[string]string
	var gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks/"+id.String()+"/status" {
			http.NotFound(w, r)
			return
		}
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck
		writeJSON(w, http.StatusOK, domain.Task{ID: id, Status: gotBody["status"]})
	}))
	defer srv.Close()

	c := New(srv.URL, &memSession{access: "tok"})
	task, err := c.UpdateTaskStatus(context.Background(), id, "Completed")
	if err != nil {
		t.Fatalf("UpdateTaskStatus() error: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if task.Status != "Completed" {
		t.Errorf("Status = %q, want %q", task.Status, "Completed")
	}
}

func TestUpdateTaskStatus_Invalid(t *testing.T) {
	c := New("http://127.0.0.1:0", &memSession{access: "tok"})
	_, err := c.UpdateTaskStatus(context.Background(), uuid.New(), "Done")
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestUploadTaskFile(t *testing.T) {
	taskID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks/"+taskID.String()+"/files" {
			http.NotFound(w, r)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close() //nolint:errcheck
		data, _ := io.ReadAll(file) //nolint:errcheck
		writeJSON(w, http.StatusCreated, domain.TaskFile{
			ID:   uuid.New(),
			Name: header.Filename,
			Size: int64(len(data)),
		})
	}))
	defer srv.Close()

	c := New(srv.URL, &memSession{access: "tok"})
	uploaded, err := c.UploadTaskFile(context.Background(), taskID, "notes.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("UploadTaskFile() error: %v", err)
	}
	if uploaded.Name != "notes.txt" {
		t.Errorf("Name = %q, want %q", uploaded.Name, "notes.txt")
	}
	if uploaded.Size != 5 {
		t.Errorf("Size = %d, want 5", uploaded.Size)
	}
}

func TestUploadTaskFile_ReplayedAfterRefresh(t *testing.T) {
	taskID := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tasks/"+taskID.String()+"/files", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer new-access" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()        //nolint:errcheck
		data, _ := io.ReadAll(file) //nolint:errcheck
		writeJSON(w, http.StatusCreated, domain.TaskFile{Name: "replayed", Size: int64(len(data))})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, domain.AuthResponse{Token: "new-access"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, &memSession{access: "stale", refresh: "refresh"})
	uploaded, err := c.UploadTaskFile(context.Background(), taskID, "notes.txt", []byte("payload"))
	if err != nil {
		t.Fatalf("UploadTaskFile() error: %v", err)
	}
	// The retried attempt must carry the full multipart body again.
	if uploaded.Size != int64(len("payload")) {
		t.Errorf("Size = %d, want %d", uploaded.Size, len("payload"))
	}
}

func TestDeleteTaskFile(t *testing.T) {
	taskID, fileID := uuid.New(), uuid.New()
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, &memSession{access: "tok"})
	if err := c.DeleteTaskFile(context.Background(), taskID, fileID); err != nil {
		t.Fatalf("DeleteTaskFile() error: %v", err)
	}
	want := "/api/tasks/" + taskID.String() + "/files/" + fileID.String()
	if gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}
