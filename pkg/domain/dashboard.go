package domain

// DashboardStats is the per-user summary shown on the dashboard.
// StatusCounts is keyed by task status ("Todo", "In Progress", "Completed").
type DashboardStats struct {
	ProjectCount int            `json:"projectCount"`
	TaskCount    int            `json:"taskCount"`
	StatusCounts map[string]int `json:"statusCounts"`
}
