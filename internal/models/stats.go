package models

// PersonStats is the per-assignee rollup shown in the sidebar.
type PersonStats struct {
	Name            string `json:"name"`
	Pinned          bool   `json:"pinned"`
	TotalTasks      int    `json:"totalTasks"`
	PendingTasks    int    `json:"pendingTasks"`
	OverdueTasks    int    `json:"overdueTasks"`
	CompletedToday  int    `json:"completedToday"`
	InProgressTasks int    `json:"inProgressTasks"`
}

// AgendaStats is returned by the backend stats endpoint.
type AgendaStats struct {
	TotalTasks      int     `json:"totalTasks"`
	PendingTasks    int     `json:"pendingTasks"`
	InProgressTasks int     `json:"inProgressTasks"`
	CompletedTasks  int     `json:"completedTasks"`
	OverdueTasks    int     `json:"overdueTasks"`
	DueToday        int     `json:"dueToday"`
	CompletionRate  float64 `json:"completionRate"`
}

// TaskGroup is a backend grouping of tasks (team, area, shift).
type TaskGroup struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	TaskCount   int    `json:"taskCount,omitempty"`
}

// Counts summarizes the pre-filter unified set per origin.
type Counts struct {
	Total   int `json:"total"`
	Agenda  int `json:"agendaCount"`
	Regular int `json:"regularCount"`
}
