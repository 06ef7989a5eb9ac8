package model

import "time"

const (
	TaskPending    = "pending"
	TaskTodo       = "todo"
	TaskInProgress = "in-progress"
	TaskReview     = "review"
	TaskCompleted  = "completed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	ProjectPlanning   = "planning"
	ProjectInProgress = "in-progress"
	ProjectOnHold     = "on-hold"
	ProjectCompleted  = "completed"
)

// TaskStatuses lists every status a task or project task may carry.
var TaskStatuses = []string{TaskPending, TaskTodo, TaskInProgress, TaskReview, TaskCompleted}

// Lanes are the kanban columns of a project board, in display order.
var Lanes = []string{TaskTodo, TaskInProgress, TaskReview, TaskCompleted}

type TimeLog struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Notes string  `json:"notes"`
}

// Task dates (StartDate, Deadline) are calendar days formatted yyyy-mm-dd.
type Task struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	AssigneeID     string     `json:"assigneeId,omitempty"`
	Priority       string     `json:"priority"`
	StartDate      string     `json:"startDate"`
	Deadline       string     `json:"deadline"`
	Status         string     `json:"status"`
	EstimatedHours float64    `json:"estimatedHours"`
	TimeLogs       []TimeLog  `json:"timeLogs"`
	TimeSpent      float64    `json:"timeSpent"`
	CreatedDate    time.Time  `json:"createdDate"`
	UpdatedDate    *time.Time `json:"updatedDate,omitempty"`
	CompletedDate  *time.Time `json:"completedDate,omitempty"`
}

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	TeamMembers []string  `json:"teamMembers"`
	Status      string    `json:"status"`
	CreatedDate time.Time `json:"createdDate"`
}

func (p Project) HasMember(employeeID string) bool {
	for _, id := range p.TeamMembers {
		if id == employeeID {
			return true
		}
	}
	return false
}

type ProjectTask struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"projectId"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	AssigneeID    string     `json:"assigneeId,omitempty"`
	Priority      string     `json:"priority"`
	DueDate       string     `json:"dueDate"`
	Status        string     `json:"status"`
	CreatedDate   time.Time  `json:"createdDate"`
	UpdatedDate   *time.Time `json:"updatedDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
}

func ValidTaskStatus(status string) bool {
	for _, s := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func ValidLane(status string) bool {
	for _, s := range Lanes {
		if s == status {
			return true
		}
	}
	return false
}

func ValidPriority(priority string) bool {
	return priority == PriorityLow || priority == PriorityMedium || priority == PriorityHigh
}

func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectPlanning, ProjectInProgress, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}
