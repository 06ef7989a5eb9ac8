package workboard

import (
	"context"
	"math"

	"staffhub.io/staffhub/model"
)

// StatusCounts partitions a set of task statuses. Pending includes todo.
type StatusCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Review     int `json:"review"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
}

// CompletionRate is the rounded percentage of completed work.
func (c StatusCounts) CompletionRate() int {
	if c.Total == 0 {
		return 0
	}
	return int(math.Round(float64(c.Completed) / float64(c.Total) * 100))
}

// Open counts work not yet completed or in review.
func (c StatusCounts) Open() int {
	return c.Pending + c.InProgress
}

// Summarize counts statuses into the four buckets. Statuses are validated on
// write, so an unknown value is a storage defect and is counted as pending.
func Summarize(statuses []string) StatusCounts {
	var c StatusCounts
	for _, s := range statuses {
		switch s {
		case model.TaskInProgress:
			c.InProgress++
		case model.TaskReview:
			c.Review++
		case model.TaskCompleted:
			c.Completed++
		default:
			c.Pending++
		}
		c.Total++
	}
	return c
}

// WorkItem is a task or project task reduced to what the dashboards need.
type WorkItem struct {
	ID         string `json:"id"`
	ProjectID  string `json:"projectId,omitempty"`
	Name       string `json:"name"`
	AssigneeID string `json:"assigneeId,omitempty"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
	Deadline   string `json:"deadline"`
}

func Statuses(items []WorkItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Status)
	}
	return out
}

// AllWork merges standalone tasks and project tasks.
func (s *Service) AllWork(ctx context.Context) ([]WorkItem, error) {
	tasks, err := s.tasks.Load(ctx)
	if err != nil {
		return nil, err
	}
	projectTasks, err := s.projectTasks.Load(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]WorkItem, 0, len(tasks)+len(projectTasks))
	for _, t := range tasks {
		items = append(items, WorkItem{ID: t.ID, Name: t.Name, AssigneeID: t.AssigneeID, Priority: t.Priority, Status: t.Status, Deadline: t.Deadline})
	}
	for _, t := range projectTasks {
		items = append(items, WorkItem{ID: t.ID, ProjectID: t.ProjectID, Name: t.Name, AssigneeID: t.AssigneeID, Priority: t.Priority, Status: t.Status, Deadline: t.DueDate})
	}
	return items, nil
}

func (s *Service) OverdueWork(items []WorkItem) []WorkItem {
	out := []WorkItem{}
	for _, it := range items {
		if s.Overdue(it.Status, it.Deadline) {
			out = append(out, it)
		}
	}
	return out
}
