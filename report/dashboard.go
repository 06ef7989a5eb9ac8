package report

import (
	"context"

	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/utils"
	"staffhub.io/staffhub/workboard"
)

type AdminDashboard struct {
	TotalEmployees   int                      `json:"totalEmployees"`
	TodayAttendance  int                      `json:"todayAttendance"`
	PendingLeaves    int                      `json:"pendingLeaves"`
	PendingTasks     int                      `json:"pendingTasks"`
	CompletedTasks   int                      `json:"completedTasks"`
	ActiveProjects   int                      `json:"activeProjects"`
	OverdueTasks     int                      `json:"overdueTasks"`
	TaskStats        workboard.StatusCounts   `json:"taskStats"`
	CompletionRate   int                      `json:"completionRate"`
	RecentAttendance []model.AttendanceRecord `json:"recentAttendance"`
	RecentProjects   []workboard.ProjectView  `json:"recentProjects"`
}

type EmployeeDashboard struct {
	TodayCheckIns  int                      `json:"todayCheckIns"`
	TodayCheckOuts int                      `json:"todayCheckOuts"`
	CurrentStatus  string                   `json:"currentStatus"`
	NextAction     string                   `json:"nextAction"`
	TasksCompleted int                      `json:"tasksCompleted"`
	TasksPending   int                      `json:"tasksPending"`
	Projects       int                      `json:"projects"`
	UrgentTasks    []model.Task             `json:"urgentTasks"`
	MyProjects     []workboard.ProjectView  `json:"myProjects"`
	TodayRecords   []model.AttendanceRecord `json:"todayRecords"`
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func (s *Service) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	employees, err := s.employees.List(ctx, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	today, err := s.today(ctx)
	if err != nil {
		return nil, err
	}
	pendingLeaves, err := s.leaves.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	work, err := s.work.AllWork(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.work.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	stats := workboard.Summarize(workboard.Statuses(work))
	return &AdminDashboard{
		TotalEmployees:   len(employees),
		TodayAttendance:  len(today),
		PendingLeaves:    pendingLeaves,
		PendingTasks:     stats.Open(),
		CompletedTasks:   stats.Completed,
		ActiveProjects:   utils.Count(projects, func(p workboard.ProjectView) bool { return p.Status == model.ProjectInProgress }),
		OverdueTasks:     len(s.work.OverdueWork(work)),
		TaskStats:        stats,
		CompletionRate:   stats.CompletionRate(),
		RecentAttendance: head(today, 5),
		RecentProjects:   head(projects, 3),
	}, nil
}

func (s *Service) EmployeeDashboard(ctx context.Context, employeeID string) (*EmployeeDashboard, error) {
	day, err := s.attendance.Today(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.work.MyTasks(ctx, employeeID, workboard.TaskFilter{})
	if err != nil {
		return nil, err
	}
	projects, err := s.work.MyProjects(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	pending := utils.Count(tasks, func(t model.Task) bool {
		return t.Status == model.TaskPending || t.Status == model.TaskTodo || t.Status == model.TaskInProgress
	})
	status := day.LastAction
	if status == "" {
		status = "Not Checked In"
	}
	return &EmployeeDashboard{
		TodayCheckIns:  day.CheckIns,
		TodayCheckOuts: day.CheckOuts,
		CurrentStatus:  status,
		NextAction:     day.NextAction,
		TasksCompleted: utils.Count(tasks, func(t model.Task) bool { return t.Status == model.TaskCompleted }),
		TasksPending:   pending,
		Projects:       len(projects),
		UrgentTasks:    s.work.Urgent(tasks),
		MyProjects:     head(projects, 3),
		TodayRecords:   day.Records,
	}, nil
}
