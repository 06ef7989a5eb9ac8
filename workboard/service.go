package workboard

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"staffhub.io/staffhub/kvstore"
	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/utils"
)

const (
	TasksKey        = "tasks"
	ProjectsKey     = "projects"
	ProjectTasksKey = "projectTasks"
)

// Service keeps tasks, projects and project tasks as three whole collections
// in the key/value store.
type Service struct {
	tasks        *kvstore.Collection[model.Task]
	projects     *kvstore.Collection[model.Project]
	projectTasks *kvstore.Collection[model.ProjectTask]
	loc          *time.Location
	Now          func() time.Time
}

func NewService(store kvstore.Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		tasks:        kvstore.NewCollection[model.Task](store, TasksKey),
		projects:     kvstore.NewCollection[model.Project](store, ProjectsKey),
		projectTasks: kvstore.NewCollection[model.ProjectTask](store, ProjectTasksKey),
		loc:          loc,
		Now:          time.Now,
	}
}

type TaskInput struct {
	Name           string
	Description    string
	AssigneeID     string
	Priority       string
	StartDate      string
	Deadline       string
	Status         string
	EstimatedHours float64
}

type TaskFilter struct {
	Status     string
	Priority   string
	AssigneeID string
	Query      string
}

func (f TaskFilter) match(t model.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.AssigneeID != "" && t.AssigneeID != f.AssigneeID {
		return false
	}
	return f.Query == "" || utils.ContainsFold(f.Query, t.Name, t.Description)
}

type TimeLogInput struct {
	Date  string
	Hours float64
	Notes string
}

func (s *Service) checkDates(from, to string) error {
	var start, end time.Time
	var err error
	if from != "" {
		if start, err = utils.ParseDate(from, s.loc); err != nil {
			return ErrInvalidDate
		}
	}
	if to != "" {
		if end, err = utils.ParseDate(to, s.loc); err != nil {
			return ErrInvalidDate
		}
	}
	if from != "" && to != "" && end.Before(start) {
		return ErrInvalidRange
	}
	return nil
}

func (s *Service) normalizeTask(in *TaskInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return ErrMissingName
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(in.Priority) {
		return ErrInvalidPriority
	}
	if in.Status == "" {
		in.Status = model.TaskPending
	}
	if !model.ValidTaskStatus(in.Status) {
		return ErrInvalidStatus
	}
	if in.EstimatedHours < 0 {
		return ErrInvalidHours
	}
	return s.checkDates(in.StartDate, in.Deadline)
}

// setStatus stamps completedDate on entering completed and clears it on leaving.
func setStatus(status *string, completed **time.Time, next string, now time.Time) {
	if next == model.TaskCompleted && *status != model.TaskCompleted {
		*completed = &now
	}
	if next != model.TaskCompleted {
		*completed = nil
	}
	*status = next
}

func (s *Service) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	tasks, err := s.tasks.Load(ctx)
	if err != nil {
		return nil, err
	}
	return utils.Filter(tasks, filter.match), nil
}

func (s *Service) GetTask(ctx context.Context, id string) (*model.Task, error) {
	tasks, err := s.tasks.Load(ctx)
	if err != nil {
		return nil, err
	}
	task := utils.Find(tasks, func(t model.Task) bool { return t.ID == id })
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *Service) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	if err := s.normalizeTask(&in); err != nil {
		return nil, err
	}

	now := s.Now()
	task := model.Task{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Description:    in.Description,
		AssigneeID:     in.AssigneeID,
		Priority:       in.Priority,
		StartDate:      in.StartDate,
		Deadline:       in.Deadline,
		EstimatedHours: in.EstimatedHours,
		TimeLogs:       []model.TimeLog{},
		CreatedDate:    now,
	}
	setStatus(&task.Status, &task.CompletedDate, in.Status, now)

	err := s.tasks.Update(ctx, func(tasks []model.Task) ([]model.Task, error) {
		return append(tasks, task), nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *Service) UpdateTask(ctx context.Context, id string, in TaskInput) (*model.Task, error) {
	if err := s.normalizeTask(&in); err != nil {
		return nil, err
	}

	var updated model.Task
	err := s.tasks.Update(ctx, func(tasks []model.Task) ([]model.Task, error) {
		task := utils.Find(tasks, func(t model.Task) bool { return t.ID == id })
		if task == nil {
			return nil, ErrTaskNotFound
		}
		now := s.Now()
		task.Name = in.Name
		task.Description = in.Description
		task.AssigneeID = in.AssigneeID
		task.Priority = in.Priority
		task.StartDate = in.StartDate
		task.Deadline = in.Deadline
		task.EstimatedHours = in.EstimatedHours
		task.UpdatedDate = &now
		setStatus(&task.Status, &task.CompletedDate, in.Status, now)
		updated = *task
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.tasks.Update(ctx, func(tasks []model.Task) ([]model.Task, error) {
		kept, removed := utils.Remove(tasks, func(t model.Task) bool { return t.ID == id })
		if removed == 0 {
			return nil, ErrTaskNotFound
		}
		return kept, nil
	})
}

// SetTaskStatus changes a task's status. A non-empty actorID restricts the
// change to tasks assigned to that employee.
func (s *Service) SetTaskStatus(ctx context.Context, id, status, actorID string) (*model.Task, error) {
	if !model.ValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}

	var updated model.Task
	err := s.tasks.Update(ctx, func(tasks []model.Task) ([]model.Task, error) {
		task := utils.Find(tasks, func(t model.Task) bool { return t.ID == id })
		if task == nil {
			return nil, ErrTaskNotFound
		}
		if actorID != "" && task.AssigneeID != actorID {
			return nil, ErrNotAssignee
		}
		now := s.Now()
		task.UpdatedDate = &now
		setStatus(&task.Status, &task.CompletedDate, status, now)
		updated = *task
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) LogTime(ctx context.Context, id, actorID string, in TimeLogInput) (*model.Task, error) {
	if in.Hours <= 0 {
		return nil, ErrInvalidHours
	}
	if in.Date == "" {
		in.Date = s.Now().In(s.loc).Format(utils.DateLayout)
	} else if _, err := utils.ParseDate(in.Date, s.loc); err != nil {
		return nil, ErrInvalidDate
	}

	var updated model.Task
	err := s.tasks.Update(ctx, func(tasks []model.Task) ([]model.Task, error) {
		task := utils.Find(tasks, func(t model.Task) bool { return t.ID == id })
		if task == nil {
			return nil, ErrTaskNotFound
		}
		if actorID != "" && task.AssigneeID != actorID {
			return nil, ErrNotAssignee
		}
		task.TimeLogs = append(task.TimeLogs, model.TimeLog{Date: in.Date, Hours: in.Hours, Notes: in.Notes})
		task.TimeSpent += in.Hours
		updated = *task
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// MyTasks returns the tasks assigned to employeeID, filtered further by filter.
func (s *Service) MyTasks(ctx context.Context, employeeID string, filter TaskFilter) ([]model.Task, error) {
	filter.AssigneeID = employeeID
	return s.ListTasks(ctx, filter)
}

// Overdue reports whether deadline is a day before today and the work is not completed.
func (s *Service) Overdue(status, deadline string) bool {
	if status == model.TaskCompleted || deadline == "" {
		return false
	}
	due, err := utils.ParseDate(deadline, s.loc)
	if err != nil {
		return false
	}
	today, _ := utils.DayBounds(s.Now(), s.loc)
	return due.Before(today)
}

func (s *Service) OverdueTasks(tasks []model.Task) []model.Task {
	return utils.Filter(tasks, func(t model.Task) bool { return s.Overdue(t.Status, t.Deadline) })
}

// Urgent returns up to five open tasks that are high priority or overdue.
func (s *Service) Urgent(tasks []model.Task) []model.Task {
	urgent := []model.Task{}
	for _, t := range tasks {
		if t.Status == model.TaskCompleted {
			continue
		}
		if t.Priority == model.PriorityHigh || s.Overdue(t.Status, t.Deadline) {
			urgent = append(urgent, t)
		}
		if len(urgent) == 5 {
			break
		}
	}
	return urgent
}
