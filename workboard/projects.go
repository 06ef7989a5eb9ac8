package workboard

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/utils"
)

type ProjectInput struct {
	Name        string
	Description string
	StartDate   string
	EndDate     string
	TeamMembers []string
	Status      string
}

type ProjectTaskInput struct {
	Name        string
	Description string
	AssigneeID  string
	Priority    string
	DueDate     string
}

// ProjectView is a project with the progress of its tasks.
type ProjectView struct {
	model.Project
	TaskCount      int `json:"taskCount"`
	CompletedCount int `json:"completedCount"`
	Progress       int `json:"progress"`
}

type Lane struct {
	Status string              `json:"status"`
	Tasks  []model.ProjectTask `json:"tasks"`
}

type BoardView struct {
	Project  model.Project `json:"project"`
	Lanes    []Lane        `json:"lanes"`
	Progress int           `json:"progress"`
}

// Progress is the rounded percentage of completed tasks, 0 when there are none.
func Progress(tasks []model.ProjectTask) int {
	if len(tasks) == 0 {
		return 0
	}
	done := utils.Count(tasks, func(t model.ProjectTask) bool { return t.Status == model.TaskCompleted })
	return int(math.Round(float64(done) / float64(len(tasks)) * 100))
}

func newView(p model.Project, all []model.ProjectTask) ProjectView {
	tasks := utils.Filter(all, func(t model.ProjectTask) bool { return t.ProjectID == p.ID })
	return ProjectView{
		Project:        p,
		TaskCount:      len(tasks),
		CompletedCount: utils.Count(tasks, func(t model.ProjectTask) bool { return t.Status == model.TaskCompleted }),
		Progress:       Progress(tasks),
	}
}

func (s *Service) normalizeProject(in *ProjectInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return ErrMissingName
	}
	if in.Status == "" {
		in.Status = model.ProjectPlanning
	}
	if !model.ValidProjectStatus(in.Status) {
		return ErrInvalidStatus
	}
	if in.TeamMembers == nil {
		in.TeamMembers = []string{}
	}
	return s.checkDates(in.StartDate, in.EndDate)
}

func (s *Service) ListProjects(ctx context.Context) ([]ProjectView, error) {
	projects, err := s.projects.Load(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.projectTasks.Load(ctx)
	if err != nil {
		return nil, err
	}
	return utils.Map(projects, func(p model.Project) ProjectView { return newView(p, tasks) }), nil
}

// MyProjects lists the projects employeeID is a team member of.
func (s *Service) MyProjects(ctx context.Context, employeeID string) ([]ProjectView, error) {
	views, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return utils.Filter(views, func(v ProjectView) bool { return v.HasMember(employeeID) }), nil
}

func (s *Service) GetProject(ctx context.Context, id string) (*model.Project, error) {
	projects, err := s.projects.Load(ctx)
	if err != nil {
		return nil, err
	}
	p := utils.Find(projects, func(p model.Project) bool { return p.ID == id })
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return p, nil
}

func (s *Service) CreateProject(ctx context.Context, in ProjectInput) (*model.Project, error) {
	if err := s.normalizeProject(&in); err != nil {
		return nil, err
	}
	project := model.Project{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		TeamMembers: in.TeamMembers,
		Status:      in.Status,
		CreatedDate: s.Now(),
	}
	err := s.projects.Update(ctx, func(projects []model.Project) ([]model.Project, error) {
		return append(projects, project), nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Service) UpdateProject(ctx context.Context, id string, in ProjectInput) (*model.Project, error) {
	if err := s.normalizeProject(&in); err != nil {
		return nil, err
	}
	var updated model.Project
	err := s.projects.Update(ctx, func(projects []model.Project) ([]model.Project, error) {
		p := utils.Find(projects, func(p model.Project) bool { return p.ID == id })
		if p == nil {
			return nil, ErrProjectNotFound
		}
		p.Name = in.Name
		p.Description = in.Description
		p.StartDate = in.StartDate
		p.EndDate = in.EndDate
		p.TeamMembers = in.TeamMembers
		p.Status = in.Status
		updated = *p
		return projects, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProject removes the project and every task on its board.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	err := s.projects.Update(ctx, func(projects []model.Project) ([]model.Project, error) {
		kept, removed := utils.Remove(projects, func(p model.Project) bool { return p.ID == id })
		if removed == 0 {
			return nil, ErrProjectNotFound
		}
		return kept, nil
	})
	if err != nil {
		return err
	}
	return s.projectTasks.Update(ctx, func(tasks []model.ProjectTask) ([]model.ProjectTask, error) {
		kept, _ := utils.Remove(tasks, func(t model.ProjectTask) bool { return t.ProjectID == id })
		return kept, nil
	})
}

func (s *Service) AddProjectTask(ctx context.Context, projectID string, in ProjectTaskInput) (*model.ProjectTask, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrMissingName
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(in.Priority) {
		return nil, ErrInvalidPriority
	}
	if err := s.checkDates(in.DueDate, ""); err != nil {
		return nil, err
	}

	task := model.ProjectTask{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Name:        in.Name,
		Description: in.Description,
		AssigneeID:  in.AssigneeID,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Status:      model.TaskTodo,
		CreatedDate: s.Now(),
	}
	err := s.projectTasks.Update(ctx, func(tasks []model.ProjectTask) ([]model.ProjectTask, error) {
		return append(tasks, task), nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *Service) DeleteProjectTask(ctx context.Context, id string) error {
	return s.projectTasks.Update(ctx, func(tasks []model.ProjectTask) ([]model.ProjectTask, error) {
		kept, removed := utils.Remove(tasks, func(t model.ProjectTask) bool { return t.ID == id })
		if removed == 0 {
			return nil, ErrTaskNotFound
		}
		return kept, nil
	})
}

// MoveProjectTask drops a task into a board lane. Only that task changes.
// A non-empty actorID restricts the move to tasks assigned to that employee.
func (s *Service) MoveProjectTask(ctx context.Context, id, lane, actorID string) (*model.ProjectTask, error) {
	if !model.ValidLane(lane) {
		return nil, ErrInvalidLane
	}
	var moved model.ProjectTask
	err := s.projectTasks.Update(ctx, func(tasks []model.ProjectTask) ([]model.ProjectTask, error) {
		task := utils.Find(tasks, func(t model.ProjectTask) bool { return t.ID == id })
		if task == nil {
			return nil, ErrTaskNotFound
		}
		if actorID != "" && task.AssigneeID != actorID {
			return nil, ErrNotAssignee
		}
		now := s.Now()
		task.UpdatedDate = &now
		setStatus(&task.Status, &task.CompletedDate, lane, now)
		moved = *task
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

func (s *Service) ProjectTasks(ctx context.Context, projectID string) ([]model.ProjectTask, error) {
	tasks, err := s.projectTasks.Load(ctx)
	if err != nil {
		return nil, err
	}
	if projectID == "" {
		return tasks, nil
	}
	return utils.Filter(tasks, func(t model.ProjectTask) bool { return t.ProjectID == projectID }), nil
}

func (s *Service) MyProjectTasks(ctx context.Context, employeeID string) ([]model.ProjectTask, error) {
	tasks, err := s.projectTasks.Load(ctx)
	if err != nil {
		return nil, err
	}
	return utils.Filter(tasks, func(t model.ProjectTask) bool { return t.AssigneeID == employeeID }), nil
}

// Board lays out a project's tasks in the four kanban lanes.
func (s *Service) Board(ctx context.Context, projectID string) (*BoardView, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.ProjectTasks(ctx, projectID)
	if err != nil {
		return nil, err
	}

	byStatus := utils.GroupBy(tasks, func(t model.ProjectTask) string { return t.Status })
	lanes := make([]Lane, 0, len(model.Lanes))
	for _, status := range model.Lanes {
		laneTasks := byStatus[status]
		if laneTasks == nil {
			laneTasks = []model.ProjectTask{}
		}
		lanes = append(lanes, Lane{Status: status, Tasks: laneTasks})
	}
	return &BoardView{Project: *project, Lanes: lanes, Progress: Progress(tasks)}, nil
}
