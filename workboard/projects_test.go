package workboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffhub.io/staffhub/model"
)

func seedProject(t *testing.T, svc *Service) (*model.Project, []*model.ProjectTask) {
	t.Helper()
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, ProjectInput{Name: "Website", TeamMembers: []string{"EMP001", "EMP002"}, Status: model.ProjectInProgress})
	require.NoError(t, err)

	var tasks []*model.ProjectTask
	for _, in := range []ProjectTaskInput{
		{Name: "Wireframes", AssigneeID: "EMP001"},
		{Name: "Copy", AssigneeID: "EMP002"},
		{Name: "Deploy", AssigneeID: "EMP001", DueDate: "2025-03-01"},
	} {
		task, err := svc.AddProjectTask(ctx, project.ID, in)
		require.NoError(t, err)
		tasks = append(tasks, task)
	}
	return project, tasks
}

func TestAddProjectTask(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	project, tasks := seedProject(t, svc)

	assert.Equal(t, model.TaskTodo, tasks[0].Status)
	assert.Equal(t, project.ID, tasks[0].ProjectID)

	_, err := svc.AddProjectTask(ctx, "missing", ProjectTaskInput{Name: "Orphan"})
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = svc.CreateProject(ctx, ProjectInput{Name: "Bad", StartDate: "2025-03-10", EndDate: "2025-03-01"})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestMoveChangesExactlyOneTask(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	project, tasks := seedProject(t, svc)

	before, err := svc.ProjectTasks(ctx, project.ID)
	require.NoError(t, err)

	moved, err := svc.MoveProjectTask(ctx, tasks[1].ID, model.TaskReview, "")
	require.NoError(t, err)
	assert.Equal(t, model.TaskReview, moved.Status)

	after, err := svc.ProjectTasks(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, after, len(before))

	changed := 0
	for i := range before {
		if before[i].ID != after[i].ID {
			t.Fatalf("task order changed at %d", i)
		}
		if before[i].Status != after[i].Status {
			changed++
			assert.Equal(t, tasks[1].ID, after[i].ID)
		}
	}
	assert.Equal(t, 1, changed)
}

func TestMoveValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, tasks := seedProject(t, svc)

	_, err := svc.MoveProjectTask(ctx, tasks[0].ID, model.TaskPending, "")
	assert.ErrorIs(t, err, ErrInvalidLane)

	_, err = svc.MoveProjectTask(ctx, tasks[0].ID, model.TaskCompleted, "EMP002")
	assert.ErrorIs(t, err, ErrNotAssignee)

	done, err := svc.MoveProjectTask(ctx, tasks[0].ID, model.TaskCompleted, "EMP001")
	require.NoError(t, err)
	assert.NotNil(t, done.CompletedDate)

	_, err = svc.MoveProjectTask(ctx, "missing", model.TaskReview, "")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestBoardAndProgress(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	project, tasks := seedProject(t, svc)

	_, err := svc.MoveProjectTask(ctx, tasks[0].ID, model.TaskCompleted, "")
	require.NoError(t, err)
	_, err = svc.MoveProjectTask(ctx, tasks[1].ID, model.TaskInProgress, "")
	require.NoError(t, err)

	board, err := svc.Board(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, board.Lanes, 4)
	wantSizes := []int{1, 1, 0, 1}
	for i, lane := range board.Lanes {
		assert.Equal(t, model.Lanes[i], lane.Status)
		assert.Len(t, lane.Tasks, wantSizes[i], lane.Status)
	}
	assert.NotNil(t, board.Lanes[2].Tasks)
	assert.Equal(t, 33, board.Progress)

	views, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 3, views[0].TaskCount)
	assert.Equal(t, 1, views[0].CompletedCount)

	assert.Equal(t, 0, Progress(nil))
}

func TestDeleteProjectCascades(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	project, _ := seedProject(t, svc)

	other, err := svc.CreateProject(ctx, ProjectInput{Name: "Intranet"})
	require.NoError(t, err)
	kept, err := svc.AddProjectTask(ctx, other.ID, ProjectTaskInput{Name: "Search"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(ctx, project.ID))
	assert.ErrorIs(t, svc.DeleteProject(ctx, project.ID), ErrProjectNotFound)

	remaining, err := svc.ProjectTasks(ctx, "")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}

func TestEmployeeViews(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	seedProject(t, svc)
	_, err := svc.CreateProject(ctx, ProjectInput{Name: "Solo", TeamMembers: []string{"EMP003"}})
	require.NoError(t, err)

	mine, err := svc.MyProjects(ctx, "EMP001")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Website", mine[0].Name)

	myTasks, err := svc.MyProjectTasks(ctx, "EMP001")
	require.NoError(t, err)
	assert.Len(t, myTasks, 2)
}

func TestSummarizePartitions(t *testing.T) {
	statuses := []string{
		model.TaskPending, model.TaskTodo, model.TaskInProgress,
		model.TaskReview, model.TaskCompleted, model.TaskCompleted,
	}
	c := Summarize(statuses)
	assert.Equal(t, StatusCounts{Pending: 2, InProgress: 1, Review: 1, Completed: 2, Total: 6}, c)
	assert.Equal(t, c.Total, c.Pending+c.InProgress+c.Review+c.Completed)
	assert.Equal(t, 33, c.CompletionRate())
	assert.Equal(t, 3, c.Open())

	assert.Equal(t, 0, Summarize(nil).CompletionRate())
}

func TestAllWork(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	seedProject(t, svc)
	_, err := svc.CreateTask(ctx, TaskInput{Name: "Standalone", Deadline: "2025-03-02"})
	require.NoError(t, err)

	items, err := svc.AllWork(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 4)

	c := Summarize(Statuses(items))
	assert.Equal(t, 4, c.Total)
	assert.Equal(t, 4, c.Pending)

	overdue := svc.OverdueWork(items)
	require.Len(t, overdue, 2)
}
