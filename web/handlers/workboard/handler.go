package workboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/model"
	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
	"staffhub.io/staffhub/workboard"
)

type Endpoint struct {
	work *workboard.Service
}

func Register(r *gin.RouterGroup, work *workboard.Service) {
	endpoint := &Endpoint{work: work}
	admin := middlewares.RequireRole(model.RoleAdmin)

	r.GET("/tasks", admin, endpoint.ListTasks)
	r.POST("/tasks", admin, endpoint.CreateTask)
	r.GET("/tasks/me", endpoint.MyTasks)
	r.GET("/tasks/overdue", admin, endpoint.OverdueTasks)
	r.GET("/tasks/:id", endpoint.GetTask)
	r.PUT("/tasks/:id", admin, endpoint.UpdateTask)
	r.DELETE("/tasks/:id", admin, endpoint.DeleteTask)
	r.PUT("/tasks/:id/status", endpoint.SetTaskStatus)
	r.POST("/tasks/:id/time", endpoint.LogTime)

	r.GET("/projects", admin, endpoint.ListProjects)
	r.POST("/projects", admin, endpoint.CreateProject)
	r.GET("/projects/me", endpoint.MyProjects)
	r.GET("/projects/:id", endpoint.GetProject)
	r.PUT("/projects/:id", admin, endpoint.UpdateProject)
	r.DELETE("/projects/:id", admin, endpoint.DeleteProject)
	r.GET("/projects/:id/board", endpoint.Board)
	r.POST("/projects/:id/tasks", admin, endpoint.AddProjectTask)

	r.GET("/project-tasks", admin, endpoint.ProjectTasks)
	r.GET("/project-tasks/me", endpoint.MyProjectTasks)
	r.PUT("/project-tasks/:id/status", endpoint.MoveProjectTask)
	r.DELETE("/project-tasks/:id", admin, endpoint.DeleteProjectTask)

	r.GET("/work/stats", admin, endpoint.Stats)
}

func status(err error) int {
	switch {
	case errors.Is(err, workboard.ErrTaskNotFound), errors.Is(err, workboard.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, workboard.ErrNotAssignee):
		return http.StatusForbidden
	case errors.Is(err, workboard.ErrMissingName), errors.Is(err, workboard.ErrInvalidStatus),
		errors.Is(err, workboard.ErrInvalidLane), errors.Is(err, workboard.ErrInvalidPriority),
		errors.Is(err, workboard.ErrInvalidDate), errors.Is(err, workboard.ErrInvalidRange),
		errors.Is(err, workboard.ErrInvalidHours):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// actor is empty for admins, who may change any task; employees are limited to their own.
func actor(c *gin.Context) string {
	identity := middlewares.CurrentIdentity(c)
	if identity.Role == model.RoleAdmin {
		return ""
	}
	return identity.ID
}

type StatusDTO struct {
	Status string `json:"status" binding:"required"`
}

type StatsDTO struct {
	Counts         workboard.StatusCounts `json:"counts"`
	CompletionRate int                    `json:"completionRate"`
	Overdue        []workboard.WorkItem   `json:"overdue"`
}

func (ep *Endpoint) Stats(c *gin.Context) {
	items, err := ep.work.AllWork(c.Request.Context())
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	counts := workboard.Summarize(workboard.Statuses(items))
	c.JSON(http.StatusOK, web.NewSuccessResponse(StatsDTO{
		Counts:         counts,
		CompletionRate: counts.CompletionRate(),
		Overdue:        ep.work.OverdueWork(items),
	}))
}
