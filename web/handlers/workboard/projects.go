package workboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/model"
	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
	"staffhub.io/staffhub/workboard"
)

type ProjectDTO struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	TeamMembers []string `json:"teamMembers"`
	Status      string   `json:"status"`
}

func (dto ProjectDTO) input() workboard.ProjectInput {
	return workboard.ProjectInput{
		Name:        dto.Name,
		Description: dto.Description,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		TeamMembers: dto.TeamMembers,
		Status:      dto.Status,
	}
}

type ProjectTaskDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	AssigneeID  string `json:"assigneeId"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate"`
}

func (ep *Endpoint) ListProjects(c *gin.Context) {
	projects, err := ep.work.ListProjects(c.Request.Context())
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(projects, int64(len(projects))))
}

func (ep *Endpoint) MyProjects(c *gin.Context) {
	projects, err := ep.work.MyProjects(c.Request.Context(), middlewares.CurrentIdentity(c).ID)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(projects, int64(len(projects))))
}

// project loads the project for admins and team members only.
func (ep *Endpoint) project(c *gin.Context, id string) (*model.Project, bool) {
	project, err := ep.work.GetProject(c.Request.Context(), id)
	if err != nil {
		web.Fail(c, status(err), err)
		return nil, false
	}
	if employeeID := actor(c); employeeID != "" && !project.HasMember(employeeID) {
		c.JSON(http.StatusForbidden, web.NewErrorResponse("You are not a member of this project"))
		return nil, false
	}
	return project, true
}

func (ep *Endpoint) GetProject(c *gin.Context) {
	project, ok := ep.project(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(project))
}

func (ep *Endpoint) Board(c *gin.Context) {
	id := c.Param("id")
	if _, ok := ep.project(c, id); !ok {
		return
	}
	board, err := ep.work.Board(c.Request.Context(), id)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(board))
}

func (ep *Endpoint) CreateProject(c *gin.Context) {
	var dto ProjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	project, err := ep.work.CreateProject(c.Request.Context(), dto.input())
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusCreated, web.NewSuccessResponse(project))
}

func (ep *Endpoint) UpdateProject(c *gin.Context) {
	var dto ProjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	project, err := ep.work.UpdateProject(c.Request.Context(), c.Param("id"), dto.input())
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(project))
}

func (ep *Endpoint) DeleteProject(c *gin.Context) {
	if err := ep.work.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}

func (ep *Endpoint) AddProjectTask(c *gin.Context) {
	var dto ProjectTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	task, err := ep.work.AddProjectTask(c.Request.Context(), c.Param("id"), workboard.ProjectTaskInput{
		Name:        dto.Name,
		Description: dto.Description,
		AssigneeID:  dto.AssigneeID,
		Priority:    dto.Priority,
		DueDate:     dto.DueDate,
	})
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusCreated, web.NewSuccessResponse(task))
}

func (ep *Endpoint) ProjectTasks(c *gin.Context) {
	tasks, err := ep.work.ProjectTasks(c.Request.Context(), c.Query("projectId"))
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(tasks, int64(len(tasks))))
}

func (ep *Endpoint) MyProjectTasks(c *gin.Context) {
	tasks, err := ep.work.MyProjectTasks(c.Request.Context(), middlewares.CurrentIdentity(c).ID)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(tasks, int64(len(tasks))))
}

// MoveProjectTask handles a drop of a card into a board lane.
func (ep *Endpoint) MoveProjectTask(c *gin.Context) {
	var dto StatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	task, err := ep.work.MoveProjectTask(c.Request.Context(), c.Param("id"), dto.Status, actor(c))
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(task))
}

func (ep *Endpoint) DeleteProjectTask(c *gin.Context) {
	if err := ep.work.DeleteProjectTask(c.Request.Context(), c.Param("id")); err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}
