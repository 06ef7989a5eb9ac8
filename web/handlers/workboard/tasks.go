package workboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
	"staffhub.io/staffhub/workboard"
)

type TaskDTO struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	AssigneeID     string  `json:"assigneeId"`
	Priority       string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	StartDate      string  `json:"startDate"`
	Deadline       string  `json:"deadline"`
	Status         string  `json:"status"`
	EstimatedHours float64 `json:"estimatedHours" binding:"gte=0"`
}

func (dto TaskDTO) input() workboard.TaskInput {
	return workboard.TaskInput{
		Name:           dto.Name,
		Description:    dto.Description,
		AssigneeID:     dto.AssigneeID,
		Priority:       dto.Priority,
		StartDate:      dto.StartDate,
		Deadline:       dto.Deadline,
		Status:         dto.Status,
		EstimatedHours: dto.EstimatedHours,
	}
}

type TimeLogDTO struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Notes string  `json:"notes"`
}

func filter(c *gin.Context) workboard.TaskFilter {
	return workboard.TaskFilter{
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		AssigneeID: c.Query("assigneeId"),
		Query:      c.Query("q"),
	}
}

func (ep *Endpoint) ListTasks(c *gin.Context) {
	tasks, err := ep.work.ListTasks(c.Request.Context(), filter(c))
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(tasks, int64(len(tasks))))
}

func (ep *Endpoint) MyTasks(c *gin.Context) {
	tasks, err := ep.work.MyTasks(c.Request.Context(), middlewares.CurrentIdentity(c).ID, filter(c))
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(tasks, int64(len(tasks))))
}

func (ep *Endpoint) OverdueTasks(c *gin.Context) {
	tasks, err := ep.work.ListTasks(c.Request.Context(), workboard.TaskFilter{})
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	overdue := ep.work.OverdueTasks(tasks)
	c.JSON(http.StatusOK, web.NewSearchResponse(overdue, int64(len(overdue))))
}

func (ep *Endpoint) GetTask(c *gin.Context) {
	task, err := ep.work.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	if id := actor(c); id != "" && task.AssigneeID != id {
		web.Fail(c, http.StatusForbidden, workboard.ErrNotAssignee)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(task))
}

func (ep *Endpoint) CreateTask(c *gin.Context) {
	var dto TaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	task, err := ep.work.CreateTask(c.Request.Context(), dto.input())
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusCreated, web.NewSuccessResponse(task))
}

func (ep *Endpoint) UpdateTask(c *gin.Context) {
	var dto TaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	task, err := ep.work.UpdateTask(c.Request.Context(), c.Param("id"), dto.input())
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(task))
}

func (ep *Endpoint) DeleteTask(c *gin.Context) {
	if err := ep.work.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}

func (ep *Endpoint) SetTaskStatus(c *gin.Context) {
	var dto StatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	task, err := ep.work.SetTaskStatus(c.Request.Context(), c.Param("id"), dto.Status, actor(c))
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(task))
}

func (ep *Endpoint) LogTime(c *gin.Context) {
	var dto TimeLogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	task, err := ep.work.LogTime(c.Request.Context(), c.Param("id"), actor(c), workboard.TimeLogInput{
		Date:  dto.Date,
		Hours: dto.Hours,
		Notes: dto.Notes,
	})
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(task))
}
