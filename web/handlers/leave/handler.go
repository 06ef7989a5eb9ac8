package leave

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/leave"
	"staffhub.io/staffhub/model"
	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
)

type Leaves interface {
	Submit(ctx context.Context, employeeID string, in leave.Request) (*model.LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]model.LeaveRequest, error)
	ListGrouped(ctx context.Context) (*leave.Grouped, error)
	Decide(ctx context.Context, id string, status string) (*model.LeaveRequest, error)
}

type Endpoint struct {
	leaves Leaves
}

func Register(r *gin.RouterGroup, leaves Leaves) {
	endpoint := &Endpoint{leaves: leaves}
	admin := middlewares.RequireRole(model.RoleAdmin)

	r.POST("/leaves", endpoint.Submit)
	r.GET("/leaves/me", endpoint.Mine)
	r.GET("/leaves", admin, endpoint.List)
	r.GET("/leaves/employees/:id", admin, endpoint.ListByEmployee)
	r.PUT("/leaves/:id/status", admin, endpoint.Decide)
}

type LeaveDTO struct {
	Type     string       `json:"type"`
	FromDate web.DateOnly `json:"fromDate"`
	ToDate   web.DateOnly `json:"toDate"`
	Reason   string       `json:"reason"`
}

type DecisionDTO struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

func status(err error) int {
	switch {
	case errors.Is(err, leave.ErrNotFound), errors.Is(err, leave.ErrEmployeeNotFound):
		return http.StatusNotFound
	case errors.Is(err, leave.ErrAlreadyDecided):
		return http.StatusConflict
	case errors.Is(err, leave.ErrMissingFields), errors.Is(err, leave.ErrInvalidRange), errors.Is(err, leave.ErrInvalidDecision):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (ep *Endpoint) Submit(c *gin.Context) {
	var dto LeaveDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	identity := middlewares.CurrentIdentity(c)
	req, err := ep.leaves.Submit(c.Request.Context(), identity.ID, leave.Request{
		Type:     dto.Type,
		FromDate: dto.FromDate.Time,
		ToDate:   dto.ToDate.Time,
		Reason:   dto.Reason,
	})
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusCreated, web.NewSuccessResponse(req))
}

func (ep *Endpoint) Mine(c *gin.Context) {
	ep.list(c, middlewares.CurrentIdentity(c).ID)
}

func (ep *Endpoint) ListByEmployee(c *gin.Context) {
	ep.list(c, c.Param("id"))
}

func (ep *Endpoint) list(c *gin.Context, employeeID string) {
	requests, err := ep.leaves.ListByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(requests, int64(len(requests))))
}

func (ep *Endpoint) List(c *gin.Context) {
	grouped, err := ep.leaves.ListGrouped(c.Request.Context())
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(grouped))
}

func (ep *Endpoint) Decide(c *gin.Context) {
	var dto DecisionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	req, err := ep.leaves.Decide(c.Request.Context(), c.Param("id"), dto.Status)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(req))
}
