package employee

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/face"
	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/staff"
	"staffhub.io/staffhub/utils"
	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
)

type Staff interface {
	Get(ctx context.Context, id string) (*model.Employee, error)
	Search(ctx context.Context, query string, role string) ([]model.Employee, error)
	Create(ctx context.Context, in staff.EmployeeInput) (*model.Employee, error)
	Update(ctx context.Context, id string, in staff.EmployeeUpdate) (*model.Employee, error)
	Delete(ctx context.Context, id string, actorID string) error
	RegisterFace(ctx context.Context, employeeID string, in staff.FaceInput) (*model.FaceDescriptor, error)
	Face(ctx context.Context, employeeID string) (*model.FaceDescriptor, error)
	WriteFaceImage(ctx context.Context, employeeID string, w io.Writer) (string, error)
}

type Endpoint struct {
	staff Staff
}

func Register(r *gin.RouterGroup, s Staff) {
	endpoint := &Endpoint{staff: s}
	admin := middlewares.RequireRole(model.RoleAdmin)

	r.GET("/employees", admin, endpoint.Search)
	r.POST("/employees", admin, endpoint.Create)
	r.GET("/employees/:id", endpoint.Get)
	r.PUT("/employees/:id", admin, endpoint.Update)
	r.DELETE("/employees/:id", admin, endpoint.Delete)

	r.GET("/employees/:id/face", admin, endpoint.GetFace)
	r.POST("/employees/:id/face", admin, endpoint.RegisterFace)
	r.POST("/employees/:id/face/upload", admin, endpoint.UploadFace)
	r.GET("/employees/:id/face/image", endpoint.FaceImage)
}

type FaceDTO struct {
	Descriptor []float64 `json:"descriptor" binding:"required"`
	Score      float64   `json:"score"`
	Image      string    `json:"image"`
}

func (f FaceDTO) input() staff.FaceInput {
	return staff.FaceInput{Descriptor: f.Descriptor, Score: f.Score, Image: f.Image}
}

type EmployeeDTO struct {
	ID         string        `json:"id" binding:"required"`
	Name       string        `json:"name" binding:"required"`
	Email      string        `json:"email" binding:"required,email"`
	Phone      string        `json:"phone"`
	Department string        `json:"department" binding:"required"`
	Position   string        `json:"position" binding:"required"`
	Salary     *float64      `json:"salary" binding:"required,gte=0"`
	Role       string        `json:"role" binding:"omitempty,oneof=admin employee"`
	JoinDate   *web.DateOnly `json:"joinDate"`
	Face       *FaceDTO      `json:"face"`
}

type EmployeeUpdateDTO struct {
	Name       string   `json:"name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Phone      string   `json:"phone"`
	Department string   `json:"department" binding:"required"`
	Position   string   `json:"position" binding:"required"`
	Salary     *float64 `json:"salary" binding:"required,gte=0"`
}

type CreatedDTO struct {
	Employee *model.Employee       `json:"employee"`
	Face     *model.FaceDescriptor `json:"face,omitempty"`
	Warning  string                `json:"warning,omitempty"`
}

var errJoinDate = errors.New("joinDate is required")

func status(err error) int {
	switch {
	case errors.Is(err, staff.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, staff.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, staff.ErrDeleteSelf), errors.Is(err, staff.ErrDefaultAdminLock):
		return http.StatusForbidden
	case errors.Is(err, staff.ErrInvalidRole), errors.Is(err, staff.ErrInvalidImage),
		errors.Is(err, face.ErrBadDescriptor), errors.Is(err, face.ErrLowQualityImage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// canView lets employees read only their own record.
func canView(c *gin.Context, id string) bool {
	identity := middlewares.CurrentIdentity(c)
	return identity != nil && (identity.Role == model.RoleAdmin || identity.ID == id)
}

func (ep *Endpoint) Search(c *gin.Context) {
	employees, err := ep.staff.Search(c.Request.Context(), c.Query("q"), c.Query("role"))
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(employees, int64(len(employees))))
}

func (ep *Endpoint) Get(c *gin.Context) {
	id := c.Param("id")
	if !canView(c, id) {
		c.JSON(http.StatusForbidden, web.NewErrorResponse("You don't have access to this resource"))
		return
	}
	emp, err := ep.staff.Get(c.Request.Context(), id)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(emp))
}

func (ep *Endpoint) Create(c *gin.Context) {
	var dto EmployeeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	if dto.JoinDate == nil || dto.JoinDate.IsZero() {
		web.Fail(c, http.StatusBadRequest, errJoinDate)
		return
	}

	joined := dto.JoinDate.Time
	ctx := c.Request.Context()
	emp, err := ep.staff.Create(ctx, staff.EmployeeInput{
		ID:         dto.ID,
		Name:       dto.Name,
		Email:      dto.Email,
		Phone:      dto.Phone,
		Department: dto.Department,
		Position:   dto.Position,
		Salary:     utils.Deref(dto.Salary),
		Role:       dto.Role,
		JoinDate:   &joined,
	})
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}

	res := CreatedDTO{Employee: emp}
	if dto.Face != nil {
		registered, err := ep.staff.RegisterFace(ctx, emp.ID, dto.Face.input())
		if err != nil {
			res.Warning = fmt.Sprintf("Employee added but face registration failed: %s", err.Error())
		}
		res.Face = registered
	}
	c.JSON(http.StatusCreated, web.NewSuccessResponse(res))
}

func (ep *Endpoint) Update(c *gin.Context) {
	var dto EmployeeUpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	emp, err := ep.staff.Update(c.Request.Context(), c.Param("id"), staff.EmployeeUpdate{
		Name:       dto.Name,
		Email:      dto.Email,
		Phone:      dto.Phone,
		Department: dto.Department,
		Position:   dto.Position,
		Salary:     utils.Deref(dto.Salary),
	})
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(emp))
}

func (ep *Endpoint) Delete(c *gin.Context) {
	actor := middlewares.CurrentIdentity(c)
	if err := ep.staff.Delete(c.Request.Context(), c.Param("id"), actor.ID); err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{}))
}

func (ep *Endpoint) GetFace(c *gin.Context) {
	record, err := ep.staff.Face(c.Request.Context(), c.Param("id"))
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	if record == nil {
		web.Fail(c, http.StatusNotFound, face.ErrNotRegistered)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(record))
}

func (ep *Endpoint) RegisterFace(c *gin.Context) {
	var dto FaceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}
	ep.registerFace(c, dto)
}

func (ep *Endpoint) registerFace(c *gin.Context, dto FaceDTO) {
	record, err := ep.staff.RegisterFace(c.Request.Context(), c.Param("id"), dto.input())
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(record))
}

func (ep *Endpoint) FaceImage(c *gin.Context) {
	id := c.Param("id")
	if !canView(c, id) {
		c.JSON(http.StatusForbidden, web.NewErrorResponse("You don't have access to this resource"))
		return
	}

	var buf bytes.Buffer
	contentType, err := ep.staff.WriteFaceImage(c.Request.Context(), id, &buf)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
