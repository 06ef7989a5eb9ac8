package attendance

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/attendance"
	"staffhub.io/staffhub/face"
	"staffhub.io/staffhub/model"
	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
)

type Attendance interface {
	Location() *time.Location
	Issue(ctx context.Context, employeeID string) (*model.ActiveCode, error)
	ActiveCodes(ctx context.Context) ([]attendance.CodeStatus, error)
	Remaining(ctx context.Context, employeeID string) (*attendance.CodeStatus, error)
	Verify(ctx context.Context, employeeID string, code string) (*attendance.DaySummary, error)
	Submit(ctx context.Context, employeeID string, code string, action string) (*model.AttendanceRecord, error)
	RecordFace(ctx context.Context, employeeID string, action string, confidence float64) (*model.AttendanceRecord, error)
	Today(ctx context.Context, employeeID string) (*attendance.DaySummary, error)
	History(ctx context.Context, employeeID string, day *time.Time) ([]model.AttendanceRecord, error)
	List(ctx context.Context, day *time.Time) ([]model.AttendanceRecord, error)
}

type Recognizer interface {
	Recognize(ctx context.Context, probe *face.Probe, expectedID string) (*face.Match, error)
	Watch(ctx context.Context, frames face.FrameSource, expectedID string, onAttempt func(error)) (*face.Match, error)
}

type Endpoint struct {
	attendance Attendance
	recognizer Recognizer
}

func Register(r *gin.RouterGroup, a Attendance, recognizer Recognizer) {
	endpoint := &Endpoint{attendance: a, recognizer: recognizer}
	admin := middlewares.RequireRole(model.RoleAdmin)

	r.POST("/attendance/codes", admin, endpoint.Issue)
	r.GET("/attendance/codes", admin, endpoint.ActiveCodes)
	r.GET("/attendance/codes/me", endpoint.Remaining)
	r.POST("/attendance/verify", endpoint.Verify)
	r.POST("/attendance", endpoint.Submit)

	r.GET("/attendance", admin, endpoint.List)
	r.GET("/attendance/export", admin, endpoint.Export)
	r.GET("/attendance/today", endpoint.Today)
	r.GET("/attendance/history", endpoint.History)
	r.GET("/attendance/history/export", endpoint.ExportHistory)
	r.GET("/attendance/employees/:id/history", admin, endpoint.History)
	r.GET("/attendance/employees/:id/history/export", admin, endpoint.ExportHistory)

	r.POST("/attendance/face", endpoint.RecognizeFace)
	r.GET("/attendance/face/stream", endpoint.Stream)
}

type IssueDTO struct {
	EmployeeID string `json:"employeeId" binding:"required"`
}

type CodeDTO struct {
	Code string `json:"code"`
}

type SubmitDTO struct {
	Code   string `json:"code"`
	Action string `json:"action"`
}

func status(err error) int {
	switch {
	case errors.Is(err, attendance.ErrInvalidFormat), errors.Is(err, attendance.ErrCodeMismatch),
		errors.Is(err, attendance.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, attendance.ErrNoActiveCode), errors.Is(err, attendance.ErrEmployeeNotFound),
		errors.Is(err, face.ErrNotRegistered), errors.Is(err, face.ErrGalleryEmpty):
		return http.StatusNotFound
	case errors.Is(err, attendance.ErrCodeUsed):
		return http.StatusConflict
	case errors.Is(err, attendance.ErrCodeExpired):
		return http.StatusGone
	case errors.Is(err, face.ErrNoFace), errors.Is(err, face.ErrMismatch), errors.Is(err, face.ErrNotRecognized),
		errors.Is(err, face.ErrWrongEmployee), errors.Is(err, face.ErrLowConfidence):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (ep *Endpoint) Issue(c *gin.Context) {
	var dto IssueDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	code, err := ep.attendance.Issue(c.Request.Context(), dto.EmployeeID)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusCreated, web.NewSuccessResponse(code))
}

func (ep *Endpoint) ActiveCodes(c *gin.Context) {
	codes, err := ep.attendance.ActiveCodes(c.Request.Context())
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(codes))
}

// Remaining shows the caller the countdown of their own code, never the code itself.
func (ep *Endpoint) Remaining(c *gin.Context) {
	identity := middlewares.CurrentIdentity(c)
	st, err := ep.attendance.Remaining(c.Request.Context(), identity.ID)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(gin.H{
		"expiresAt":        st.ExpiresAt,
		"remainingSeconds": st.RemainingSeconds,
	}))
}

func (ep *Endpoint) Verify(c *gin.Context) {
	var dto CodeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	identity := middlewares.CurrentIdentity(c)
	summary, err := ep.attendance.Verify(c.Request.Context(), identity.ID, dto.Code)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(summary))
}

func (ep *Endpoint) Submit(c *gin.Context) {
	var dto SubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	identity := middlewares.CurrentIdentity(c)
	rec, err := ep.attendance.Submit(c.Request.Context(), identity.ID, dto.Code, dto.Action)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusCreated, web.NewSuccessResponse(rec))
}
