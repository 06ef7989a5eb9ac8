package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/report"
	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
)

type Endpoint struct {
	reports *report.Service
}

func Register(r *gin.RouterGroup, reports *report.Service) {
	endpoint := &Endpoint{reports: reports}
	admin := middlewares.RequireRole(model.RoleAdmin)

	r.GET("/reports/absentees", admin, endpoint.Absentees)
	r.GET("/reports/absentees/export", admin, endpoint.ExportAbsentees)
	r.GET("/reports/attendance-summary", admin, endpoint.AttendanceSummary)
	r.GET("/reports/attendance-summary/export", admin, endpoint.ExportAttendanceSummary)
	r.GET("/reports/departments", admin, endpoint.Departments)
	r.GET("/reports/departments/export", admin, endpoint.ExportDepartments)

	r.GET("/dashboard/admin", admin, endpoint.AdminDashboard)
	r.GET("/dashboard/me", endpoint.EmployeeDashboard)
}

func (ep *Endpoint) Absentees(c *gin.Context) {
	absent, err := ep.reports.Absentees(c.Request.Context())
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(absent, int64(len(absent))))
}

func (ep *Endpoint) ExportAbsentees(c *gin.Context) {
	absent, err := ep.reports.Absentees(c.Request.Context())
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	web.WriteTable(c, report.AbsenteeTable(absent), ep.reports.Now())
}

func (ep *Endpoint) AttendanceSummary(c *gin.Context) {
	rows, err := ep.reports.AttendanceSummary(c.Request.Context())
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(rows))
}

func (ep *Endpoint) ExportAttendanceSummary(c *gin.Context) {
	rows, err := ep.reports.AttendanceSummary(c.Request.Context())
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	web.WriteTable(c, report.AttendanceSummaryTable(rows), ep.reports.Now())
}

func (ep *Endpoint) Departments(c *gin.Context) {
	rows, err := ep.reports.Departments(c.Request.Context())
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(rows))
}

func (ep *Endpoint) ExportDepartments(c *gin.Context) {
	rows, err := ep.reports.Departments(c.Request.Context())
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	web.WriteTable(c, report.DepartmentTable(rows), ep.reports.Now())
}

func (ep *Endpoint) AdminDashboard(c *gin.Context) {
	d, err := ep.reports.AdminDashboard(c.Request.Context())
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(d))
}

func (ep *Endpoint) EmployeeDashboard(c *gin.Context) {
	d, err := ep.reports.EmployeeDashboard(c.Request.Context(), middlewares.CurrentIdentity(c).ID)
	if err != nil {
		web.Fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(d))
}
