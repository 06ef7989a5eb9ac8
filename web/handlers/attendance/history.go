package attendance

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/report"
	web "staffhub.io/staffhub/web/common"
	"staffhub.io/staffhub/web/middlewares"
)

// subject is the :id path parameter on admin routes, otherwise the caller.
func subject(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return middlewares.CurrentIdentity(c).ID
}

// stamp dates an export after the requested day, or today.
func (ep *Endpoint) stamp(day *time.Time) time.Time {
	if day != nil {
		return *day
	}
	return time.Now().In(ep.attendance.Location())
}

func (ep *Endpoint) Today(c *gin.Context) {
	summary, err := ep.attendance.Today(c.Request.Context(), middlewares.CurrentIdentity(c).ID)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(summary))
}

func (ep *Endpoint) History(c *gin.Context) {
	day, err := web.QueryDate(c.Query("date"), ep.attendance.Location())
	if err != nil {
		web.Fail(c, http.StatusBadRequest, err)
		return
	}

	records, err := ep.attendance.History(c.Request.Context(), subject(c), day)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(records, int64(len(records))))
}

func (ep *Endpoint) List(c *gin.Context) {
	day, err := web.QueryDate(c.Query("date"), ep.attendance.Location())
	if err != nil {
		web.Fail(c, http.StatusBadRequest, err)
		return
	}

	records, err := ep.attendance.List(c.Request.Context(), day)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(records, int64(len(records))))
}

func (ep *Endpoint) Export(c *gin.Context) {
	loc := ep.attendance.Location()
	day, err := web.QueryDate(c.Query("date"), loc)
	if err != nil {
		web.Fail(c, http.StatusBadRequest, err)
		return
	}

	records, err := ep.attendance.List(c.Request.Context(), day)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	web.WriteTable(c, report.AttendanceTable("attendance", records, loc), ep.stamp(day))
}

func (ep *Endpoint) ExportHistory(c *gin.Context) {
	loc := ep.attendance.Location()
	day, err := web.QueryDate(c.Query("date"), loc)
	if err != nil {
		web.Fail(c, http.StatusBadRequest, err)
		return
	}

	id := subject(c)
	records, err := ep.attendance.History(c.Request.Context(), id, day)
	if err != nil {
		web.Fail(c, status(err), err)
		return
	}
	web.WriteTable(c, report.AttendanceTable("attendance_"+id, records, loc), ep.stamp(day))
}
