package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffhub.io/staffhub/attendance"
	"staffhub.io/staffhub/kvstore"
	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/report"
	"staffhub.io/staffhub/security"
	"staffhub.io/staffhub/web/middlewares"
	"staffhub.io/staffhub/workboard"
)

var (
	secret = []byte("report handler secret")
	now    = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
)

type staffList []model.Employee

func (l staffList) List(_ context.Context, role string) ([]model.Employee, error) {
	out := []model.Employee{}
	for _, e := range l {
		if role == "" || e.Role == role {
			out = append(out, e)
		}
	}
	return out, nil
}

type attendanceLog []model.AttendanceRecord

func (a attendanceLog) List(_ context.Context, day *time.Time) ([]model.AttendanceRecord, error) {
	out := []model.AttendanceRecord{}
	for _, r := range a {
		if day == nil || r.Timestamp.Format("2006-01-02") == day.Format("2006-01-02") {
			out = append(out, r)
		}
	}
	return out, nil
}

func (a attendanceLog) Today(ctx context.Context, employeeID string) (*attendance.DaySummary, error) {
	today, _ := a.List(ctx, &now)
	mine := []model.AttendanceRecord{}
	for _, r := range today {
		if r.EmployeeID == employeeID {
			mine = append(mine, r)
		}
	}
	return attendance.Summarize(mine), nil
}

type noLeaves struct{}

func (noLeaves) CountPending(context.Context) (int, error) { return 0, nil }

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	work := workboard.NewService(kvstore.NewMemoryStore(), time.UTC)
	work.Now = func() time.Time { return now }
	svc := report.NewService(staffList{
		{ID: "admin", Name: "System Admin", Department: "IT", Role: model.RoleAdmin},
		{ID: "EMP001", Name: "Alice", Department: "Sales", Role: model.RoleEmployee},
		{ID: "EMP002", Name: "Bob", Department: "Sales", Role: model.RoleEmployee},
	}, attendanceLog{
		{ID: "r1", EmployeeID: "EMP002", EmployeeName: "Bob", Status: model.StatusCheckIn, Timestamp: now.Add(-time.Hour)},
	}, noLeaves{}, work)
	svc.Now = func() time.Time { return now }

	r := gin.New()
	Register(r.Group("/api/v1", middlewares.Authentication(secret, "session")), svc)
	return r
}

func get(t *testing.T, path, as, role string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := security.CreateIdentityToken(security.Identity{ID: as, Role: role}, secret, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router().ServeHTTP(w, req)
	return w
}

func TestReports(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantBody string
	}{
		{name: "Absentees", path: "/api/v1/reports/absentees", wantBody: `"id":"EMP001"`},
		{name: "Attendance summary", path: "/api/v1/reports/attendance-summary", wantBody: `[{"id":"EMP002","name":"Bob","count":1},{"id":"EMP001","name":"Alice","count":0}]`},
		{name: "Departments", path: "/api/v1/reports/departments", wantBody: `[{"department":"Sales","count":2,"employees":["Alice","Bob"]}]`},
		{name: "Admin dashboard", path: "/api/v1/dashboard/admin", wantBody: `"totalEmployees":2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusForbidden, get(t, tt.path, "EMP001", model.RoleEmployee).Code)
			w := get(t, tt.path, "admin", model.RoleAdmin)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestExports(t *testing.T) {
	tests := []struct {
		path     string
		filename string
		lines    []string
	}{
		{path: "/api/v1/reports/absentees/export", filename: "absentees_2025-03-10.csv", lines: []string{"ID,Name,Department,Position", "EMP001,Alice,Sales,"}},
		{path: "/api/v1/reports/attendance-summary/export", filename: "attendance_summary_2025-03-10.csv", lines: []string{"Employee ID,Name,Total Attendance", "EMP002,Bob,1", "EMP001,Alice,0"}},
		{path: "/api/v1/reports/departments/export", filename: "departments_2025-03-10.csv", lines: []string{"Department,Employee Count,Employees", `Sales,2,"Alice, Bob"`}},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			w := get(t, tt.path, "admin", model.RoleAdmin)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, `attachment; filename="`+tt.filename+`"`, w.Header().Get("Content-Disposition"))
			assert.Equal(t, tt.lines, strings.Split(strings.TrimSpace(w.Body.String()), "\n"))
		})
	}
}

func TestEmployeeDashboard(t *testing.T) {
	w := get(t, "/api/v1/dashboard/me", "EMP002", model.RoleEmployee)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"todayCheckIns":1`)
	assert.Contains(t, w.Body.String(), `"currentStatus":"Check In"`)
	assert.Contains(t, w.Body.String(), `"nextAction":"Check Out"`)
}
