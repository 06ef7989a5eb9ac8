package report

import (
	"strconv"
	"time"

	"staffhub.io/staffhub/export"
	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/utils"
)

func AbsenteeTable(employees []model.Employee) *export.Table {
	t := &export.Table{Name: "absentees", Headers: []string{"ID", "Name", "Department", "Position"}}
	for _, e := range employees {
		t.Append(e.ID, e.Name, e.Department, e.Position)
	}
	return t
}

func AttendanceSummaryTable(rows []AttendanceCount) *export.Table {
	t := &export.Table{Name: "attendance_summary", Headers: []string{"Employee ID", "Name", "Total Attendance"}}
	for _, r := range rows {
		t.Append(r.EmployeeID, r.Name, strconv.Itoa(r.Count))
	}
	return t
}

func DepartmentTable(rows []DepartmentCount) *export.Table {
	t := &export.Table{Name: "departments", Headers: []string{"Department", "Employee Count", "Employees"}}
	for _, r := range rows {
		t.Append(r.Department, strconv.Itoa(r.Count), joinNames(r.Employees))
	}
	return t
}

// AttendanceTable renders records with date and time in loc.
func AttendanceTable(name string, records []model.AttendanceRecord, loc *time.Location) *export.Table {
	t := &export.Table{Name: name, Headers: []string{"Employee ID", "Name", "Date", "Time", "Status", "Method", "Confidence"}}
	for _, r := range records {
		ts := r.Timestamp.In(loc)
		method := r.RecognitionMethod
		if method == "" {
			method = model.MethodCode
		}
		confidence := ""
		if r.Confidence != nil {
			confidence = strconv.FormatFloat(*r.Confidence, 'f', 1, 64)
		}
		t.Append(r.EmployeeID, r.EmployeeName, ts.Format(utils.DateLayout), ts.Format("15:04:05"), r.Status, method, confidence)
	}
	return t
}
