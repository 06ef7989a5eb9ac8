package report

import (
	"context"
	"sort"
	"strings"
	"time"

	"staffhub.io/staffhub/attendance"
	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/utils"
	"staffhub.io/staffhub/workboard"
)

type EmployeeLister interface {
	List(ctx context.Context, role string) ([]model.Employee, error)
}

type AttendanceSource interface {
	List(ctx context.Context, day *time.Time) ([]model.AttendanceRecord, error)
	Today(ctx context.Context, employeeID string) (*attendance.DaySummary, error)
}

type LeaveCounter interface {
	CountPending(ctx context.Context) (int, error)
}

type Service struct {
	employees  EmployeeLister
	attendance AttendanceSource
	leaves     LeaveCounter
	work       *workboard.Service
	Now        func() time.Time
}

func NewService(employees EmployeeLister, attendance AttendanceSource, leaves LeaveCounter, work *workboard.Service) *Service {
	return &Service{
		employees:  employees,
		attendance: attendance,
		leaves:     leaves,
		work:       work,
		Now:        time.Now,
	}
}

type AttendanceCount struct {
	EmployeeID string `json:"id"`
	Name       string `json:"name"`
	Count      int    `json:"count"`
}

type DepartmentCount struct {
	Department string   `json:"department"`
	Count      int      `json:"count"`
	Employees  []string `json:"employees"`
}

func (s *Service) today(ctx context.Context) ([]model.AttendanceRecord, error) {
	now := s.Now()
	return s.attendance.List(ctx, &now)
}

// Absentees lists employees with no attendance record today.
func (s *Service) Absentees(ctx context.Context) ([]model.Employee, error) {
	employees, err := s.employees.List(ctx, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	records, err := s.today(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(records))
	for _, r := range records {
		present[r.EmployeeID] = true
	}
	return utils.Filter(employees, func(e model.Employee) bool { return !present[e.ID] }), nil
}

// AttendanceSummary counts every record per employee, highest count first.
func AttendanceSummary(employees []model.Employee, records []model.AttendanceRecord) []AttendanceCount {
	counts := make(map[string]int, len(employees))
	for _, r := range records {
		counts[r.EmployeeID]++
	}
	out := make([]AttendanceCount, 0, len(employees))
	for _, e := range employees {
		out = append(out, AttendanceCount{EmployeeID: e.ID, Name: e.Name, Count: counts[e.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

func (s *Service) AttendanceSummary(ctx context.Context) ([]AttendanceCount, error) {
	employees, err := s.employees.List(ctx, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	records, err := s.attendance.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return AttendanceSummary(employees, records), nil
}

func Departments(employees []model.Employee) []DepartmentCount {
	groups := utils.GroupBy(employees, func(e model.Employee) string { return e.Department })
	out := make([]DepartmentCount, 0, len(groups))
	for dept, members := range groups {
		out = append(out, DepartmentCount{
			Department: dept,
			Count:      len(members),
			Employees:  utils.Map(members, func(e model.Employee) string { return e.Name }),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

func (s *Service) Departments(ctx context.Context) ([]DepartmentCount, error) {
	employees, err := s.employees.List(ctx, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	return Departments(employees), nil
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
