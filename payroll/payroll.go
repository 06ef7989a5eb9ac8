package payroll

import (
	"context"
	"math"
	"sort"
	"strconv"

	"staffhub.io/staffhub/export"
	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/utils"
)

type EmployeeLister interface {
	List(ctx context.Context, role string) ([]model.Employee, error)
}

type Row struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Salary     float64 `json:"salary"`
}

type DepartmentTotal struct {
	Department string  `json:"department"`
	HeadCount  int     `json:"headCount"`
	Total      float64 `json:"total"`
}

type Summary struct {
	HeadCount   int               `json:"headCount"`
	Total       float64           `json:"totalSalary"`
	Average     float64           `json:"averageSalary"`
	Rows        []Row             `json:"rows"`
	Departments []DepartmentTotal `json:"departments"`
}

// Summarize totals the salaries of non-admin employees.
func Summarize(employees []model.Employee) *Summary {
	staff := utils.Filter(employees, func(e model.Employee) bool { return e.Role == model.RoleEmployee })

	s := &Summary{HeadCount: len(staff), Rows: make([]Row, 0, len(staff)), Departments: []DepartmentTotal{}}
	for _, e := range staff {
		s.Total += e.Salary
		s.Rows = append(s.Rows, Row{ID: e.ID, Name: e.Name, Position: e.Position, Department: e.Department, Salary: e.Salary})
	}
	if s.HeadCount > 0 {
		s.Average = math.Round(s.Total/float64(s.HeadCount)*100) / 100
	}

	for dept, members := range utils.GroupBy(staff, func(e model.Employee) string { return e.Department }) {
		d := DepartmentTotal{Department: dept, HeadCount: len(members)}
		for _, e := range members {
			d.Total += e.Salary
		}
		s.Departments = append(s.Departments, d)
	}
	sort.Slice(s.Departments, func(i, j int) bool { return s.Departments[i].Department < s.Departments[j].Department })
	return s
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (s *Summary) Table() *export.Table {
	t := &export.Table{Name: "payroll", Headers: []string{"Employee ID", "Name", "Position", "Department", "Salary"}}
	for _, r := range s.Rows {
		t.Append(r.ID, r.Name, r.Position, r.Department, money(r.Salary))
	}
	return t
}

type Service struct {
	employees EmployeeLister
}

func NewService(employees EmployeeLister) *Service {
	return &Service{employees: employees}
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	employees, err := s.employees.List(ctx, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	return Summarize(employees), nil
}
