package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"staffhub.io/staffhub/staff"
	"staffhub.io/staffhub/utils"
)

type fixtureEmployee struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Email      string  `yaml:"email"`
	Phone      string  `yaml:"phone"`
	Department string  `yaml:"department"`
	Position   string  `yaml:"position"`
	Salary     float64 `yaml:"salary"`
	Role       string  `yaml:"role"`
	JoinDate   string  `yaml:"joinDate"`
}

type fixture struct {
	Employees []fixtureEmployee `yaml:"employees"`
}

func (e fixtureEmployee) input() (staff.EmployeeInput, error) {
	in := staff.EmployeeInput{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
		Role:       e.Role,
	}
	if in.ID == "" || in.Name == "" {
		return in, fmt.Errorf("employee %q: id and name are required", e.ID)
	}
	if e.JoinDate != "" {
		joined, err := utils.ParseISOTime(e.JoinDate)
		if err != nil {
			return in, fmt.Errorf("employee %s: %w", e.ID, err)
		}
		in.JoinDate = joined
	}
	return in, nil
}

func csvEmployees(raw []byte) ([]fixtureEmployee, error) {
	records, err := utils.ParseCSVRecords(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	employees := make([]fixtureEmployee, 0, len(records))
	for i, rec := range records {
		var salary float64
		if s := rec["salary"]; s != "" {
			salary, err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid salary %q", i+2, s)
			}
		}
		employees = append(employees, fixtureEmployee{
			ID:         rec["id"],
			Name:       rec["name"],
			Email:      rec["email"],
			Phone:      rec["phone"],
			Department: rec["department"],
			Position:   rec["position"],
			Salary:     salary,
			Role:       rec["role"],
			JoinDate:   rec["joindate"],
		})
	}
	return employees, nil
}

// readFixture loads employees from a YAML document or a CSV file with a header row.
func readFixture(path string) ([]staff.EmployeeInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var employees []fixtureEmployee
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var f fixture
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		employees = f.Employees
	case ".csv":
		employees, err = csvEmployees(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported fixture type %q", filepath.Ext(path))
	}

	inputs := make([]staff.EmployeeInput, 0, len(employees))
	for _, e := range employees {
		in, err := e.input()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
