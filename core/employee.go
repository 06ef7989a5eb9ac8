package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"staffhub.io/staffhub/model"
)

type EmployeeRepository struct {
	dm *DatabaseManager
}

func NewEmployeeRepository(dm *DatabaseManager) *EmployeeRepository {
	return &EmployeeRepository{dm: dm}
}

// Find returns nil without error when no employee has the id.
func (r *EmployeeRepository) Find(ctx context.Context, id string) (*model.Employee, error) {
	var emp model.Employee
	result := r.dm.GetDB(ctx).Where("id = ?", id).Take(&emp)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find employee %s: %w", id, result.Error)
	}
	return &emp, nil
}

func (r *EmployeeRepository) List(ctx context.Context, role string) ([]model.Employee, error) {
	var employees []model.Employee
	q := r.dm.GetDB(ctx).Order("id")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

func (r *EmployeeRepository) Search(ctx context.Context, query string, role string) ([]model.Employee, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var employees []model.Employee
	q := r.dm.GetDB(ctx).
		Where("LOWER(id) LIKE ? OR LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(department) LIKE ? OR LOWER(position) LIKE ?",
			like, like, like, like, like).
		Order("id")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return employees, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, emp *model.Employee) error {
	if err := r.dm.GetDB(ctx).Create(emp).Error; err != nil {
		return fmt.Errorf("failed to create employee %s: %w", emp.ID, translate(err))
	}
	return nil
}

// Update writes the editable profile fields only; id and role are never changed here.
func (r *EmployeeRepository) Update(ctx context.Context, emp *model.Employee) error {
	err := r.dm.GetDB(ctx).Model(&model.Employee{ID: emp.ID}).
		Select("name", "email", "phone", "department", "position", "salary").
		Updates(emp).Error
	if err != nil {
		return fmt.Errorf("failed to update employee %s: %w", emp.ID, err)
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	if err := r.dm.GetDB(ctx).Where("id = ?", id).Delete(&model.Employee{}).Error; err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	return nil
}
