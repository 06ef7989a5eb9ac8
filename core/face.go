package core

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staffhub.io/staffhub/model"
)

type FaceRepository struct {
	dm *DatabaseManager
}

func NewFaceRepository(dm *DatabaseManager) *FaceRepository {
	return &FaceRepository{dm: dm}
}

func (r *FaceRepository) Get(ctx context.Context, employeeID string) (*model.FaceDescriptor, error) {
	var face model.FaceDescriptor
	result := r.dm.GetDB(ctx).Where("employee_id = ?", employeeID).Take(&face)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get face for %s: %w", employeeID, result.Error)
	}
	return &face, nil
}

func (r *FaceRepository) List(ctx context.Context) ([]model.FaceDescriptor, error) {
	var faces []model.FaceDescriptor
	if err := r.dm.GetDB(ctx).Order("employee_id").Find(&faces).Error; err != nil {
		return nil, fmt.Errorf("failed to list faces: %w", err)
	}
	return faces, nil
}

func (r *FaceRepository) Save(ctx context.Context, face *model.FaceDescriptor) error {
	if err := r.dm.GetDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		UpdateAll: true,
	}).Create(face).Error; err != nil {
		return fmt.Errorf("failed to save face for %s: %w", face.EmployeeID, err)
	}
	return nil
}

func (r *FaceRepository) Delete(ctx context.Context, employeeID string) error {
	if err := r.dm.GetDB(ctx).Where("employee_id = ?", employeeID).Delete(&model.FaceDescriptor{}).Error; err != nil {
		return fmt.Errorf("failed to delete face for %s: %w", employeeID, err)
	}
	return nil
}
