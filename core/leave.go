package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"staffhub.io/staffhub/model"
)

type LeaveRepository struct {
	dm *DatabaseManager
}

func NewLeaveRepository(dm *DatabaseManager) *LeaveRepository {
	return &LeaveRepository{dm: dm}
}

func (r *LeaveRepository) Create(ctx context.Context, req *model.LeaveRequest) error {
	if err := r.dm.GetDB(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create leave request: %w", err)
	}
	return nil
}

func (r *LeaveRepository) Find(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	result := r.dm.GetDB(ctx).Where("id = ?", id).Take(&req)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find leave request %s: %w", id, result.Error)
	}
	return &req, nil
}

// List returns requests newest first; an empty employeeID lists everyone's.
func (r *LeaveRepository) List(ctx context.Context, employeeID string) ([]model.LeaveRequest, error) {
	db := r.dm.GetDB(ctx).Order("request_date DESC")
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	var requests []model.LeaveRequest
	if err := db.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// Decide moves a pending request to status. It reports false when the request was not pending.
func (r *LeaveRepository) Decide(ctx context.Context, id string, status string, at time.Time) (bool, error) {
	result := r.dm.GetDB(ctx).Model(&model.LeaveRequest{}).
		Where("id = ? AND status = ?", id, model.LeavePending).
		Updates(map[string]interface{}{"status": status, "decided_at": at})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update leave request %s: %w", id, result.Error)
	}
	return result.RowsAffected == 1, nil
}
