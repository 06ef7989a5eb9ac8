package core

import (
	"context"
	"fmt"

	"staffhub.io/staffhub/model"
)

type AttendanceRepository struct {
	dm *DatabaseManager
}

func NewAttendanceRepository(dm *DatabaseManager) *AttendanceRepository {
	return &AttendanceRepository{dm: dm}
}

func (r *AttendanceRepository) Append(ctx context.Context, rec *model.AttendanceRecord) error {
	if err := r.dm.GetDB(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to append attendance for %s: %w", rec.EmployeeID, err)
	}
	return nil
}

// List returns matching records, newest first.
func (r *AttendanceRepository) List(ctx context.Context, q model.AttendanceQuery) ([]model.AttendanceRecord, error) {
	db := r.dm.GetDB(ctx).Order("timestamp DESC")
	if q.EmployeeID != "" {
		db = db.Where("employee_id = ?", q.EmployeeID)
	}
	if !q.From.IsZero() {
		db = db.Where("timestamp >= ?", q.From)
	}
	if !q.To.IsZero() {
		db = db.Where("timestamp < ?", q.To)
	}

	var records []model.AttendanceRecord
	if err := db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}
