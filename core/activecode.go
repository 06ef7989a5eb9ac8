package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"staffhub.io/staffhub/model"
)

type CodeRepository struct {
	dm *DatabaseManager
}

func NewCodeRepository(dm *DatabaseManager) *CodeRepository {
	return &CodeRepository{dm: dm}
}

func (r *CodeRepository) Get(ctx context.Context, employeeID string) (*model.ActiveCode, error) {
	var code model.ActiveCode
	result := r.dm.GetDB(ctx).Where("employee_id = ?", employeeID).Take(&code)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get code for %s: %w", employeeID, result.Error)
	}
	return &code, nil
}

// Put replaces whatever code the employee had.
func (r *CodeRepository) Put(ctx context.Context, code *model.ActiveCode) error {
	if err := r.dm.GetDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		UpdateAll: true,
	}).Create(code).Error; err != nil {
		return fmt.Errorf("failed to store code for %s: %w", code.EmployeeID, err)
	}
	return nil
}

// Claim flips used from false to true for the exact code. Only one caller can win.
func (r *CodeRepository) Claim(ctx context.Context, employeeID string, code string) (bool, error) {
	result := r.dm.GetDB(ctx).Model(&model.ActiveCode{}).
		Where("employee_id = ? AND code = ? AND used = ?", employeeID, code, false).
		Update("used", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to claim code for %s: %w", employeeID, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *CodeRepository) Delete(ctx context.Context, employeeID string) error {
	if err := r.dm.GetDB(ctx).Where("employee_id = ?", employeeID).Delete(&model.ActiveCode{}).Error; err != nil {
		return fmt.Errorf("failed to delete code for %s: %w", employeeID, err)
	}
	return nil
}

func (r *CodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.dm.GetDB(ctx).Where("expires_at < ?", now).Delete(&model.ActiveCode{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired codes: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *CodeRepository) List(ctx context.Context) ([]model.ActiveCode, error) {
	var codes []model.ActiveCode
	if err := r.dm.GetDB(ctx).Order("expires_at").Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}
	return codes, nil
}
