package model

import "time"

const (
	StatusCheckIn  = "Check In"
	StatusCheckOut = "Check Out"

	MethodCode = "Code"
	MethodFace = "Face Recognition"
)

type AttendanceRecord struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	EmployeeID        string    `gorm:"size:64;index;not null" json:"employeeId"`
	EmployeeName      string    `gorm:"size:128" json:"employeeName"`
	Timestamp         time.Time `gorm:"index;not null" json:"timestamp"`
	Status            string    `gorm:"size:16;not null" json:"status"`
	Code              *string   `gorm:"size:6" json:"code,omitempty"`
	RecognitionMethod string    `gorm:"size:32" json:"recognitionMethod"`
	Confidence        *float64  `json:"confidence,omitempty"`
}

func (AttendanceRecord) TableName() string {
	return "attendance"
}

// AttendanceQuery narrows a record listing. Zero values are unbounded.
type AttendanceQuery struct {
	EmployeeID string
	From       time.Time
	To         time.Time
}

func ValidAction(action string) bool {
	return action == StatusCheckIn || action == StatusCheckOut
}

type ActiveCode struct {
	EmployeeID string    `gorm:"primaryKey;size:64" json:"employeeId"`
	Code       string    `gorm:"size:6;not null" json:"code"`
	IssuedAt   time.Time `gorm:"not null" json:"timestamp"`
	ExpiresAt  time.Time `gorm:"index;not null" json:"expiresAt"`
	Used       bool      `gorm:"not null;default:false" json:"used"`
}

func (ActiveCode) TableName() string {
	return "active_codes"
}

// Expired reports whether now is strictly past the expiry instant.
func (c ActiveCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

func (c ActiveCode) Remaining(now time.Time) time.Duration {
	if c.Expired(now) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
