package model

import "time"

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type LeaveRequest struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	EmployeeID   string     `gorm:"size:64;index;not null" json:"employeeId"`
	EmployeeName string     `gorm:"size:128" json:"employeeName"`
	Type         string     `gorm:"size:64;not null" json:"type"`
	FromDate     time.Time  `gorm:"type:date;not null" json:"fromDate"`
	ToDate       time.Time  `gorm:"type:date;not null" json:"toDate"`
	Reason       string     `gorm:"type:text" json:"reason"`
	Status       string     `gorm:"size:16;index;default:pending" json:"status"`
	RequestDate  time.Time  `gorm:"not null" json:"requestDate"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
}

func (LeaveRequest) TableName() string {
	return "leaves"
}

// Days counts calendar days covered by the request, both ends included.
func (l LeaveRequest) Days() int {
	return int(l.ToDate.Sub(l.FromDate).Hours()/24) + 1
}
