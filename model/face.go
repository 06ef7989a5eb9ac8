package model

import (
	"time"

	"gorm.io/datatypes"
)

type FaceDescriptor struct {
	EmployeeID     string                       `gorm:"primaryKey;size:64" json:"employeeId"`
	Descriptor     datatypes.JSONSlice[float64] `gorm:"not null" json:"descriptor"`
	RegisteredDate time.Time                    `json:"registeredDate"`
	ImageURL       string                       `gorm:"type:text" json:"imageUrl"`
}

func (FaceDescriptor) TableName() string {
	return "employee_faces"
}
