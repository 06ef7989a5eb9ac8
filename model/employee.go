package model

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type Employee struct {
	ID         string     `gorm:"primaryKey;size:64" json:"id"`
	Name       string     `gorm:"size:128;not null" json:"name"`
	Email      string     `gorm:"size:256;index" json:"email"`
	Phone      string     `gorm:"size:64" json:"phone"`
	Department string     `gorm:"size:128;index" json:"department"`
	Position   string     `gorm:"size:128" json:"position"`
	Salary     float64    `gorm:"type:decimal(13,2);default:0" json:"salary"`
	Role       string     `gorm:"size:16;default:employee;index" json:"role"`
	JoinDate   *time.Time `gorm:"type:date" json:"joinDate"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// Session is the subset of an employee carried by a logged-in client.
type Session struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Role       string `json:"role"`
}

func (e Employee) Session() Session {
	return Session{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Role:       e.Role,
	}
}
