package staff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"staffhub.io/staffhub/core"
	"staffhub.io/staffhub/model"
)

const DefaultAdminID = "admin"

type EmployeeStore interface {
	Find(ctx context.Context, id string) (*model.Employee, error)
	List(ctx context.Context, role string) ([]model.Employee, error)
	Search(ctx context.Context, query string, role string) ([]model.Employee, error)
	Create(ctx context.Context, emp *model.Employee) error
	Update(ctx context.Context, emp *model.Employee) error
	Delete(ctx context.Context, id string) error
}

type FaceStore interface {
	Get(ctx context.Context, employeeID string) (*model.FaceDescriptor, error)
	Save(ctx context.Context, face *model.FaceDescriptor) error
	Delete(ctx context.Context, employeeID string) error
}

// ImageStore keeps face photos outside the database. Locations are opaque URLs.
type ImageStore interface {
	Put(ctx context.Context, key string, contentType string, body []byte) (string, error)
	Read(ctx context.Context, location string, w io.Writer) error
	Delete(ctx context.Context, location string) error
}

type Service struct {
	employees EmployeeStore
	faces     FaceStore
	images    ImageStore
	Now       func() time.Time
}

// NewService accepts a nil images store; face photos are then kept inline as data URLs.
func NewService(employees EmployeeStore, faces FaceStore, images ImageStore) *Service {
	return &Service{employees: employees, faces: faces, images: images, Now: time.Now}
}

type EmployeeInput struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Department string
	Position   string
	Salary     float64
	Role       string
	JoinDate   *time.Time
}

type EmployeeUpdate struct {
	Name       string
	Email      string
	Phone      string
	Department string
	Position   string
	Salary     float64
}

func (s *Service) Get(ctx context.Context, id string) (*model.Employee, error) {
	emp, err := s.employees.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrNotFound
	}
	return emp, nil
}

// List returns employees with role, or everyone when role is empty.
func (s *Service) List(ctx context.Context, role string) ([]model.Employee, error) {
	return s.employees.List(ctx, role)
}

func (s *Service) Search(ctx context.Context, query string, role string) ([]model.Employee, error) {
	if strings.TrimSpace(query) == "" {
		return s.employees.List(ctx, role)
	}
	return s.employees.Search(ctx, query, role)
}

func (s *Service) Create(ctx context.Context, in EmployeeInput) (*model.Employee, error) {
	id := strings.TrimSpace(in.ID)
	role := in.Role
	if role == "" {
		role = model.RoleEmployee
	}
	if role != model.RoleEmployee && role != model.RoleAdmin {
		return nil, ErrInvalidRole
	}

	existing, err := s.employees.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateID
	}

	joined := in.JoinDate
	if joined == nil {
		now := s.Now()
		joined = &now
	}
	emp := &model.Employee{
		ID:         id,
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Department: strings.TrimSpace(in.Department),
		Position:   strings.TrimSpace(in.Position),
		Salary:     in.Salary,
		Role:       role,
		JoinDate:   joined,
	}
	if err := s.employees.Create(ctx, emp); err != nil {
		if errors.Is(err, core.ErrDuplicate) {
			return nil, ErrDuplicateID
		}
		return nil, err
	}

	log.Printf("[INFO] employee %s (%s) created", emp.ID, emp.Name)
	return emp, nil
}

func (s *Service) Update(ctx context.Context, id string, in EmployeeUpdate) (*model.Employee, error) {
	emp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	emp.Name = strings.TrimSpace(in.Name)
	emp.Email = strings.TrimSpace(in.Email)
	emp.Phone = strings.TrimSpace(in.Phone)
	emp.Department = strings.TrimSpace(in.Department)
	emp.Position = strings.TrimSpace(in.Position)
	emp.Salary = in.Salary

	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// Delete removes the employee together with the face descriptor and stored photo.
func (s *Service) Delete(ctx context.Context, id string, actorID string) error {
	if id == DefaultAdminID {
		return ErrDefaultAdminLock
	}
	if id == actorID {
		return ErrDeleteSelf
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	face, err := s.faces.Get(ctx, id)
	if err != nil {
		return err
	}
	if face != nil {
		if err := s.faces.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete face data: %w", err)
		}
		if s.images != nil && face.ImageURL != "" {
			if err := s.images.Delete(ctx, face.ImageURL); err != nil {
				log.Printf("[ERROR] failed to delete face image of %s: %v", id, err)
			}
		}
	}

	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[INFO] employee %s deleted", id)
	return nil
}

// Login checks the id against the role picked on the login screen.
func (s *Service) Login(ctx context.Context, id string, role string) (*model.Employee, error) {
	emp, err := s.employees.Find(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrUserNotFound
	}

	switch role {
	case model.RoleAdmin:
		if !emp.IsAdmin() {
			return nil, ErrNotAdmin
		}
	case model.RoleEmployee:
		if emp.IsAdmin() {
			return nil, ErrLoginAsAdmin
		}
	default:
		return nil, ErrInvalidRole
	}
	return emp, nil
}

// SeedAdmin creates the default admin account when it is missing.
func (s *Service) SeedAdmin(ctx context.Context) (bool, error) {
	existing, err := s.employees.Find(ctx, DefaultAdminID)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	now := s.Now()
	admin := &model.Employee{
		ID:         DefaultAdminID,
		Name:       "System Admin",
		Email:      "admin@company.com",
		Department: "IT",
		Position:   "Administrator",
		Role:       model.RoleAdmin,
		JoinDate:   &now,
	}
	if err := s.employees.Create(ctx, admin); err != nil {
		return false, err
	}
	log.Printf("[INFO] default admin account created")
	return true, nil
}
