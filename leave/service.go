package leave

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/utils"
)

var (
	ErrNotFound         = errors.New("Leave request not found")
	ErrAlreadyDecided   = errors.New("This leave request has already been processed")
	ErrInvalidRange     = errors.New("End date must be on or after start date")
	ErrInvalidDecision  = errors.New("Status must be approved or rejected")
	ErrEmployeeNotFound = errors.New("Employee not found!")
	ErrMissingFields    = errors.New("Please fill in all fields")
)

type Store interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	Find(ctx context.Context, id string) (*model.LeaveRequest, error)
	List(ctx context.Context, employeeID string) ([]model.LeaveRequest, error)
	Decide(ctx context.Context, id string, status string, at time.Time) (bool, error)
}

type EmployeeFinder interface {
	Find(ctx context.Context, id string) (*model.Employee, error)
}

// Notifier is told about leave events. Failures are logged and never fail the request.
type Notifier interface {
	Submitted(ctx context.Context, req *model.LeaveRequest, emp *model.Employee) error
	Decided(ctx context.Context, req *model.LeaveRequest, emp *model.Employee) error
}

type Service struct {
	store     Store
	employees EmployeeFinder
	notifier  Notifier
	Now       func() time.Time
}

func NewService(store Store, employees EmployeeFinder, notifier Notifier) *Service {
	return &Service{store: store, employees: employees, notifier: notifier, Now: time.Now}
}

type Request struct {
	Type     string
	FromDate time.Time
	ToDate   time.Time
	Reason   string
}

type Grouped struct {
	Pending  []model.LeaveRequest `json:"pending"`
	Approved []model.LeaveRequest `json:"approved"`
	Rejected []model.LeaveRequest `json:"rejected"`
	Counts   Counts               `json:"counts"`
}

type Counts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

func (s *Service) employee(ctx context.Context, id string) (*model.Employee, error) {
	emp, err := s.employees.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *Service) Submit(ctx context.Context, employeeID string, in Request) (*model.LeaveRequest, error) {
	if strings.TrimSpace(in.Type) == "" || strings.TrimSpace(in.Reason) == "" || in.FromDate.IsZero() || in.ToDate.IsZero() {
		return nil, ErrMissingFields
	}
	if in.ToDate.Before(in.FromDate) {
		return nil, ErrInvalidRange
	}

	emp, err := s.employee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	req := &model.LeaveRequest{
		ID:           uuid.NewString(),
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Type:         strings.TrimSpace(in.Type),
		FromDate:     in.FromDate,
		ToDate:       in.ToDate,
		Reason:       strings.TrimSpace(in.Reason),
		Status:       model.LeavePending,
		RequestDate:  s.Now(),
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Submitted(ctx, req, emp); err != nil {
			log.Printf("[ERROR] leave submitted notification for %s: %v", req.ID, err)
		}
	}
	return req, nil
}

// ListByEmployee returns one employee's requests, newest first.
func (s *Service) ListByEmployee(ctx context.Context, employeeID string) ([]model.LeaveRequest, error) {
	return s.store.List(ctx, employeeID)
}

func Group(requests []model.LeaveRequest) *Grouped {
	byStatus := utils.GroupBy(requests, func(r model.LeaveRequest) string { return r.Status })
	g := &Grouped{
		Pending:  nonNil(byStatus[model.LeavePending]),
		Approved: nonNil(byStatus[model.LeaveApproved]),
		Rejected: nonNil(byStatus[model.LeaveRejected]),
	}
	g.Counts = Counts{
		Pending:  len(g.Pending),
		Approved: len(g.Approved),
		Rejected: len(g.Rejected),
		Total:    len(requests),
	}
	return g
}

func nonNil(rs []model.LeaveRequest) []model.LeaveRequest {
	if rs == nil {
		return []model.LeaveRequest{}
	}
	return rs
}

// ListGrouped returns every request split by status, for the admin view.
func (s *Service) ListGrouped(ctx context.Context) (*Grouped, error) {
	requests, err := s.store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return Group(requests), nil
}

func (s *Service) Decide(ctx context.Context, id string, status string) (*model.LeaveRequest, error) {
	if status != model.LeaveApproved && status != model.LeaveRejected {
		return nil, ErrInvalidDecision
	}

	req, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}

	at := s.Now()
	ok, err := s.store.Decide(ctx, id, status, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyDecided
	}
	req.Status = status
	req.DecidedAt = &at

	if s.notifier != nil {
		emp, err := s.employees.Find(ctx, req.EmployeeID)
		if err == nil && emp != nil {
			err = s.notifier.Decided(ctx, req, emp)
		}
		if err != nil {
			log.Printf("[ERROR] leave decided notification for %s: %v", req.ID, err)
		}
	}

	log.Printf("[INFO] leave %s for %s %s", req.ID, req.EmployeeID, status)
	return req, nil
}

func (s *Service) CountPending(ctx context.Context) (int, error) {
	requests, err := s.store.List(ctx, "")
	if err != nil {
		return 0, err
	}
	return utils.Count(requests, func(r model.LeaveRequest) bool { return r.Status == model.LeavePending }), nil
}
