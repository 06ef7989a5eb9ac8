package attendance

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/utils"
)

const (
	CodeLength = 6
	CodeTTL    = 5 * time.Minute
)

type CodeStore interface {
	Get(ctx context.Context, employeeID string) (*model.ActiveCode, error)
	Put(ctx context.Context, code *model.ActiveCode) error
	Claim(ctx context.Context, employeeID string, code string) (bool, error)
	Delete(ctx context.Context, employeeID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	List(ctx context.Context) ([]model.ActiveCode, error)
}

type RecordStore interface {
	Append(ctx context.Context, rec *model.AttendanceRecord) error
	List(ctx context.Context, q model.AttendanceQuery) ([]model.AttendanceRecord, error)
}

type EmployeeFinder interface {
	Find(ctx context.Context, id string) (*model.Employee, error)
}

type Service struct {
	codes     CodeStore
	records   RecordStore
	employees EmployeeFinder
	loc       *time.Location

	Now    func() time.Time
	Random io.Reader

	locks sync.Map
}

func NewService(codes CodeStore, records RecordStore, employees EmployeeFinder, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		codes:     codes,
		records:   records,
		employees: employees,
		loc:       loc,
		Now:       time.Now,
		Random:    rand.Reader,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) lock(employeeID string) func() {
	v, _ := s.locks.LoadOrStore(employeeID, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// GenerateCode draws a code uniformly from 100000..999999.
func GenerateCode(r io.Reader) (string, error) {
	n, err := rand.Int(r, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func validFormat(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *Service) findEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	emp, err := s.employees.Find(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

// Issue replaces any code the employee holds with a fresh one.
func (s *Service) Issue(ctx context.Context, employeeID string) (*model.ActiveCode, error) {
	if _, err := s.findEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	value, err := GenerateCode(s.Random)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	code := &model.ActiveCode{
		EmployeeID: employeeID,
		Code:       value,
		IssuedAt:   now,
		ExpiresAt:  now.Add(CodeTTL),
	}
	if err := s.codes.Put(ctx, code); err != nil {
		return nil, err
	}

	log.Printf("[INFO] issued attendance code for %s, expires %s", employeeID, code.ExpiresAt.Format(time.RFC3339))
	return code, nil
}

// check applies the gate in order: format, existence, used, match, expiry.
func (s *Service) check(ctx context.Context, employeeID string, code string) (*model.ActiveCode, error) {
	if !validFormat(code) {
		return nil, ErrInvalidFormat
	}

	active, err := s.codes.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, ErrNoActiveCode
	}
	if active.Used {
		return nil, ErrCodeUsed
	}
	if active.Code != code {
		return nil, ErrCodeMismatch
	}
	if active.Expired(s.Now()) {
		if err := s.codes.Delete(ctx, employeeID); err != nil {
			log.Printf("[ERROR] failed to drop expired code for %s: %v", employeeID, err)
		}
		return nil, ErrCodeExpired
	}
	return active, nil
}

// Verify checks the code without consuming it and returns today's summary.
func (s *Service) Verify(ctx context.Context, employeeID string, code string) (*DaySummary, error) {
	if _, err := s.check(ctx, employeeID, code); err != nil {
		return nil, err
	}
	return s.Today(ctx, employeeID)
}

// Submit consumes the code and records the attendance action.
func (s *Service) Submit(ctx context.Context, employeeID string, code string, action string) (*model.AttendanceRecord, error) {
	if !model.ValidAction(action) {
		return nil, ErrInvalidAction
	}

	unlock := s.lock(employeeID)
	defer unlock()

	emp, err := s.findEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.check(ctx, employeeID, code); err != nil {
		return nil, err
	}

	claimed, err := s.codes.Claim(ctx, employeeID, code)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrCodeUsed
	}

	used := code
	rec := &model.AttendanceRecord{
		ID:                uuid.NewString(),
		EmployeeID:        emp.ID,
		EmployeeName:      emp.Name,
		Timestamp:         s.Now(),
		Status:            action,
		Code:              &used,
		RecognitionMethod: model.MethodCode,
	}
	if err := s.records.Append(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.codes.Delete(ctx, employeeID); err != nil {
		log.Printf("[ERROR] failed to drop consumed code for %s: %v", employeeID, err)
	}

	log.Printf("[INFO] %s: %s via code", emp.ID, action)
	return rec, nil
}

// RecordFace appends an attendance action confirmed by face recognition.
func (s *Service) RecordFace(ctx context.Context, employeeID string, action string, confidence float64) (*model.AttendanceRecord, error) {
	if !model.ValidAction(action) {
		return nil, ErrInvalidAction
	}
	emp, err := s.findEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	rec := &model.AttendanceRecord{
		ID:                uuid.NewString(),
		EmployeeID:        emp.ID,
		EmployeeName:      emp.Name,
		Timestamp:         s.Now(),
		Status:            action,
		RecognitionMethod: model.MethodFace,
		Confidence:        utils.Ptr(confidence),
	}
	if err := s.records.Append(ctx, rec); err != nil {
		return nil, err
	}

	log.Printf("[INFO] %s: %s via face (%.2f%%)", emp.ID, action, confidence)
	return rec, nil
}

type CodeStatus struct {
	model.ActiveCode
	RemainingSeconds int64 `json:"remainingSeconds"`
}

func (s *Service) status(code model.ActiveCode, now time.Time) CodeStatus {
	return CodeStatus{ActiveCode: code, RemainingSeconds: int64(code.Remaining(now).Seconds())}
}

// Remaining reports how long the employee's code stays valid. An expired code is dropped.
func (s *Service) Remaining(ctx context.Context, employeeID string) (*CodeStatus, error) {
	code, err := s.codes.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNoActiveCode
	}

	now := s.Now()
	if code.Expired(now) {
		if err := s.codes.Delete(ctx, employeeID); err != nil {
			return nil, err
		}
		return nil, ErrCodeExpired
	}

	st := s.status(*code, now)
	return &st, nil
}

// ActiveCodes lists live codes for the admin countdown; expired ones are dropped on the way.
func (s *Service) ActiveCodes(ctx context.Context) ([]CodeStatus, error) {
	codes, err := s.codes.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	out := make([]CodeStatus, 0, len(codes))
	for _, c := range codes {
		if c.Expired(now) {
			if err := s.codes.Delete(ctx, c.EmployeeID); err != nil {
				log.Printf("[ERROR] failed to drop expired code for %s: %v", c.EmployeeID, err)
			}
			continue
		}
		out = append(out, s.status(c, now))
	}
	return out, nil
}

func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.codes.DeleteExpired(ctx, s.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("[INFO] purged %d expired attendance codes", n)
	}
	return n, nil
}
