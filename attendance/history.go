package attendance

import (
	"context"
	"time"

	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/utils"
)

type DaySummary struct {
	Records    []model.AttendanceRecord `json:"records"`
	Count      int                      `json:"count"`
	CheckIns   int                      `json:"checkIns"`
	CheckOuts  int                      `json:"checkOuts"`
	LastAction string                   `json:"lastAction,omitempty"`
	NextAction string                   `json:"nextAction"`
}

// NextAction suggests the action that follows last.
func NextAction(last string) string {
	if last == model.StatusCheckIn {
		return model.StatusCheckOut
	}
	return model.StatusCheckIn
}

// Summarize expects records newest first.
func Summarize(records []model.AttendanceRecord) *DaySummary {
	summary := &DaySummary{
		Records:   records,
		Count:     len(records),
		CheckIns:  utils.Count(records, func(r model.AttendanceRecord) bool { return r.Status == model.StatusCheckIn }),
		CheckOuts: utils.Count(records, func(r model.AttendanceRecord) bool { return r.Status == model.StatusCheckOut }),
	}
	if len(records) > 0 {
		summary.LastAction = records[0].Status
	}
	summary.NextAction = NextAction(summary.LastAction)
	return summary
}

func (s *Service) dayQuery(employeeID string, day time.Time) model.AttendanceQuery {
	from, to := utils.DayBounds(day, s.loc)
	return model.AttendanceQuery{EmployeeID: employeeID, From: from, To: to}
}

func (s *Service) Today(ctx context.Context, employeeID string) (*DaySummary, error) {
	records, err := s.records.List(ctx, s.dayQuery(employeeID, s.Now()))
	if err != nil {
		return nil, err
	}
	return Summarize(records), nil
}

// History lists one employee's records, optionally restricted to a single day.
func (s *Service) History(ctx context.Context, employeeID string, day *time.Time) ([]model.AttendanceRecord, error) {
	q := model.AttendanceQuery{EmployeeID: employeeID}
	if day != nil {
		q = s.dayQuery(employeeID, *day)
	}
	return s.records.List(ctx, q)
}

// List returns everyone's records, optionally restricted to a single day.
func (s *Service) List(ctx context.Context, day *time.Time) ([]model.AttendanceRecord, error) {
	q := model.AttendanceQuery{}
	if day != nil {
		q = s.dayQuery("", *day)
	}
	return s.records.List(ctx, q)
}
