package attendance

import (
	"context"
	"sort"
	"sync"
	"time"

	"staffhub.io/staffhub/model"
)

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type memCodes struct {
	mu    sync.Mutex
	codes map[string]model.ActiveCode
}

func (m *memCodes) Get(_ context.Context, id string) (*model.ActiveCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memCodes) Put(_ context.Context, c *model.ActiveCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[c.EmployeeID] = *c
	return nil
}

func (m *memCodes) Claim(_ context.Context, id string, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[id]
	if !ok || c.Used || c.Code != code {
		return false, nil
	}
	c.Used = true
	m.codes[id] = c
	return true, nil
}

func (m *memCodes) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, id)
	return nil
}

func (m *memCodes) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, c := range m.codes {
		if c.Expired(now) {
			delete(m.codes, id)
			n++
		}
	}
	return n, nil
}

func (m *memCodes) List(_ context.Context) ([]model.ActiveCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ActiveCode, 0, len(m.codes))
	for _, c := range m.codes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

type memRecords struct {
	mu      sync.Mutex
	records []model.AttendanceRecord
}

func (m *memRecords) Append(_ context.Context, rec *model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *memRecords) List(_ context.Context, q model.AttendanceQuery) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.AttendanceRecord{}
	for _, r := range m.records {
		if q.EmployeeID != "" && r.EmployeeID != q.EmployeeID {
			continue
		}
		if !q.From.IsZero() && (r.Timestamp.Before(q.From) || !r.Timestamp.Before(q.To)) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (m *memRecords) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type memEmployees map[string]model.Employee

func (m memEmployees) Find(_ context.Context, id string) (*model.Employee, error) {
	e, ok := m[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

type gallery map[string]model.FaceDescriptor

func (g gallery) Get(_ context.Context, id string) (*model.FaceDescriptor, error) {
	f, ok := g[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (g gallery) List(context.Context) ([]model.FaceDescriptor, error) {
	out := make([]model.FaceDescriptor, 0, len(g))
	for _, f := range g {
		out = append(out, f)
	}
	return out, nil
}
