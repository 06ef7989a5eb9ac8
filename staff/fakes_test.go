package staff

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"staffhub.io/staffhub/core"
	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/utils"
)

type memEmployees struct {
	rows map[string]model.Employee
}

func newMemEmployees(emps ...model.Employee) *memEmployees {
	m := &memEmployees{rows: map[string]model.Employee{}}
	for _, e := range emps {
		m.rows[e.ID] = e
	}
	return m
}

func (m *memEmployees) Find(_ context.Context, id string) (*model.Employee, error) {
	e, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memEmployees) sorted(pred func(model.Employee) bool) []model.Employee {
	out := []model.Employee{}
	for _, e := range m.rows {
		if pred(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memEmployees) List(_ context.Context, role string) ([]model.Employee, error) {
	return m.sorted(func(e model.Employee) bool { return role == "" || e.Role == role }), nil
}

func (m *memEmployees) Search(_ context.Context, q string, role string) ([]model.Employee, error) {
	return m.sorted(func(e model.Employee) bool {
		return (role == "" || e.Role == role) && utils.ContainsFold(q, e.ID, e.Name, e.Email, e.Department, e.Position)
	}), nil
}

func (m *memEmployees) Create(_ context.Context, e *model.Employee) error {
	if _, ok := m.rows[e.ID]; ok {
		return fmt.Errorf("insert: %w", core.ErrDuplicate)
	}
	m.rows[e.ID] = *e
	return nil
}

func (m *memEmployees) Update(_ context.Context, e *model.Employee) error {
	m.rows[e.ID] = *e
	return nil
}

func (m *memEmployees) Delete(_ context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

type memFaces map[string]model.FaceDescriptor

func (m memFaces) Get(_ context.Context, id string) (*model.FaceDescriptor, error) {
	f, ok := m[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (m memFaces) Save(_ context.Context, f *model.FaceDescriptor) error {
	m[f.EmployeeID] = *f
	return nil
}

func (m memFaces) Delete(_ context.Context, id string) error {
	delete(m, id)
	return nil
}

type memImages struct {
	objects map[string][]byte
}

func (m *memImages) Put(_ context.Context, key string, _ string, body []byte) (string, error) {
	loc := "s3://faces/" + key
	m.objects[loc] = body
	return loc, nil
}

func (m *memImages) Read(_ context.Context, loc string, w io.Writer) error {
	body, ok := m.objects[loc]
	if !ok {
		return fmt.Errorf("no object %s", loc)
	}
	_, err := io.Copy(w, bytes.NewReader(body))
	return err
}

func (m *memImages) Delete(_ context.Context, loc string) error {
	if !strings.HasPrefix(loc, "s3://") {
		return nil
	}
	delete(m.objects, loc)
	return nil
}
