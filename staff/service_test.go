package staff

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffhub.io/staffhub/face"
	"staffhub.io/staffhub/model"
)

var now = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func alice() model.Employee {
	return model.Employee{ID: "EMP001", Name: "Alice Nguyen", Email: "alice@company.com", Department: "Engineering", Position: "Developer", Salary: 5000, Role: model.RoleEmployee}
}

func admin() model.Employee {
	return model.Employee{ID: "admin", Name: "System Admin", Role: model.RoleAdmin}
}

func newService(images ImageStore, emps ...model.Employee) (*Service, *memEmployees, memFaces) {
	employees := newMemEmployees(emps...)
	faces := memFaces{}
	svc := NewService(employees, faces, images)
	svc.Now = func() time.Time { return now }
	return svc, employees, faces
}

func descriptor() []float64 {
	d := make([]float64, face.DescriptorLength)
	d[0] = 0.25
	return d
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, employees, _ := newService(nil, alice())

	_, err := svc.Create(ctx, EmployeeInput{ID: "EMP001", Name: "Again"})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = svc.Create(ctx, EmployeeInput{ID: "EMP009", Name: "X", Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	emp, err := svc.Create(ctx, EmployeeInput{ID: " EMP002 ", Name: " Bob ", Email: "bob@company.com", Department: "Sales", Position: "Rep", Salary: 3200})
	require.NoError(t, err)
	assert.Equal(t, "EMP002", emp.ID)
	assert.Equal(t, "Bob", emp.Name)
	assert.Equal(t, model.RoleEmployee, emp.Role)
	assert.Equal(t, now, *emp.JoinDate)
	assert.Contains(t, employees.rows, "EMP002")
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, employees, _ := newService(nil, alice())

	_, err := svc.Update(ctx, "EMP404", EmployeeUpdate{Name: "Nobody"})
	assert.ErrorIs(t, err, ErrNotFound)

	emp, err := svc.Update(ctx, "EMP001", EmployeeUpdate{Name: "Alice N.", Email: "an@company.com", Department: "Platform", Position: "Lead", Salary: 6100, Phone: "0400 000 000"})
	require.NoError(t, err)
	assert.Equal(t, "Platform", emp.Department)
	assert.Equal(t, 6100.0, employees.rows["EMP001"].Salary)
	assert.Equal(t, model.RoleEmployee, employees.rows["EMP001"].Role, "role is not editable")
}

func TestDeleteCascadesFace(t *testing.T) {
	ctx := context.Background()
	images := &memImages{objects: map[string][]byte{}}
	svc, employees, faces := newService(images, alice(), admin())

	jpeg := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff})
	registered, err := svc.RegisterFace(ctx, "EMP001", FaceInput{Descriptor: descriptor(), Score: 0.9, Image: jpeg})
	require.NoError(t, err)
	assert.Equal(t, "s3://faces/faces/EMP001.jpg", registered.ImageURL)
	require.Len(t, images.objects, 1)

	require.NoError(t, svc.Delete(ctx, "EMP001", "admin"))

	assert.NotContains(t, employees.rows, "EMP001")
	assert.NotContains(t, faces, "EMP001", "face descriptor goes with the employee")
	assert.Empty(t, images.objects)

	assert.ErrorIs(t, svc.Delete(ctx, "EMP001", "admin"), ErrNotFound)
}

func TestDeleteGuards(t *testing.T) {
	ctx := context.Background()
	boss := model.Employee{ID: "BOSS", Name: "Boss", Role: model.RoleAdmin}
	svc, employees, _ := newService(nil, alice(), admin(), boss)

	assert.ErrorIs(t, svc.Delete(ctx, "admin", "BOSS"), ErrDefaultAdminLock)
	assert.ErrorIs(t, svc.Delete(ctx, "BOSS", "BOSS"), ErrDeleteSelf)
	assert.Len(t, employees.rows, 3)

	require.NoError(t, svc.Delete(ctx, "EMP001", "BOSS"))
	assert.Len(t, employees.rows, 2)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil, alice(), admin())

	tests := []struct {
		name    string
		id      string
		role    string
		wantErr error
	}{
		{name: "Unknown id", id: "EMP404", role: model.RoleEmployee, wantErr: ErrUserNotFound},
		{name: "Employee as admin", id: "EMP001", role: model.RoleAdmin, wantErr: ErrNotAdmin},
		{name: "Admin as employee", id: "admin", role: model.RoleEmployee, wantErr: ErrLoginAsAdmin},
		{name: "Unknown role", id: "EMP001", role: "guest", wantErr: ErrInvalidRole},
		{name: "Employee", id: "EMP001", role: model.RoleEmployee},
		{name: "Admin", id: " admin ", role: model.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp, err := svc.Login(ctx, tt.id, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, emp.Role)
		})
	}
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	svc, employees, _ := newService(nil)

	created, err := svc.SeedAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "System Admin", employees.rows["admin"].Name)
	assert.Equal(t, model.RoleAdmin, employees.rows["admin"].Role)
	assert.Equal(t, 0.0, employees.rows["admin"].Salary)

	created, err = svc.SeedAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	bob := model.Employee{ID: "EMP002", Name: "Bob", Department: "Sales", Role: model.RoleEmployee}
	svc, _, _ := newService(nil, alice(), bob, admin())

	found, err := svc.Search(ctx, "sales", model.RoleEmployee)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "EMP002", found[0].ID)

	found, err = svc.Search(ctx, "emp00", "")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	all, err := svc.Search(ctx, "", model.RoleEmployee)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRegisterFaceValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, faces := newService(nil, alice())

	_, err := svc.RegisterFace(ctx, "EMP404", FaceInput{Descriptor: descriptor()})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RegisterFace(ctx, "EMP001", FaceInput{Descriptor: []float64{1, 2, 3}})
	assert.ErrorIs(t, err, face.ErrBadDescriptor)

	_, err = svc.RegisterFace(ctx, "EMP001", FaceInput{Descriptor: descriptor(), Score: 0.3})
	assert.ErrorIs(t, err, face.ErrLowQualityImage)

	_, err = svc.RegisterFace(ctx, "EMP001", FaceInput{Descriptor: descriptor(), Image: "not-a-data-url"})
	assert.ErrorIs(t, err, ErrInvalidImage)

	assert.Empty(t, faces)
}

func TestFaceImageInline(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil, alice())

	png := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	rec, err := svc.RegisterFace(ctx, "EMP001", FaceInput{Descriptor: descriptor(), Image: png})
	require.NoError(t, err)
	assert.Equal(t, png, rec.ImageURL, "without an image store the photo stays inline")

	var buf bytes.Buffer
	contentType, err := svc.WriteFaceImage(ctx, "EMP001", &buf)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, "png-bytes", buf.String())
}

func TestFaceImageFromStore(t *testing.T) {
	ctx := context.Background()
	images := &memImages{objects: map[string][]byte{}}
	svc, _, _ := newService(images, alice())

	jpeg := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))
	_, err := svc.RegisterFace(ctx, "EMP001", FaceInput{Descriptor: descriptor(), Image: jpeg})
	require.NoError(t, err)

	var buf bytes.Buffer
	contentType, err := svc.WriteFaceImage(ctx, "EMP001", &buf)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, "jpeg-bytes", buf.String())
}
