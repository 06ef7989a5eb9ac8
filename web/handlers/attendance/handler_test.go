package attendance

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffhub.io/staffhub/attendance"
	"staffhub.io/staffhub/face"
	"staffhub.io/staffhub/model"
	"staffhub.io/staffhub/security"
	"staffhub.io/staffhub/web/middlewares"
)

var (
	secret = []byte("attendance handler secret")
	now    = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	router  *gin.Engine
	service *attendance.Service
	records *memRecords
	clock   time.Time
}

func descriptor(seed float64) []float64 {
	d := make([]float64, face.DescriptorLength)
	for i := range d {
		d[i] = seed
	}
	return d
}

func newFixture(t *testing.T, recognizer *face.Recognizer) *fixture {
	t.Helper()
	f := &fixture{records: &memRecords{}, clock: now}
	employees := memEmployees{
		"admin":  {ID: "admin", Name: "System Admin", Role: model.RoleAdmin},
		"EMP001": {ID: "EMP001", Name: "Alice", Role: model.RoleEmployee},
		"EMP002": {ID: "EMP002", Name: "Bob", Role: model.RoleEmployee},
	}
	f.service = attendance.NewService(&memCodes{codes: map[string]model.ActiveCode{}}, f.records, employees, time.UTC)
	f.service.Now = func() time.Time { return f.clock }
	f.service.Random = zeros{}

	if recognizer == nil {
		recognizer = face.NewRecognizer(gallery{"EMP001": {EmployeeID: "EMP001", Descriptor: descriptor(0.1)}})
	}

	gin.SetMode(gin.TestMode)
	f.router = gin.New()
	Register(f.router.Group("/api/v1", middlewares.Authentication(secret, "session")), f.service, recognizer)
	return f
}

func token(t *testing.T, id, role string) string {
	t.Helper()
	tok, err := security.CreateIdentityToken(security.Identity{ID: id, Role: role}, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(t *testing.T, method, path, as, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+token(t, as, role))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestCodeFlow(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/attendance/codes", "EMP001", model.RoleEmployee, `{"employeeId":"EMP001"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/attendance/codes", "admin", model.RoleAdmin, `{"employeeId":"EMP001"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"code":"100000"`)

	w = f.do(t, http.MethodGet, "/api/v1/attendance/codes/me", "EMP001", model.RoleEmployee, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remainingSeconds":300`)
	assert.NotContains(t, w.Body.String(), "100000")

	steps := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantMsg  string
	}{
		{name: "Short code", path: "/api/v1/attendance/verify", body: `{"code":"12"}`, wantCode: http.StatusBadRequest, wantMsg: "Please enter a valid 6-digit code"},
		{name: "Wrong code", path: "/api/v1/attendance/verify", body: `{"code":"999999"}`, wantCode: http.StatusBadRequest, wantMsg: "Invalid code! Please check and try again."},
		{name: "Verified", path: "/api/v1/attendance/verify", body: `{"code":"100000"}`, wantCode: http.StatusOK, wantMsg: `"nextAction":"Check In"`},
		{name: "Bad action", path: "/api/v1/attendance", body: `{"code":"100000","action":"Lunch"}`, wantCode: http.StatusBadRequest},
		{name: "Checked in", path: "/api/v1/attendance", body: `{"code":"100000","action":"Check In"}`, wantCode: http.StatusCreated, wantMsg: `"recognitionMethod":"Code"`},
		{name: "Code is gone", path: "/api/v1/attendance", body: `{"code":"100000","action":"Check In"}`, wantCode: http.StatusNotFound},
	}
	for _, step := range steps {
		w := f.do(t, http.MethodPost, step.path, "EMP001", model.RoleEmployee, step.body)
		require.Equal(t, step.wantCode, w.Code, "%s: %s", step.name, w.Body.String())
		if step.wantMsg != "" {
			assert.Contains(t, w.Body.String(), step.wantMsg, step.name)
		}
	}

	w = f.do(t, http.MethodGet, "/api/v1/attendance/today", "EMP001", model.RoleEmployee, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"nextAction":"Check Out"`)
}

func TestExpiredCode(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(t, http.MethodPost, "/api/v1/attendance/codes", "admin", model.RoleAdmin, `{"employeeId":"EMP002"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	f.clock = now.Add(attendance.CodeTTL + time.Second)
	w = f.do(t, http.MethodPost, "/api/v1/attendance", "EMP002", model.RoleEmployee, `{"code":"100000","action":"Check In"}`)
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Contains(t, w.Body.String(), "This code has expired!")
}

func TestHistoryAndExport(t *testing.T) {
	f := newFixture(t, nil)
	ctx := t.Context()
	_, err := f.service.RecordFace(ctx, "EMP001", model.StatusCheckIn, 97.5)
	require.NoError(t, err)
	f.clock = now.AddDate(0, 0, 1)
	_, err = f.service.RecordFace(ctx, "EMP001", model.StatusCheckOut, 96)
	require.NoError(t, err)

	w := f.do(t, http.MethodGet, "/api/v1/attendance/history?date=2025-03-10", "EMP001", model.RoleEmployee, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = f.do(t, http.MethodGet, "/api/v1/attendance/history?date=10/03/2025", "EMP001", model.RoleEmployee, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/attendance/employees/EMP001/history", "admin", model.RoleAdmin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	w = f.do(t, http.MethodGet, "/api/v1/attendance/export?date=2025-03-10&format=csv", "admin", model.RoleAdmin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="attendance_2025-03-10.csv"`, w.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "EMP001,Alice,2025-03-10,09:00:00,Check In,Face Recognition,97.5", lines[1])

	w = f.do(t, http.MethodGet, "/api/v1/attendance/export?format=pdf", "admin", model.RoleAdmin, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecognizeFace(t *testing.T) {
	f := newFixture(t, nil)

	probe := func(d []float64, action string) string {
		raw, _ := json.Marshal(FaceDTO{Action: action, Descriptor: d, Score: 0.9})
		return string(raw)
	}
	tests := []struct {
		name     string
		as       string
		body     string
		wantCode int
	}{
		{name: "Recognized", as: "EMP001", body: probe(descriptor(0.1), model.StatusCheckIn), wantCode: http.StatusCreated},
		{name: "Different face", as: "EMP001", body: probe(descriptor(0.5), model.StatusCheckIn), wantCode: http.StatusUnprocessableEntity},
		{name: "Not registered", as: "EMP002", body: probe(descriptor(0.1), model.StatusCheckIn), wantCode: http.StatusNotFound},
		{name: "Bad action", as: "EMP001", body: probe(descriptor(0.1), "Nap"), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/api/v1/attendance/face", tt.as, model.RoleEmployee, tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
	assert.Equal(t, 1, f.records.Len())
}

func dialStream(t *testing.T, server *httptest.Server, as string, action string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/attendance/face/stream?action=" + strings.ReplaceAll(action, " ", "+")
	header := http.Header{"Authorization": []string{"Bearer " + token(t, as, model.RoleEmployee)}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUntilDone(t *testing.T, conn *websocket.Conn) StreamMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg StreamMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type != MessageAttempt {
			return msg
		}
	}
}

func TestStreamMatches(t *testing.T) {
	recognizer := face.NewRecognizer(gallery{"EMP001": {EmployeeID: "EMP001", Descriptor: descriptor(0.1)}})
	recognizer.Interval = 10 * time.Millisecond
	recognizer.Timeout = 3 * time.Second
	f := newFixture(t, recognizer)
	server := httptest.NewServer(f.router)
	defer server.Close()

	conn := dialStream(t, server, "EMP001", model.StatusCheckIn)
	require.NoError(t, conn.WriteJSON(face.Probe{Descriptor: descriptor(0.1), Score: 0.95}))

	msg := readUntilDone(t, conn)
	require.Equal(t, MessageMatched, msg.Type, msg.Error)
	require.NotNil(t, msg.Record)
	assert.Equal(t, model.MethodFace, msg.Record.RecognitionMethod)
	assert.Equal(t, "EMP001", msg.Match.EmployeeID)
	assert.Equal(t, 1, f.records.Len())
}

func TestStreamTimesOut(t *testing.T) {
	recognizer := face.NewRecognizer(gallery{"EMP001": {EmployeeID: "EMP001", Descriptor: descriptor(0.1)}})
	recognizer.Interval = 10 * time.Millisecond
	recognizer.Timeout = 100 * time.Millisecond
	f := newFixture(t, recognizer)
	server := httptest.NewServer(f.router)
	defer server.Close()

	conn := dialStream(t, server, "EMP001", model.StatusCheckOut)
	msg := readUntilDone(t, conn)
	assert.Equal(t, MessageFailed, msg.Type)
	assert.True(t, msg.TimedOut)
	assert.Equal(t, face.ErrTimeout.Error(), msg.Error)
	assert.Equal(t, 0, f.records.Len())
}
