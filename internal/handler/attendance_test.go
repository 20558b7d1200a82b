package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"attendance-backend/internal/auth"
	"attendance-backend/internal/model"
	"attendance-backend/internal/store"
)

// testEnv 메모리 스토어 + 인증 라우트가 구성된 테스트 앱
type testEnv struct {
	app   *fiber.App
	store *store.Memory
	jwt   *auth.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := store.NewMemory()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	app := fiber.New()
	authRequired := auth.AuthMiddleware(jwtManager)

	h := NewAttendanceHandler(st)
	group := app.Group("/api/attendance", authRequired)
	group.Post("/scan", h.Scan)
	group.Post("/", h.MarkAttendance)
	group.Get("/:meetingId", h.GetMeetingAttendance)
	group.Get("/:meetingId/summary", h.GetMeetingSummary)
	group.Put("/:meetingId/:userId", h.UpdateAttendance)
	group.Post("/:meetingId/mark-all", h.MarkAllPending)

	return &testEnv{app: app, store: st, jwt: jwtManager}
}

func (e *testEnv) seedUser(t *testing.T, email string, role model.Role, qr string) *model.User {
	t.Helper()
	u := &model.User{Email: email, Name: email, Role: role}
	if qr != "" {
		u.QrCode = &qr
	}
	if err := e.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func (e *testEnv) seedMeeting(t *testing.T, date time.Time, createdBy string) *model.Meeting {
	t.Helper()
	m := &model.Meeting{Date: date, Venue: "Hotel Sangam, Madurai", CreatedBy: createdBy, IsActive: true}
	if err := e.store.CreateMeeting(context.Background(), m); err != nil {
		t.Fatalf("seed meeting: %v", err)
	}
	return m
}

func (e *testEnv) request(t *testing.T, method, path string, body any, as *model.User) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, err := e.jwt.GenerateAccessToken(as)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func TestMarkAttendanceRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, "POST", "/api/attendance/", MarkAttendanceRequest{}, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestMarkAttendanceRoleGate(t *testing.T) {
	env := newTestEnv(t)
	sonai := env.seedUser(t, "sonai@cedoi.test", model.RoleSonai, "")
	member := env.seedUser(t, "raja@cedoi.test", model.RoleMember, "")
	meeting := env.seedMeeting(t, time.Now(), sonai.ID)

	body := MarkAttendanceRequest{MeetingID: meeting.ID, UserID: member.ID, Status: "present"}

	// 일반 member는 기록 불가
	resp := env.request(t, "POST", "/api/attendance/", body, member)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("member write: status = %d, want 403", resp.StatusCode)
	}

	// sonai는 기록 가능
	resp = env.request(t, "POST", "/api/attendance/", body, sonai)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("sonai write: status = %d, want 200", resp.StatusCode)
	}
}

func TestMarkAttendanceInvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	sonai := env.seedUser(t, "sonai@cedoi.test", model.RoleSonai, "")
	member := env.seedUser(t, "raja@cedoi.test", model.RoleMember, "")
	meeting := env.seedMeeting(t, time.Now(), sonai.ID)

	for _, status := range []string{"pending", "late", ""} {
		body := MarkAttendanceRequest{MeetingID: meeting.ID, UserID: member.ID, Status: status}
		resp := env.request(t, "POST", "/api/attendance/", body, sonai)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("status %q: code = %d, want 400", status, resp.StatusCode)
		}
	}
}

func TestMarkAttendanceWindowClosed(t *testing.T) {
	env := newTestEnv(t)
	sonai := env.seedUser(t, "sonai@cedoi.test", model.RoleSonai, "")
	member := env.seedUser(t, "raja@cedoi.test", model.RoleMember, "")
	// 어제 모임 - 시간창이 닫혀 있다
	meeting := env.seedMeeting(t, time.Now().Add(-24*time.Hour), sonai.ID)

	body := MarkAttendanceRequest{MeetingID: meeting.ID, UserID: member.ID, Status: "present"}
	resp := env.request(t, "POST", "/api/attendance/", body, sonai)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["window"] == "" {
		t.Error("409 response is missing the window message")
	}

	// 단 한 건도 쓰이지 않았다
	records, err := env.store.AttendanceForMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("AttendanceForMeeting: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records written = %d, want 0", len(records))
	}
}

func TestUpdateAttendanceUpserts(t *testing.T) {
	env := newTestEnv(t)
	sonai := env.seedUser(t, "sonai@cedoi.test", model.RoleSonai, "")
	member := env.seedUser(t, "raja@cedoi.test", model.RoleMember, "")
	meeting := env.seedMeeting(t, time.Now(), sonai.ID)

	for _, status := range []string{"present", "absent", "present"} {
		resp := env.request(t, "PUT", "/api/attendance/"+meeting.ID+"/"+member.ID,
			UpdateStatusRequest{Status: status}, sonai)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("PUT %s: status = %d, want 200", status, resp.StatusCode)
		}
	}

	records, err := env.store.AttendanceForMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("AttendanceForMeeting: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1 (upsert)", len(records))
	}
	if records[0].Status != model.StatusPresent {
		t.Errorf("final status = %s, want present", records[0].Status)
	}
}

func TestMarkAllPendingAtomicRejection(t *testing.T) {
	env := newTestEnv(t)
	sonai := env.seedUser(t, "sonai@cedoi.test", model.RoleSonai, "")
	env.seedUser(t, "raja@cedoi.test", model.RoleMember, "")
	env.seedUser(t, "kumar@cedoi.test", model.RoleMember, "")
	meeting := env.seedMeeting(t, time.Now().Add(-24*time.Hour), sonai.ID)

	resp := env.request(t, "POST", "/api/attendance/"+meeting.ID+"/mark-all",
		MarkAllRequest{Status: "absent"}, sonai)
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}

	records, err := env.store.AttendanceForMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("AttendanceForMeeting: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records written = %d, want 0 (atomic rejection)", len(records))
	}
}

func TestMarkAllPendingSkipsMarked(t *testing.T) {
	env := newTestEnv(t)
	sonai := env.seedUser(t, "sonai@cedoi.test", model.RoleSonai, "")
	raja := env.seedUser(t, "raja@cedoi.test", model.RoleMember, "")
	env.seedUser(t, "kumar@cedoi.test", model.RoleMember, "")
	meeting := env.seedMeeting(t, time.Now(), sonai.ID)

	// raja는 미리 present로 기록
	if _, err := env.store.UpsertAttendance(context.Background(), meeting.ID, raja.ID, model.StatusPresent, time.Now()); err != nil {
		t.Fatalf("UpsertAttendance: %v", err)
	}

	resp := env.request(t, "POST", "/api/attendance/"+meeting.ID+"/mark-all",
		MarkAllRequest{Status: "absent"}, sonai)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload struct {
		Updated int `json:"updated"`
		Summary struct {
			PresentCount int  `json:"presentCount"`
			AbsentCount  int  `json:"absentCount"`
			PendingCount int  `json:"pendingCount"`
			IsComplete   bool `json:"isComplete"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	// pending이었던 sonai와 kumar만 absent 처리, raja의 present는 유지
	if payload.Updated != 2 {
		t.Errorf("updated = %d, want 2", payload.Updated)
	}
	if payload.Summary.PresentCount != 1 || payload.Summary.AbsentCount != 2 {
		t.Errorf("summary = %d present / %d absent, want 1/2",
			payload.Summary.PresentCount, payload.Summary.AbsentCount)
	}
	if !payload.Summary.IsComplete {
		t.Error("summary must be complete after mark-all")
	}
}

func TestScanMarksPresent(t *testing.T) {
	env := newTestEnv(t)
	sonai := env.seedUser(t, "sonai@cedoi.test", model.RoleSonai, "")
	raja := env.seedUser(t, "raja@cedoi.test", model.RoleMember, "qr-raja")
	meeting := env.seedMeeting(t, time.Now(), sonai.ID)

	resp := env.request(t, "POST", "/api/attendance/scan",
		ScanRequest{MeetingID: meeting.ID, QrCode: "qr-raja"}, sonai)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	records, err := env.store.AttendanceForMeeting(context.Background(), meeting.ID)
	if err != nil {
		t.Fatalf("AttendanceForMeeting: %v", err)
	}
	if len(records) != 1 || records[0].UserID != raja.ID || records[0].Status != model.StatusPresent {
		t.Fatalf("unexpected records: %+v", records)
	}

	// 모르는 코드는 404
	resp = env.request(t, "POST", "/api/attendance/scan",
		ScanRequest{MeetingID: meeting.ID, QrCode: "qr-nobody"}, sonai)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("unknown code: status = %d, want 404", resp.StatusCode)
	}
}

func TestGetMeetingSummary(t *testing.T) {
	env := newTestEnv(t)
	sonai := env.seedUser(t, "sonai@cedoi.test", model.RoleSonai, "")
	raja := env.seedUser(t, "raja@cedoi.test", model.RoleMember, "")
	env.seedUser(t, "kumar@cedoi.test", model.RoleMember, "")
	meeting := env.seedMeeting(t, time.Now(), sonai.ID)

	if _, err := env.store.UpsertAttendance(context.Background(), meeting.ID, raja.ID, model.StatusPresent, time.Now()); err != nil {
		t.Fatalf("UpsertAttendance: %v", err)
	}

	resp := env.request(t, "GET", "/api/attendance/"+meeting.ID+"/summary", nil, sonai)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload struct {
		Summary struct {
			RosterSize   int `json:"rosterSize"`
			PresentCount int `json:"presentCount"`
			PendingCount int `json:"pendingCount"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Summary.RosterSize != 3 || payload.Summary.PresentCount != 1 || payload.Summary.PendingCount != 2 {
		t.Errorf("summary = %+v, want roster 3 / present 1 / pending 2", payload.Summary)
	}

	// 없는 모임은 404
	resp = env.request(t, "GET", "/api/attendance/nope/summary", nil, sonai)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("unknown meeting: status = %d, want 404", resp.StatusCode)
	}
}
