package attendance

import (
	"testing"
	"time"

	"attendance-backend/internal/model"
)

func member(id, name string, role model.Role) model.User {
	return model.User{ID: id, Email: id + "@cedoi.test", Name: name, Role: role}
}

func record(id, meetingID, userID string, status model.AttendanceStatus) model.AttendanceRecord {
	return model.AttendanceRecord{
		ID: id, MeetingID: meetingID, UserID: userID,
		Status: status, Timestamp: time.Now(),
	}
}

func TestReconcileScenario(t *testing.T) {
	// A(member), B(member), C(sonai) - 2명 기록, 1명 미제출
	roster := []model.User{
		member("a", "A", model.RoleMember),
		member("b", "B", model.RoleMember),
		member("c", "C", model.RoleSonai),
	}

	records := []model.AttendanceRecord{
		record("1", "m1", "a", model.StatusPresent),
		record("2", "m1", "b", model.StatusAbsent),
	}

	s := Reconcile(roster, records)
	if s.PresentCount != 1 || s.AbsentCount != 1 || s.PendingCount != 1 {
		t.Fatalf("counts = %d/%d/%d, want 1/1/1", s.PresentCount, s.AbsentCount, s.PendingCount)
	}
	if s.CompletionPercentage != 67 {
		t.Errorf("CompletionPercentage = %d, want 67", s.CompletionPercentage)
	}
	if s.AttendanceRate != 33 {
		t.Errorf("AttendanceRate = %d, want 33", s.AttendanceRate)
	}
	if s.IsComplete {
		t.Error("IsComplete = true with a pending member")
	}

	// C까지 present로 기록하면 완료
	records = append(records, record("3", "m1", "c", model.StatusPresent))
	s = Reconcile(roster, records)
	if s.PendingCount != 0 || !s.IsComplete {
		t.Fatalf("pending = %d, complete = %v, want 0/true", s.PendingCount, s.IsComplete)
	}
	if s.AttendanceRate != 67 {
		t.Errorf("AttendanceRate = %d, want 67", s.AttendanceRate)
	}
	if s.CompletionPercentage != 100 {
		t.Errorf("CompletionPercentage = %d, want 100", s.CompletionPercentage)
	}
}

func TestReconcileRosterBoundedCounts(t *testing.T) {
	roster := []model.User{
		member("a", "A", model.RoleMember),
		member("b", "B", model.RoleMember),
	}
	// roster에 없는 사용자의 잔여 기록은 집계에 절대 들어가면 안 된다
	records := []model.AttendanceRecord{
		record("1", "m1", "a", model.StatusPresent),
		record("2", "m1", "ghost", model.StatusPresent),
		record("3", "m1", "ghost2", model.StatusAbsent),
	}

	s := Reconcile(roster, records)
	if got := s.PresentCount + s.AbsentCount + s.PendingCount; got != len(roster) {
		t.Fatalf("partition sum = %d, want |roster| = %d", got, len(roster))
	}
	if s.PresentCount != 1 || s.PendingCount != 1 {
		t.Errorf("counts = %d present / %d pending, want 1/1", s.PresentCount, s.PendingCount)
	}
	if s.CompletionPercentage > 100 || s.AttendanceRate > 100 {
		t.Errorf("percentages out of bounds: %d, %d", s.CompletionPercentage, s.AttendanceRate)
	}
}

func TestReconcileDuplicateRecordsLastWins(t *testing.T) {
	roster := []model.User{member("a", "A", model.RoleMember)}
	// 스토어가 중복을 돌려줘도 마지막 기록이 이긴다
	records := []model.AttendanceRecord{
		record("1", "m1", "a", model.StatusAbsent),
		record("2", "m1", "a", model.StatusPresent),
	}

	s := Reconcile(roster, records)
	if s.PresentCount != 1 || s.AbsentCount != 0 {
		t.Fatalf("counts = %d/%d, want 1/0 (last record wins)", s.PresentCount, s.AbsentCount)
	}
}

func TestReconcileEmptyRoster(t *testing.T) {
	s := Reconcile(nil, nil)
	if s.IsComplete {
		t.Error("empty roster must never be complete")
	}
	if s.CompletionPercentage != 0 || s.AttendanceRate != 0 {
		t.Errorf("percentages = %d/%d, want 0/0", s.CompletionPercentage, s.AttendanceRate)
	}
}

func TestReconcileNeverDefaultsToAbsent(t *testing.T) {
	roster := []model.User{member("a", "A", model.RoleMember)}
	s := Reconcile(roster, nil)
	if s.Members[0].Status != model.StatusPending {
		t.Fatalf("unmarked member status = %s, want pending", s.Members[0].Status)
	}
	if s.AbsentCount != 0 {
		t.Errorf("AbsentCount = %d, want 0", s.AbsentCount)
	}
}

func TestCompletionMonotonic(t *testing.T) {
	roster := []model.User{
		member("a", "A", model.RoleMember),
		member("b", "B", model.RoleSonai),
	}
	records := []model.AttendanceRecord{
		record("1", "m1", "a", model.StatusPresent),
		record("2", "m1", "b", model.StatusAbsent),
	}
	if !Reconcile(roster, records).IsComplete {
		t.Fatal("expected complete")
	}
	// 기록이 더 쌓여도 (갱신 포함) complete는 유지된다
	records = append(records, record("3", "m1", "a", model.StatusAbsent))
	if !Reconcile(roster, records).IsComplete {
		t.Error("complete flipped to false by an additional record")
	}
}

func TestRosterExcludesChairman(t *testing.T) {
	users := []model.User{
		member("ch", "Chair", model.RoleChairman),
		member("a", "A", model.RoleMember),
		member("s", "S", model.RoleSonai),
	}
	roster := Roster(users)
	if len(roster) != 2 {
		t.Fatalf("roster size = %d, want 2", len(roster))
	}
	for _, u := range roster {
		if u.Role == model.RoleChairman {
			t.Error("chairman must never be in the roster")
		}
	}
}

func TestResolveByQrCode(t *testing.T) {
	code := "qr-abc-123"
	u := member("a", "A", model.RoleMember)
	u.QrCode = &code
	roster := []model.User{u, member("b", "B", model.RoleMember)}

	got, err := ResolveByQrCode("qr-abc-123", roster)
	if err != nil {
		t.Fatalf("ResolveByQrCode: %v", err)
	}
	if got.ID != "a" {
		t.Errorf("resolved user = %s, want a", got.ID)
	}

	// 대소문자 구분 - 다른 표기는 매칭되지 않는다
	if _, err := ResolveByQrCode("QR-ABC-123", roster); err != ErrNotFound {
		t.Errorf("case-insensitive match accepted, want ErrNotFound")
	}
	if _, err := ResolveByQrCode("unknown", roster); err != ErrNotFound {
		t.Errorf("unknown code: err = %v, want ErrNotFound", err)
	}
	if _, err := ResolveByQrCode("", roster); err != ErrNotFound {
		t.Errorf("empty code: err = %v, want ErrNotFound", err)
	}
}

func TestValidateStatus(t *testing.T) {
	if err := ValidateStatus(model.StatusPresent); err != nil {
		t.Errorf("present rejected: %v", err)
	}
	if err := ValidateStatus(model.StatusAbsent); err != nil {
		t.Errorf("absent rejected: %v", err)
	}
	if err := ValidateStatus(model.StatusPending); err != ErrInvalidStatus {
		t.Error("pending must not be storable")
	}
	if err := ValidateStatus("late"); err != ErrInvalidStatus {
		t.Error("unknown status must be rejected")
	}
}

func TestPercentageRounding(t *testing.T) {
	tests := []struct {
		part, whole, want int
	}{
		{0, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},  // 12.5 → half-up
		{3, 200, 2}, // 1.5 → half-up
		{5, 3, 100}, // 스큐 입력 클램프
		{-1, 3, 0},
	}
	for _, tt := range tests {
		if got := Percentage(tt.part, tt.whole); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.part, tt.whole, got, tt.want)
		}
	}
}
