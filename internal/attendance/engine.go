package attendance

import (
	"errors"
	"time"

	"attendance-backend/internal/model"
)

var (
	// ErrWindowClosed 출석 허용 시간창 밖의 쓰기
	ErrWindowClosed = errors.New("attendance window is closed")
	// ErrNotFound QR/회원 조회 실패
	ErrNotFound = errors.New("no matching roster member")
	// ErrInvalidStatus present/absent 이외의 상태 값
	ErrInvalidStatus = errors.New("status must be present or absent")
)

// MemberStatus roster 멤버 1명의 유효 상태
type MemberStatus struct {
	User     model.User             `json:"user"`
	Status   model.AttendanceStatus `json:"status"` // present, absent, pending
	MarkedAt *time.Time             `json:"markedAt,omitempty"`
}

// Summary 모임 1건에 대한 정본 출석 뷰
//
// 모든 화면(리스트, 라이브 모니터, 대시보드, CSV/인쇄 내보내기)은 이 구조만 소비한다.
// 어떤 화면도 상태를 따로 재계산하지 않는다.
type Summary struct {
	Members              []MemberStatus `json:"members"`
	RosterSize           int            `json:"rosterSize"`
	PresentCount         int            `json:"presentCount"`
	AbsentCount          int            `json:"absentCount"`
	PendingCount         int            `json:"pendingCount"`
	IsComplete           bool           `json:"isComplete"`
	CompletionPercentage int            `json:"completionPercentage"`
	AttendanceRate       int            `json:"attendanceRate"`
}

// Roster 전체 회원 중 출석 대상만 추림 (member, sonai - chairman 제외)
func Roster(users []model.User) []model.User {
	roster := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.Role.InRoster() {
			roster = append(roster, u)
		}
	}
	return roster
}

// Reconcile roster와 출석 기록으로부터 결정적 Summary를 만든다
//
// 단일 패스 O(|records| + |roster|):
//  1. userID → 기록 매핑. 중복 userID는 나중 기록이 이긴다
//     (쓰기 경로가 중복을 막지만, 스토어가 중복을 돌려줘도 여기서 흡수).
//  2. roster 멤버별 유효 상태 = 매핑 값, 없으면 pending. absent로 기본 처리하지 않는다.
//  3. 집계는 roster 파티션 크기로만 센다 - roster 밖 사용자의 기록은 집계에 들어가지 않는다.
func Reconcile(roster []model.User, records []model.AttendanceRecord) Summary {
	marked := make(map[string]model.AttendanceRecord, len(records))
	for _, rec := range records {
		marked[rec.UserID] = rec
	}

	summary := Summary{
		Members:    make([]MemberStatus, 0, len(roster)),
		RosterSize: len(roster),
	}

	for _, member := range roster {
		ms := MemberStatus{User: member, Status: model.StatusPending}
		if rec, ok := marked[member.ID]; ok && rec.Status.Storable() {
			ms.Status = rec.Status
			ts := rec.Timestamp
			ms.MarkedAt = &ts
			switch rec.Status {
			case model.StatusPresent:
				summary.PresentCount++
			case model.StatusAbsent:
				summary.AbsentCount++
			}
		}
		summary.Members = append(summary.Members, ms)
	}

	summary.PendingCount = summary.RosterSize - summary.PresentCount - summary.AbsentCount
	// 빈 roster는 절대 complete가 아니다 (100% 오탐 방지)
	summary.IsComplete = summary.PendingCount == 0 && summary.RosterSize > 0
	summary.CompletionPercentage = Percentage(summary.PresentCount+summary.AbsentCount, summary.RosterSize)
	summary.AttendanceRate = Percentage(summary.PresentCount, summary.RosterSize)

	return summary
}

// Pending 아직 기록이 없는 roster 멤버 목록 (bulk mark-all 대상)
func Pending(roster []model.User, records []model.AttendanceRecord) []model.User {
	summary := Reconcile(roster, records)
	pending := make([]model.User, 0, summary.PendingCount)
	for _, ms := range summary.Members {
		if ms.Status == model.StatusPending {
			pending = append(pending, ms.User)
		}
	}
	return pending
}

// ResolveByQrCode 스캔 값으로 roster 멤버 조회 (대소문자 구분, 정확히 일치)
func ResolveByQrCode(qrCode string, roster []model.User) (*model.User, error) {
	if qrCode == "" {
		return nil, ErrNotFound
	}
	for i := range roster {
		if roster[i].QrCode != nil && *roster[i].QrCode == qrCode {
			return &roster[i], nil
		}
	}
	return nil, ErrNotFound
}

// ValidateStatus 저장 가능한 상태인지 검증
func ValidateStatus(s model.AttendanceStatus) error {
	if !s.Storable() {
		return ErrInvalidStatus
	}
	return nil
}

// Percentage round-half-up 백분율, [0,100] 클램프 (스큐된 입력 방어)
func Percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	p := (200*part + whole) / (2 * whole)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
