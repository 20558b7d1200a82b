package store

import (
	"context"
	"errors"
	"time"

	"attendance-backend/internal/model"
)

var (
	// ErrNotFound 대상 엔티티 없음
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail 이메일 중복 (로그인 키)
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store 영속성 어댑터 계약
//
// 메모리 백엔드(숫자 문자열 id, 프로세스 수명)와 Postgres 백엔드(UUID id)가
// 동일하게 만족해야 한다. 핸들러와 엔진은 어느 쪽이 주입되었는지 모른다.
type Store interface {
	// Users
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error

	// Meetings
	ListMeetings(ctx context.Context) ([]model.Meeting, error)
	GetMeeting(ctx context.Context, id string) (*model.Meeting, error)
	CreateMeeting(ctx context.Context, m *model.Meeting) error
	// TodaysMeeting now 기준 당일 [00:00, 24:00) 범위의 활성 모임 조회.
	// 같은 날에 여러 건이면 가장 나중에 생성된 모임이 이긴다 (재조정 시나리오).
	// 없으면 (nil, nil).
	TodaysMeeting(ctx context.Context, now time.Time) (*model.Meeting, error)

	// Attendance
	AttendanceForMeeting(ctx context.Context, meetingID string) ([]model.AttendanceRecord, error)
	// UpsertAttendance (meetingID, userID) 쌍의 기존 기록을 갱신하거나 새로 만든다.
	// 쌍당 1건 불변식은 여기서 보장된다 - 중복 행은 절대 생기지 않는다.
	UpsertAttendance(ctx context.Context, meetingID, userID string, status model.AttendanceStatus, now time.Time) (*model.AttendanceRecord, error)
}

// dayBounds now가 속한 달력일의 [시작, 다음날 시작) 경계 (로컬 시간)
func dayBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
