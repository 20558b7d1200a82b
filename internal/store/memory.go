package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"attendance-backend/internal/model"
)

// Memory 인메모리 백엔드
//
// 뮤텍스로 보호되는 맵. id는 "1", "2", ... 순증 숫자 문자열이며 프로세스 수명 동안만
// 유효하다. 전역 싱글턴이 아니라 명시적으로 생성해 주입한다 - 테스트마다 격리된
// 인스턴스를 쓸 수 있도록.
type Memory struct {
	mu          sync.RWMutex
	nextID      int64
	users       map[string]model.User
	usersByMail map[string]string // email → id
	meetings    map[string]model.Meeting
	attendance  map[string]model.AttendanceRecord // id → record
	byMeeting   map[string]map[string]string      // meetingID → userID → recordID
}

// NewMemory Memory 생성
func NewMemory() *Memory {
	return &Memory{
		nextID:      1,
		users:       make(map[string]model.User),
		usersByMail: make(map[string]string),
		meetings:    make(map[string]model.Meeting),
		attendance:  make(map[string]model.AttendanceRecord),
		byMeeting:   make(map[string]map[string]string),
	}
}

func (s *Memory) issueID() string {
	id := strconv.FormatInt(s.nextID, 10)
	s.nextID++
	return id
}

// ListUsers 전체 회원 목록 (id 오름차순)
func (s *Memory) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return numericLess(users[i].ID, users[j].ID)
	})
	return users, nil
}

// GetUser 회원 단건 조회
func (s *Memory) GetUser(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// GetUserByEmail 이메일로 회원 조회 (로그인 키)
func (s *Memory) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByMail[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

// CreateUser 회원 생성
func (s *Memory) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByMail[u.Email]; exists {
		return ErrDuplicateEmail
	}
	u.ID = s.issueID()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.users[u.ID] = *u
	s.usersByMail[u.Email] = u.ID
	return nil
}

// ListMeetings 전체 모임 목록 (날짜 내림차순)
func (s *Memory) ListMeetings(_ context.Context) ([]model.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meetings := make([]model.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		meetings = append(meetings, m)
	}
	sort.Slice(meetings, func(i, j int) bool {
		return meetings[i].Date.After(meetings[j].Date)
	})
	return meetings, nil
}

// GetMeeting 모임 단건 조회
func (s *Memory) GetMeeting(_ context.Context, id string) (*model.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

// CreateMeeting 모임 생성
func (s *Memory) CreateMeeting(_ context.Context, m *model.Meeting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m.ID = s.issueID()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.meetings[m.ID] = *m
	return nil
}

// TodaysMeeting 당일 활성 모임 조회 - 같은 날 여러 건이면 가장 나중에 생성된 것
func (s *Memory) TodaysMeeting(_ context.Context, now time.Time) (*model.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dayStart, dayEnd := dayBounds(now)
	var found *model.Meeting
	for _, m := range s.meetings {
		if !m.IsActive {
			continue
		}
		if m.Date.Before(dayStart) || !m.Date.Before(dayEnd) {
			continue
		}
		if found == nil || m.CreatedAt.After(found.CreatedAt) {
			mm := m
			found = &mm
		}
	}
	return found, nil
}

// AttendanceForMeeting 모임의 출석 기록 전체
func (s *Memory) AttendanceForMeeting(_ context.Context, meetingID string) ([]model.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byMeeting[meetingID]
	records := make([]model.AttendanceRecord, 0, len(ids))
	for _, recID := range ids {
		records = append(records, s.attendance[recID])
	}
	sort.Slice(records, func(i, j int) bool {
		return numericLess(records[i].ID, records[j].ID)
	})
	return records, nil
}

// UpsertAttendance 출석 기록 upsert - 쌍당 1건 불변식의 집행 지점
func (s *Memory) UpsertAttendance(_ context.Context, meetingID, userID string, status model.AttendanceStatus, now time.Time) (*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[meetingID]; !ok {
		return nil, ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return nil, ErrNotFound
	}

	byUser, ok := s.byMeeting[meetingID]
	if !ok {
		byUser = make(map[string]string)
		s.byMeeting[meetingID] = byUser
	}

	if recID, exists := byUser[userID]; exists {
		rec := s.attendance[recID]
		rec.Status = status
		rec.Timestamp = now
		s.attendance[recID] = rec
		return &rec, nil
	}

	rec := model.AttendanceRecord{
		ID:        s.issueID(),
		MeetingID: meetingID,
		UserID:    userID,
		Status:    status,
		Timestamp: now,
	}
	s.attendance[rec.ID] = rec
	byUser[userID] = rec.ID
	return &rec, nil
}

// numericLess 숫자 문자열 id 비교 ("10" > "9")
func numericLess(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	if errA != nil || errB != nil {
		return a < b
	}
	return ai < bi
}
