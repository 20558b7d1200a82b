package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendance-backend/internal/model"
)

// Gorm Postgres 백엔드
//
// id는 서버가 발급하는 UUID, 타임스탬프는 쓰기 시점에 서버가 채운다.
// 메모리 백엔드와 동일한 Store 계약을 만족한다.
type Gorm struct {
	db *gorm.DB
}

// NewGorm Gorm 백엔드 생성
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// ListUsers 전체 회원 목록
func (s *Gorm) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser 회원 단건 조회
func (s *Gorm) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail 이메일로 회원 조회
func (s *Gorm) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser 회원 생성
func (s *Gorm) CreateUser(ctx context.Context, u *model.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	return s.db.WithContext(ctx).Create(u).Error
}

// ListMeetings 전체 모임 목록 (날짜 내림차순)
func (s *Gorm) ListMeetings(ctx context.Context) ([]model.Meeting, error) {
	var meetings []model.Meeting
	if err := s.db.WithContext(ctx).Order("date DESC").Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// GetMeeting 모임 단건 조회
func (s *Gorm) GetMeeting(ctx context.Context, id string) (*model.Meeting, error) {
	var meeting model.Meeting
	err := s.db.WithContext(ctx).First(&meeting, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// CreateMeeting 모임 생성
func (s *Gorm) CreateMeeting(ctx context.Context, m *model.Meeting) error {
	m.ID = uuid.NewString()
	return s.db.WithContext(ctx).Create(m).Error
}

// TodaysMeeting 당일 활성 모임 - 같은 날 여러 건이면 가장 나중에 생성된 것
func (s *Gorm) TodaysMeeting(ctx context.Context, now time.Time) (*model.Meeting, error) {
	dayStart, dayEnd := dayBounds(now)

	var meeting model.Meeting
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND date >= ? AND date < ?", true, dayStart, dayEnd).
		Order("created_at DESC").
		First(&meeting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

// AttendanceForMeeting 모임의 출석 기록 전체
func (s *Gorm) AttendanceForMeeting(ctx context.Context, meetingID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("timestamp ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// UpsertAttendance 출석 기록 upsert - 쌍당 1건 불변식의 집행 지점
//
// (meeting_id, user_id) 유니크 인덱스가 2차 방어선이지만, 경쟁 쓰기는
// last-write-wins로 충분하다 (사람이 출석을 찍는 도메인).
func (s *Gorm) UpsertAttendance(ctx context.Context, meetingID, userID string, status model.AttendanceStatus, now time.Time) (*model.AttendanceRecord, error) {
	if _, err := s.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	var rec model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		First(&rec).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = model.AttendanceRecord{
			ID:        uuid.NewString(),
			MeetingID: meetingID,
			UserID:    userID,
			Status:    status,
			Timestamp: now,
		}
		if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
			return nil, err
		}
		return &rec, nil
	}
	if err != nil {
		return nil, err
	}

	rec.Status = status
	rec.Timestamp = now
	if err := s.db.WithContext(ctx).Model(&rec).
		Updates(map[string]interface{}{"status": status, "timestamp": now}).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
