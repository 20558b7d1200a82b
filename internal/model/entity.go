package model

import (
	"time"
)

// User 포럼 회원 (CEDOI Madurai Forum)
type User struct {
	ID      string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email   string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name    string  `gorm:"type:varchar(100)" json:"name"`
	Company string  `gorm:"type:varchar(200)" json:"company"`
	Role    Role    `gorm:"type:varchar(20);not null" json:"role"` // chairman, sonai, member
	QrCode  *string `gorm:"type:varchar(64);index" json:"qrCode,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// Meeting 포럼 정기 모임
type Meeting struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Date         time.Time `gorm:"not null;index" json:"date"`
	Venue        string    `gorm:"type:varchar(200);not null" json:"venue"`
	Theme        *string   `gorm:"type:varchar(255)" json:"theme,omitempty"`
	CreatedBy    string    `gorm:"type:varchar(36);not null" json:"createdBy"`
	RepeatWeekly bool      `gorm:"default:false" json:"repeatWeekly"` // 정보용, 반복 생성 엔진 없음
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`

	// Relations
	Creator User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (Meeting) TableName() string {
	return "meetings"
}

// AttendanceRecord 출석 기록
//
// (MeetingID, UserID) 쌍당 최대 1건. 같은 쌍에 다시 쓰면 기존 행을 갱신한다(upsert).
// "pending"은 저장하지 않는다 - 기록이 없는 roster 멤버가 곧 pending.
type AttendanceRecord struct {
	ID        string           `gorm:"primaryKey;type:varchar(36)" json:"id"`
	MeetingID string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_attendance_meeting_user" json:"meetingId"`
	UserID    string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_attendance_meeting_user" json:"userId"`
	Status    AttendanceStatus `gorm:"type:varchar(10);not null" json:"status"` // present, absent
	Timestamp time.Time        `gorm:"not null" json:"timestamp"`               // 마지막 쓰기 시각

	// Relations
	Meeting Meeting `gorm:"foreignKey:MeetingID" json:"meeting,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
