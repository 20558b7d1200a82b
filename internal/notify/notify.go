package notify

import (
	"fmt"
	"time"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/model"
)

// 알림은 조회할 때마다 전부 다시 계산되는 투영이다. 저장하지 않고, 전달을 보장하지
// 않으며, 증분 상태도 없다.

// Type 알림 종류
type Type string

const (
	TypeReminder       Type = "reminder"
	TypeActionRequired Type = "action_required"
	TypeInfo           Type = "info"
)

// Notification 클라이언트 로컬 알림 항목 (비영속, 권고용)
type Notification struct {
	Type      Type   `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	MeetingID string `json:"meetingId,omitempty"`
}

// Build viewer 관점의 알림 목록 생성
//
// today / todaySummary는 당일 모임이 없으면 nil. 빈 입력에도 안전해야 한다.
func Build(viewer model.User, meetings []model.Meeting, today *model.Meeting, todaySummary *attendance.Summary, now time.Time) []Notification {
	notifications := make([]Notification, 0, 4)

	// 1. 60분 내 시작하는 모임 리마인더
	for _, m := range meetings {
		if !m.IsActive {
			continue
		}
		until := m.Date.Sub(now)
		if until > 0 && until <= time.Hour {
			notifications = append(notifications, Notification{
				Type:      TypeReminder,
				Title:     "Meeting starting soon",
				Message:   fmt.Sprintf("Forum meeting at %s starts in %d minutes", m.Venue, int(until/time.Minute)),
				MeetingID: m.ID,
			})
		}
	}

	// 2. 당일 모임에 내 출석 제출이 아직 없는 organizer
	if today != nil && todaySummary != nil && viewer.Role == model.RoleSonai {
		for _, ms := range todaySummary.Members {
			if ms.User.ID == viewer.ID && ms.Status == model.StatusPending {
				notifications = append(notifications, Notification{
					Type:      TypeActionRequired,
					Title:     "Attendance not submitted",
					Message:   "Today's meeting is missing your attendance submission",
					MeetingID: today.ID,
				})
				break
			}
		}
	}

	// 3. 최근 하루 안에 생성됐고 아직 열리지 않은 모임
	for _, m := range meetings {
		if !m.IsActive || !m.Date.After(now) {
			continue
		}
		if now.Sub(m.CreatedAt) <= 24*time.Hour {
			notifications = append(notifications, Notification{
				Type:      TypeInfo,
				Title:     "New meeting scheduled",
				Message:   fmt.Sprintf("A meeting was scheduled for %s at %s", m.Date.Format("Mon, 02 Jan 3:04 PM"), m.Venue),
				MeetingID: m.ID,
			})
		}
	}

	// 4. chairman 라이브 뷰 - 당일 present/전체 집계
	if today != nil && todaySummary != nil && viewer.Role == model.RoleChairman {
		notifications = append(notifications, Notification{
			Type:      TypeInfo,
			Title:     "Live attendance",
			Message:   fmt.Sprintf("%d of %d members marked present", todaySummary.PresentCount, todaySummary.RosterSize),
			MeetingID: today.ID,
		})
	}

	return notifications
}
