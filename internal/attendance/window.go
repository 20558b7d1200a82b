package attendance

import (
	"fmt"
	"time"

	"attendance-backend/internal/model"
)

// 출석 허용 시간창: 모임 시작 30분 전부터 시작 2시간 후까지 (양끝 포함)
const (
	WindowBeforeStart = 30 * time.Minute
	WindowAfterStart  = 2 * time.Hour
)

// Window 모임의 출석 허용 구간 [opensAt, closesAt]
func Window(meeting *model.Meeting) (opensAt, closesAt time.Time) {
	return meeting.Date.Add(-WindowBeforeStart), meeting.Date.Add(WindowAfterStart)
}

// IsWriteAllowed 현재 시각에 출석 쓰기가 허용되는지 - 읽기는 항상 허용된다
func IsWriteAllowed(meeting *model.Meeting, now time.Time) bool {
	opensAt, closesAt := Window(meeting)
	return !now.Before(opensAt) && !now.After(closesAt)
}

// WindowMessage now 대비 시간창 상태를 사람이 읽을 수 있는 문구로
//
// 네 가지 상호 배타 케이스: 창 이전 / 창 안(모임 전) / 창 안(모임 후) / 창 이후.
// 남은 시간은 올림, 지난 시간은 내림으로 분 단위 표기.
func WindowMessage(meeting *model.Meeting, now time.Time) string {
	opensAt, closesAt := Window(meeting)

	switch {
	case now.Before(opensAt):
		return fmt.Sprintf("attendance opens in %d minutes", minutesUntil(now, opensAt))
	case now.Before(meeting.Date):
		return fmt.Sprintf("attendance is open, meeting starts in %d minutes", minutesUntil(now, meeting.Date))
	case !now.After(closesAt):
		return fmt.Sprintf("meeting started %d minutes ago, attendance closes in %d minutes",
			minutesSince(now, meeting.Date), minutesUntil(now, closesAt))
	default:
		return fmt.Sprintf("attendance window closed %d minutes ago", minutesSince(now, closesAt))
	}
}

// minutesUntil now→t 남은 분 (올림, 음수 없음)
func minutesUntil(now, t time.Time) int {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}

// minutesSince t→now 지난 분 (내림)
func minutesSince(now, t time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}
