package export

import (
	"time"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/model"
)

// Report 내보내기용 출석 보고서
//
// CSV / Excel / 인쇄 문서가 전부 이 구조 하나에서 렌더링된다. 상태 재계산 금지 -
// Summary는 reconciliation 엔진이 만든 것을 그대로 쓴다.
type Report struct {
	Meeting     model.Meeting
	Summary     attendance.Summary
	GeneratedAt time.Time
}

// Row 멤버 1명의 출력 행
type Row struct {
	Name    string
	Company string
	Role    string
	Status  string
}

// NewReport Report 생성
func NewReport(meeting model.Meeting, summary attendance.Summary, now time.Time) Report {
	return Report{Meeting: meeting, Summary: summary, GeneratedAt: now}
}

// Rows 멤버 행 목록 - 비어 있을 수 있는 필드의 기본값 정책은 여기 한 곳에만 있다
func (r Report) Rows() []Row {
	rows := make([]Row, 0, len(r.Summary.Members))
	for _, ms := range r.Summary.Members {
		rows = append(rows, Row{
			Name:    fallback(ms.User.Name, ms.User.Email),
			Company: fallback(ms.User.Company, "-"),
			Role:    ms.User.Role.String(),
			Status:  ms.Status.String(),
		})
	}
	return rows
}

// Theme 테마 표시값
func (r Report) Theme() string {
	if r.Meeting.Theme == nil {
		return "-"
	}
	return fallback(*r.Meeting.Theme, "-")
}

// Title 보고서 제목
func (r Report) Title() string {
	return "CEDOI Madurai Forum - Attendance Report"
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
