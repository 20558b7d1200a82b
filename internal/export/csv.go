package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// csvHeader 멤버 표의 컬럼 - 세 포맷이 공유한다
var csvHeader = []string{"Name", "Company", "Role", "Attendance Status"}

// CSV 보고서를 CSV 바이트로 렌더링
//
// 헤더 블록(모임 메타 + 집계) 다음에 멤버 표가 온다. 쉼표가 들어간 값은
// encoding/csv가 인용 처리한다.
func CSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	head := [][]string{
		{r.Title()},
		{"Meeting Date", r.Meeting.Date.Format("Monday, 02 Jan 2006")},
		{"Time", r.Meeting.Date.Format("3:04 PM")},
		{"Venue", r.Meeting.Venue},
		{"Theme", r.Theme()},
		{"Generated At", r.GeneratedAt.Format("02 Jan 2006 3:04 PM")},
		{"Total Members", fmt.Sprintf("%d", r.Summary.RosterSize)},
		{"Present", fmt.Sprintf("%d", r.Summary.PresentCount)},
		{"Absent", fmt.Sprintf("%d", r.Summary.AbsentCount)},
		{"Pending", fmt.Sprintf("%d", r.Summary.PendingCount)},
		{"Attendance Rate", fmt.Sprintf("%d%%", r.Summary.AttendanceRate)},
		{},
		csvHeader,
	}
	for _, line := range head {
		if err := w.Write(line); err != nil {
			return nil, fmt.Errorf("write csv header: %w", err)
		}
	}

	for _, row := range r.Rows() {
		if err := w.Write([]string{row.Name, row.Company, row.Role, row.Status}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
