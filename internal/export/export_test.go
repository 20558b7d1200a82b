package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/model"
)

func sampleReport() Report {
	date := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	theme := "Export, Growth & Beyond" // 쉼표 포함 - 인용 처리 검증용
	meeting := model.Meeting{ID: "m1", Date: date, Venue: "Hotel Sangam, Madurai", Theme: &theme, IsActive: true}

	roster := []model.User{
		{ID: "1", Email: "raja@cedoi.test", Name: "Raja, Jr.", Company: "Textiles, Ltd", Role: model.RoleMember},
		{ID: "2", Email: "anon@cedoi.test", Name: "", Company: "", Role: model.RoleSonai},
	}
	records := []model.AttendanceRecord{
		{ID: "r1", MeetingID: "m1", UserID: "1", Status: model.StatusPresent, Timestamp: date},
	}
	summary := attendance.Reconcile(roster, records)
	return NewReport(meeting, summary, date.Add(time.Hour))
}

func TestCSVQuotingAndCounts(t *testing.T) {
	out, err := CSV(sampleReport())
	if err != nil {
		t.Fatal(err)
	}

	// 쉼표가 든 값이 파싱을 깨지 않아야 한다
	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse exported csv: %v", err)
	}

	var memberRows [][]string
	inTable := false
	for _, row := range rows {
		if len(row) == 4 && row[0] == "Name" {
			inTable = true
			continue
		}
		if inTable {
			memberRows = append(memberRows, row)
		}
	}
	if len(memberRows) != 2 {
		t.Fatalf("member rows = %d, want 2", len(memberRows))
	}
	if memberRows[0][0] != "Raja, Jr." || memberRows[0][3] != "present" {
		t.Errorf("row 0 = %v", memberRows[0])
	}
	// 빈 이름/회사는 단일 렌더링 경계에서 기본값으로 대체
	if memberRows[1][0] != "anon@cedoi.test" || memberRows[1][1] != "-" {
		t.Errorf("fallback row = %v", memberRows[1])
	}
	if memberRows[1][3] != "pending" {
		t.Errorf("unmarked member status = %s, want pending", memberRows[1][3])
	}

	text := string(out)
	if !strings.Contains(text, "Attendance Rate,50%") {
		t.Errorf("header block missing aggregate counts:\n%s", text)
	}
}

func TestHTMLRenders(t *testing.T) {
	out, err := HTML(sampleReport())
	if err != nil {
		t.Fatal(err)
	}
	doc := string(out)
	for _, want := range []string{"CEDOI Madurai Forum", "Raja, Jr.", "Hotel Sangam, Madurai", "pending"} {
		if !strings.Contains(doc, want) {
			t.Errorf("print document missing %q", want)
		}
	}
}

func TestExcelRenders(t *testing.T) {
	out, err := Excel(sampleReport())
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("re-open workbook: %v", err)
	}
	defer f.Close()

	title, _ := f.GetCellValue(sheetName, "A1")
	if title != "CEDOI Madurai Forum - Attendance Report" {
		t.Errorf("A1 = %q", title)
	}
	// 멤버 표 헤더는 메타 블록(10행) + 빈 줄 다음
	hdr, _ := f.GetCellValue(sheetName, "A12")
	if hdr != "Name" {
		t.Errorf("A12 = %q, want Name", hdr)
	}
}
