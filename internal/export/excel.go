package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Attendance"

// Excel 보고서를 xlsx 워크북으로 렌더링
func Excel(r Report) ([]byte, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	// 헤더 블록
	meta := [][]string{
		{r.Title()},
		{"Meeting Date", r.Meeting.Date.Format("Monday, 02 Jan 2006")},
		{"Time", r.Meeting.Date.Format("3:04 PM")},
		{"Venue", r.Meeting.Venue},
		{"Theme", r.Theme()},
		{"Generated At", r.GeneratedAt.Format("02 Jan 2006 3:04 PM")},
		{"Present", fmt.Sprintf("%d", r.Summary.PresentCount)},
		{"Absent", fmt.Sprintf("%d", r.Summary.AbsentCount)},
		{"Pending", fmt.Sprintf("%d", r.Summary.PendingCount)},
		{"Attendance Rate", fmt.Sprintf("%d%%", r.Summary.AttendanceRate)},
	}
	for i, line := range meta {
		for c, val := range line {
			cell := fmt.Sprintf("%s%d", colName(c+1), i+1)
			if err := f.SetCellStr(sheetName, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	_ = f.SetCellStyle(sheetName, "A1", "A1", bold)

	// 멤버 표 (헤더 블록 아래 한 줄 띄우고)
	headerRow := len(meta) + 2
	for c, h := range csvHeader {
		cell := fmt.Sprintf("%s%d", colName(c+1), headerRow)
		if err := f.SetCellStr(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end := fmt.Sprintf("%s%d", colName(len(csvHeader)), headerRow)
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("A%d", headerRow), end, bold)
	_ = f.AutoFilter(sheetName, fmt.Sprintf("A%d:%s", headerRow, end), nil)

	rows := r.Rows()
	for i, row := range rows {
		values := []string{row.Name, row.Company, row.Role, row.Status}
		for c, val := range values {
			cell := fmt.Sprintf("%s%d", colName(c+1), headerRow+1+i)
			if err := f.SetCellStr(sheetName, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// 휴리스틱 컬럼 너비: 헤더와 앞쪽 행 길이 기준
	for c := 1; c <= len(csvHeader); c++ {
		maxim := len(csvHeader[c-1])
		for i := 0; i < len(rows) && i < 50; i++ {
			values := []string{rows[i].Name, rows[i].Company, rows[i].Role, rows[i].Status}
			if l := len(values[c-1]); l > maxim {
				maxim = l
			}
		}
		w := float64(maxim) * 0.9
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheetName, colName(c), colName(c), w)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// colName 1 → A, 2 → B, ... 27 → AA
func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}
