package export

import (
	"bytes"
	"html/template"
)

// printTemplate 인쇄용 단독 HTML 문서
var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: Georgia, serif; margin: 40px; color: #222; }
  h1 { font-size: 20px; border-bottom: 2px solid #222; padding-bottom: 8px; }
  .meta { margin: 16px 0; font-size: 14px; }
  .meta div { margin: 2px 0; }
  .counts { margin: 16px 0; font-size: 14px; font-weight: bold; }
  table { border-collapse: collapse; width: 100%; margin-top: 12px; }
  th, td { border: 1px solid #999; padding: 6px 10px; font-size: 13px; text-align: left; }
  th { background: #eee; }
  .present { color: #166534; }
  .absent { color: #991b1b; }
  .pending { color: #92400e; }
  @media print { body { margin: 10mm; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">
  <div>Date: {{.Meeting.Date.Format "Monday, 02 Jan 2006"}}</div>
  <div>Time: {{.Meeting.Date.Format "3:04 PM"}}</div>
  <div>Venue: {{.Meeting.Venue}}</div>
  <div>Theme: {{.Theme}}</div>
  <div>Generated: {{.GeneratedAt.Format "02 Jan 2006 3:04 PM"}}</div>
</div>
<div class="counts">
  Present: {{.Summary.PresentCount}} &middot;
  Absent: {{.Summary.AbsentCount}} &middot;
  Pending: {{.Summary.PendingCount}} &middot;
  Attendance Rate: {{.Summary.AttendanceRate}}%
</div>
<table>
  <tr><th>Name</th><th>Company</th><th>Role</th><th>Attendance Status</th></tr>
  {{range .Rows}}<tr>
    <td>{{.Name}}</td><td>{{.Company}}</td><td>{{.Role}}</td>
    <td class="{{.Status}}">{{.Status}}</td>
  </tr>
  {{end}}
</table>
</body>
</html>`))

// HTML 보고서를 인쇄용 HTML 문서로 렌더링
func HTML(r Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
