package handler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"attendance-backend/internal/export"
	"attendance-backend/internal/metrics"
	"attendance-backend/internal/store"
)

// ExportHandler 출석 보고서 내보내기 핸들러
type ExportHandler struct {
	store store.Store
}

// NewExportHandler ExportHandler 생성
func NewExportHandler(st store.Store) *ExportHandler {
	return &ExportHandler{store: st}
}

// ExportCSV CSV 다운로드
func (h *ExportHandler) ExportCSV(c *fiber.Ctx) error {
	report, err := h.buildReport(c)
	if err != nil {
		return reportError(c, err)
	}

	data, err := export.CSV(*report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate csv",
		})
	}
	metrics.ExportsGenerated.WithLabelValues("csv").Inc()

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, attachmentName(report, "csv"))
	return c.Send(data)
}

// ExportExcel Excel 다운로드
func (h *ExportHandler) ExportExcel(c *fiber.Ctx) error {
	report, err := h.buildReport(c)
	if err != nil {
		return reportError(c, err)
	}

	data, err := export.Excel(*report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate excel",
		})
	}
	metrics.ExportsGenerated.WithLabelValues("excel").Inc()

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, attachmentName(report, "xlsx"))
	return c.Send(data)
}

// ExportPrint 인쇄용 HTML 문서 (인라인)
func (h *ExportHandler) ExportPrint(c *fiber.Ctx) error {
	report, err := h.buildReport(c)
	if err != nil {
		return reportError(c, err)
	}

	data, err := export.HTML(*report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate print document",
		})
	}
	metrics.ExportsGenerated.WithLabelValues("print").Inc()

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(data)
}

// buildReport 모임 조회 + Summary 계산
func (h *ExportHandler) buildReport(c *fiber.Ctx) (*export.Report, error) {
	meeting, summary, err := loadSummary(c.Context(), h.store, c.Params("meetingId"))
	if err != nil {
		return nil, err
	}

	report := export.NewReport(*meeting, *summary, time.Now())
	return &report, nil
}

// reportError 보고서 조립 실패를 상태 코드로 변환
func reportError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "meeting not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "failed to build report",
	})
}

// attachmentName 모임 날짜 기반 다운로드 파일명
func attachmentName(r *export.Report, ext string) string {
	return fmt.Sprintf(`attachment; filename="attendance-%s.%s"`, r.Meeting.Date.Format("2006-01-02"), ext)
}
