package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/metrics"
	"attendance-backend/internal/model"
	"attendance-backend/internal/store"
)

// AttendanceHandler 출석 핸들러
type AttendanceHandler struct {
	store store.Store
}

// NewAttendanceHandler AttendanceHandler 생성
func NewAttendanceHandler(st store.Store) *AttendanceHandler {
	return &AttendanceHandler{store: st}
}

// MarkAttendanceRequest 출석 기록 요청
type MarkAttendanceRequest struct {
	MeetingID string `json:"meetingId"`
	UserID    string `json:"userId"`
	Status    string `json:"status"` // present, absent
}

// UpdateStatusRequest 상태 변경 요청 (경로 파라미터로 대상 지정)
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// MarkAllRequest 미제출 멤버 일괄 처리 요청
type MarkAllRequest struct {
	Status string `json:"status"`
}

// ScanRequest QR 스캔 요청 - meetingId가 없으면 오늘의 모임을 쓴다
type ScanRequest struct {
	MeetingID string `json:"meetingId"`
	QrCode    string `json:"qrCode"`
}

// GetMeetingAttendance 모임의 원본 출석 기록 목록
func (h *AttendanceHandler) GetMeetingAttendance(c *fiber.Ctx) error {
	meetingID := c.Params("meetingId")
	if _, err := h.store.GetMeeting(c.Context(), meetingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "meeting not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up meeting",
		})
	}

	records, err := h.store.AttendanceForMeeting(c.Context(), meetingID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list attendance records",
		})
	}
	return c.JSON(records)
}

// GetMeetingSummary 모임의 정본 출석 요약
func (h *AttendanceHandler) GetMeetingSummary(c *fiber.Ctx) error {
	meeting, summary, err := loadSummary(c.Context(), h.store, c.Params("meetingId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "meeting not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to build summary",
		})
	}

	return c.JSON(fiber.Map{
		"meeting": meeting,
		"summary": summary,
	})
}

// MarkAttendance 출석 상태 기록 (본문으로 대상 지정)
func (h *AttendanceHandler) MarkAttendance(c *fiber.Ctx) error {
	var req MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	return h.writeStatus(c, req.MeetingID, req.UserID, model.AttendanceStatus(req.Status))
}

// UpdateAttendance 출석 상태 변경 (경로로 대상 지정)
func (h *AttendanceHandler) UpdateAttendance(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	return h.writeStatus(c, c.Params("meetingId"), c.Params("userId"), model.AttendanceStatus(req.Status))
}

// MarkAllPending 미제출(pending) 멤버 전원을 같은 상태로 기록
//
// 시간창이 닫혀 있으면 단 한 건도 쓰지 않고 전체를 거부한다.
func (h *AttendanceHandler) MarkAllPending(c *fiber.Ctx) error {
	claims := currentClaims(c)
	if claims == nil || !claims.Role.CanMarkAttendance() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "only sonai or chairman can mark attendance",
		})
	}

	var req MarkAllRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	status := model.AttendanceStatus(req.Status)
	if err := attendance.ValidateStatus(status); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status must be present or absent",
		})
	}

	meeting, summary, err := loadSummary(c.Context(), h.store, c.Params("meetingId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "meeting not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to build summary",
		})
	}

	now := time.Now()
	if !attendance.IsWriteAllowed(meeting, now) {
		metrics.WindowRejections.Inc()
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "attendance window is closed",
			"window": attendance.WindowMessage(meeting, now),
		})
	}

	updated := 0
	for _, ms := range summary.Members {
		if ms.Status != model.StatusPending {
			continue
		}
		if _, err := h.store.UpsertAttendance(c.Context(), meeting.ID, ms.User.ID, status, now); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record attendance",
			})
		}
		metrics.AttendanceWrites.WithLabelValues(status.String()).Inc()
		updated++
	}

	_, after, err := loadSummary(c.Context(), h.store, meeting.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to build summary",
		})
	}

	return c.JSON(fiber.Map{
		"updated": updated,
		"summary": after,
	})
}

// Scan QR 코드로 회원을 찾아 present 기록
func (h *AttendanceHandler) Scan(c *fiber.Ctx) error {
	claims := currentClaims(c)
	if claims == nil || !claims.Role.CanMarkAttendance() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "only sonai or chairman can mark attendance",
		})
	}

	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	now := time.Now()

	var meeting *model.Meeting
	var err error
	if req.MeetingID != "" {
		meeting, err = h.store.GetMeeting(c.Context(), req.MeetingID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to look up meeting",
			})
		}
	} else {
		meeting, err = h.store.TodaysMeeting(c.Context(), now)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to look up today's meeting",
			})
		}
	}
	if meeting == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no meeting to scan against",
		})
	}

	users, err := h.store.ListUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list users",
		})
	}

	user, err := attendance.ResolveByQrCode(req.QrCode, attendance.Roster(users))
	if err != nil {
		metrics.QrScans.WithLabelValues("unknown").Inc()
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no matching roster member",
		})
	}

	if !attendance.IsWriteAllowed(meeting, now) {
		metrics.QrScans.WithLabelValues("window_closed").Inc()
		metrics.WindowRejections.Inc()
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "attendance window is closed",
			"window": attendance.WindowMessage(meeting, now),
		})
	}

	record, err := h.store.UpsertAttendance(c.Context(), meeting.ID, user.ID, model.StatusPresent, now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to record attendance",
		})
	}
	metrics.QrScans.WithLabelValues("ok").Inc()
	metrics.AttendanceWrites.WithLabelValues(model.StatusPresent.String()).Inc()

	return c.JSON(fiber.Map{
		"user":   user,
		"record": record,
	})
}

// writeStatus 단건 쓰기 공통 경로 - 권한, 상태 검증, 시간창 순서로 거른다
func (h *AttendanceHandler) writeStatus(c *fiber.Ctx, meetingID, userID string, status model.AttendanceStatus) error {
	claims := currentClaims(c)
	if claims == nil || !claims.Role.CanMarkAttendance() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "only sonai or chairman can mark attendance",
		})
	}

	if meetingID == "" || userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "meetingId and userId are required",
		})
	}

	if err := attendance.ValidateStatus(status); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status must be present or absent",
		})
	}

	meeting, err := h.store.GetMeeting(c.Context(), meetingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "meeting not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up meeting",
		})
	}

	now := time.Now()
	if !attendance.IsWriteAllowed(meeting, now) {
		metrics.WindowRejections.Inc()
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "attendance window is closed",
			"window": attendance.WindowMessage(meeting, now),
		})
	}

	record, err := h.store.UpsertAttendance(c.Context(), meetingID, userID, status, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to record attendance",
		})
	}
	metrics.AttendanceWrites.WithLabelValues(status.String()).Inc()

	return c.JSON(record)
}
