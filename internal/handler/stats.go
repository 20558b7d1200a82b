package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/model"
	"attendance-backend/internal/store"
)

// StatsHandler 출석 통계 핸들러
type StatsHandler struct {
	store store.Store
}

// NewStatsHandler StatsHandler 생성
func NewStatsHandler(st store.Store) *StatsHandler {
	return &StatsHandler{store: st}
}

// StatsResponse 통계 응답
type StatsResponse struct {
	TotalMeetings     int `json:"totalMeetings"`
	AverageAttendance int `json:"averageAttendance"` // 백분율
	PresentCount      int `json:"presentCount"`
	AbsentCount       int `json:"absentCount"`
}

// GetStats 포럼 전체 통계
//
// 모임별로 Summary를 다시 계산해 집계한다. 평균 출석률은
// (전체 present) / (전체 roster 슬롯)의 백분율.
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	meetings, err := h.store.ListMeetings(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list meetings",
		})
	}

	users, err := h.store.ListUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list users",
		})
	}
	roster := attendance.Roster(users)

	resp := StatsResponse{TotalMeetings: len(meetings)}
	slots := 0
	for _, m := range meetings {
		records, err := h.store.AttendanceForMeeting(c.Context(), m.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list attendance records",
			})
		}
		s := attendance.Reconcile(roster, records)
		resp.PresentCount += s.PresentCount
		resp.AbsentCount += s.AbsentCount
		slots += s.RosterSize
	}
	resp.AverageAttendance = attendance.Percentage(resp.PresentCount, slots)

	return c.JSON(resp)
}

// GetUserStats 회원 1명의 통계
//
// 평균 출석률은 전체 모임 수 대비 present 기록 수의 백분율. 기록이 없는
// 모임은 pending으로 남아 분모에만 들어간다.
func (h *StatsHandler) GetUserStats(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if _, err := h.store.GetUser(c.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up user",
		})
	}

	meetings, err := h.store.ListMeetings(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list meetings",
		})
	}

	resp := StatsResponse{TotalMeetings: len(meetings)}
	for _, m := range meetings {
		records, err := h.store.AttendanceForMeeting(c.Context(), m.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list attendance records",
			})
		}
		for _, rec := range records {
			if rec.UserID != userID {
				continue
			}
			switch rec.Status {
			case model.StatusPresent:
				resp.PresentCount++
			case model.StatusAbsent:
				resp.AbsentCount++
			}
		}
	}
	resp.AverageAttendance = attendance.Percentage(resp.PresentCount, resp.TotalMeetings)

	return c.JSON(resp)
}
