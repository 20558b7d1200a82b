package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/notify"
	"attendance-backend/internal/store"
)

// NotificationHandler 알림 핸들러
//
// 알림은 저장되지 않는다. 요청 시점의 모임/출석 상태에서 매번 새로 계산한다.
type NotificationHandler struct {
	store store.Store
}

// NewNotificationHandler NotificationHandler 생성
func NewNotificationHandler(st store.Store) *NotificationHandler {
	return &NotificationHandler{store: st}
}

// GetNotifications 현재 사용자 관점의 알림 목록
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	claims := currentClaims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	viewer, err := h.store.GetUser(c.Context(), claims.UserID)
	if err != nil {
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

	now := time.Now()
	today, err := h.store.TodaysMeeting(c.Context(), now)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up today's meeting",
		})
	}

	var todaySummary *attendance.Summary
	if today != nil {
		_, todaySummary, err = loadSummary(c.Context(), h.store, today.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to build summary",
			})
		}
	}

	return c.JSON(notify.Build(*viewer, meetings, today, todaySummary, now))
}
