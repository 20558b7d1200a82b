package handler

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"attendance-backend/internal/model"
	"attendance-backend/internal/store"
)

// MeetingHandler 모임 핸들러
type MeetingHandler struct {
	store        store.Store
	defaultVenue string
}

// NewMeetingHandler MeetingHandler 생성
func NewMeetingHandler(st store.Store, defaultVenue string) *MeetingHandler {
	return &MeetingHandler{store: st, defaultVenue: defaultVenue}
}

// CreateMeetingRequest 모임 생성 요청
type CreateMeetingRequest struct {
	Date         string `json:"date"` // RFC3339
	Venue        string `json:"venue"`
	Theme        string `json:"theme"`
	RepeatWeekly bool   `json:"repeatWeekly"`
}

// GetMeetings 전체 모임 목록
func (h *MeetingHandler) GetMeetings(c *fiber.Ctx) error {
	meetings, err := h.store.ListMeetings(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list meetings",
		})
	}
	return c.JSON(meetings)
}

// GetTodaysMeeting 오늘의 모임 조회 - 없으면 null
func (h *MeetingHandler) GetTodaysMeeting(c *fiber.Ctx) error {
	meeting, err := h.store.TodaysMeeting(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up today's meeting",
		})
	}
	return c.JSON(meeting)
}

// GetMeeting 모임 단건 조회
func (h *MeetingHandler) GetMeeting(c *fiber.Ctx) error {
	meeting, err := h.store.GetMeeting(c.Context(), c.Params("id"))
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
	return c.JSON(meeting)
}

// CreateMeeting 모임 생성 (chairman 전용)
func (h *MeetingHandler) CreateMeeting(c *fiber.Ctx) error {
	claims := currentClaims(c)
	if claims == nil || !claims.Role.CanScheduleMeetings() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "only the chairman can schedule meetings",
		})
	}

	var req CreateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "date must be RFC3339",
		})
	}

	venue := strings.TrimSpace(req.Venue)
	if venue == "" {
		venue = h.defaultVenue
	}

	meeting := &model.Meeting{
		Date:         date,
		Venue:        venue,
		CreatedBy:    claims.UserID,
		RepeatWeekly: req.RepeatWeekly,
		IsActive:     true,
	}
	if theme := strings.TrimSpace(req.Theme); theme != "" {
		meeting.Theme = &theme
	}

	if err := h.store.CreateMeeting(c.Context(), meeting); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create meeting",
		})
	}

	log.Printf("✅ Meeting scheduled: %s at %s", meeting.Date.Format(time.RFC3339), meeting.Venue)

	return c.Status(fiber.StatusCreated).JSON(meeting)
}
