package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/auth"
	"attendance-backend/internal/model"
	"attendance-backend/internal/store"
)

// currentClaims 인증 미들웨어가 저장한 클레임 조회
func currentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals("claims").(*auth.Claims)
	return claims
}

// loadSummary 모임 + roster + 기록을 읽어 정본 Summary를 계산한다
//
// 상태를 읽는 모든 핸들러(요약, 알림, 내보내기, 통계)는 이 경로 하나만 쓴다.
func loadSummary(ctx context.Context, st store.Store, meetingID string) (*model.Meeting, *attendance.Summary, error) {
	meeting, err := st.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, nil, err
	}

	users, err := st.ListUsers(ctx)
	if err != nil {
		return nil, nil, err
	}

	records, err := st.AttendanceForMeeting(ctx, meetingID)
	if err != nil {
		return nil, nil, err
	}

	summary := attendance.Reconcile(attendance.Roster(users), records)
	return meeting, &summary, nil
}
