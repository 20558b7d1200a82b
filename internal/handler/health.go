package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"attendance-backend/internal/database"
)

// HealthHandler 헬스체크 핸들러
//
// db는 postgres 백엔드일 때만 주입된다. 메모리 백엔드에서는 nil이고
// database 체크는 not_configured로 보고한다.
type HealthHandler struct {
	db      *gorm.DB
	backend string
}

// NewHealthHandler HealthHandler 생성
func NewHealthHandler(db *gorm.DB, backend string) *HealthHandler {
	return &HealthHandler{db: db, backend: backend}
}

// ComponentCheck 컴포넌트 상태
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse 헬스체크 응답
type HealthResponse struct {
	Status    string                    `json:"status"`
	Backend   string                    `json:"backend"`
	Timestamp string                    `json:"timestamp"`
	Checks    map[string]ComponentCheck `json:"checks"`
}

// Check 전체 상태 확인
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	response := HealthResponse{
		Status:    "healthy",
		Backend:   h.backend,
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    make(map[string]ComponentCheck),
	}

	if h.db == nil {
		response.Checks["database"] = ComponentCheck{
			Status: "not_configured",
		}
	} else {
		dbStart := time.Now()
		if err := database.Ping(h.db); err != nil {
			response.Status = "unhealthy"
			response.Checks["database"] = ComponentCheck{
				Status: "unhealthy",
				Error:  "database ping failed",
			}
		} else {
			response.Checks["database"] = ComponentCheck{
				Status:  "healthy",
				Latency: time.Since(dbStart).String(),
			}
		}
	}

	statusCode := fiber.StatusOK
	if response.Status != "healthy" {
		statusCode = fiber.StatusServiceUnavailable
	}
	return c.Status(statusCode).JSON(response)
}

// Liveness 프로세스 생존 확인
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// Readiness 트래픽 수신 준비 확인
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	if h.db != nil {
		if err := database.Ping(h.db); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "not ready",
			})
		}
	}
	return c.JSON(fiber.Map{
		"status": "ready",
	})
}
