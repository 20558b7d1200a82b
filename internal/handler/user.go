package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"attendance-backend/internal/model"
	"attendance-backend/internal/store"
)

// UserHandler 회원 핸들러
type UserHandler struct {
	store store.Store
}

// NewUserHandler UserHandler 생성
func NewUserHandler(st store.Store) *UserHandler {
	return &UserHandler{store: st}
}

// CreateUserRequest 회원 등록 요청
type CreateUserRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Role    string `json:"role"` // chairman, sonai, member
	QrCode  string `json:"qrCode"`
}

// GetUsers 전체 회원 목록
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.store.ListUsers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list users",
		})
	}
	return c.JSON(users)
}

// GetUser 회원 단건 조회
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.store.GetUser(c.Context(), c.Params("id"))
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
	return c.JSON(user)
}

// CreateUser 회원 등록
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "valid email is required",
		})
	}

	role := model.Role(req.Role)
	if !role.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "role must be chairman, sonai or member",
		})
	}

	user := &model.User{
		Email:   email,
		Name:    strings.TrimSpace(req.Name),
		Company: strings.TrimSpace(req.Company),
		Role:    role,
	}

	// roster 멤버는 QR 코드가 있어야 스캔 경로를 탈 수 있다
	if qr := strings.TrimSpace(req.QrCode); qr != "" {
		user.QrCode = &qr
	} else if role.InRoster() {
		qr := uuid.NewString()
		user.QrCode = &qr
	}

	if err := h.store.CreateUser(c.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "email already registered",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}
