package handler

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"attendance-backend/internal/auth"
	"attendance-backend/internal/metrics"
	"attendance-backend/internal/store"
)

// AuthHandler OTP 로그인 핸들러
type AuthHandler struct {
	store        store.Store
	jwtManager   *auth.JWTManager
	otpManager   *auth.OTPManager
	secureCookie bool
}

// NewAuthHandler AuthHandler 생성
func NewAuthHandler(st store.Store, jwtManager *auth.JWTManager, otpManager *auth.OTPManager, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		store:        st,
		jwtManager:   jwtManager,
		otpManager:   otpManager,
		secureCookie: secureCookie,
	}
}

// SendOTPRequest OTP 발급 요청
type SendOTPRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest OTP 검증 요청
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SendOTP 등록된 이메일로 일회용 코드 발급
//
// 실제 전송(이메일/SMS)은 외부 협력자의 몫이다. 여기서는 발급만 하고
// 개발 편의를 위해 서버 로그에 코드를 남긴다.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email is required",
		})
	}

	// 등록된 회원만 로그인 가능
	if _, err := h.store.GetUserByEmail(c.Context(), email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up user",
		})
	}

	code, err := h.otpManager.Issue(email, time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to issue otp",
		})
	}
	metrics.OTPIssued.Inc()

	log.Printf("📧 OTP for %s: %s", email, code)

	return c.JSON(fiber.Map{
		"message": "otp sent",
	})
}

// VerifyOTP 코드 검증 후 액세스 토큰 발급
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email and otp are required",
		})
	}

	if err := h.otpManager.Verify(email, req.OTP, time.Now()); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid or expired otp",
		})
	}

	user, err := h.store.GetUserByEmail(c.Context(), email)
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

	token, err := h.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate token",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Lax",
		Path:     "/",
	})

	log.Printf("✅ Login: %s (%s)", user.Email, user.Role)

	return c.JSON(fiber.Map{
		"user":         user,
		"access_token": token,
	})
}

// Logout 세션 쿠키 제거
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Lax",
		Path:     "/",
	})
	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}

// Me 현재 로그인한 사용자 조회
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := currentClaims(c)
	if claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "unauthorized",
		})
	}

	user, err := h.store.GetUser(c.Context(), claims.UserID)
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

	return c.JSON(fiber.Map{
		"user": user,
	})
}

// normalizeEmail 이메일 정규화 (로그인 키이므로 대소문자 무시)
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
