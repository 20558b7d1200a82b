package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"attendance-backend/internal/auth"
	"attendance-backend/internal/model"
	"attendance-backend/internal/store"
)

func newAuthTestApp(t *testing.T) (*fiber.App, *store.Memory, *auth.OTPManager) {
	t.Helper()

	st := store.NewMemory()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	otpManager := auth.NewOTPManager(5 * time.Minute)

	app := fiber.New()
	h := NewAuthHandler(st, jwtManager, otpManager, false)
	app.Post("/api/auth/send-otp", h.SendOTP)
	app.Post("/api/auth/verify-otp", h.VerifyOTP)

	return app, st, otpManager
}

func TestSendOTPUnknownEmail(t *testing.T) {
	app, _, _ := newAuthTestApp(t)

	body, _ := json.Marshal(SendOTPRequest{Email: "nobody@cedoi.test"})
	req := httptest.NewRequest("POST", "/api/auth/send-otp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("send-otp: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestVerifyOTPLoginFlow(t *testing.T) {
	app, st, otpManager := newAuthTestApp(t)

	user := &model.User{Email: "sonai@cedoi.test", Name: "Sonai", Role: model.RoleSonai}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	code, err := otpManager.Issue(user.Email, time.Now())
	if err != nil {
		t.Fatalf("issue otp: %v", err)
	}

	body, _ := json.Marshal(VerifyOTPRequest{Email: "Sonai@CEDOI.test", OTP: code})
	req := httptest.NewRequest("POST", "/api/auth/verify-otp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("verify-otp: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload struct {
		User        model.User `json:"user"`
		AccessToken string     `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.User.ID != user.ID {
		t.Errorf("user id = %s, want %s", payload.User.ID, user.ID)
	}
	if payload.AccessToken == "" {
		t.Error("access_token is empty")
	}

	// 같은 코드 재사용은 거부된다
	body, _ = json.Marshal(VerifyOTPRequest{Email: user.Email, OTP: code})
	req = httptest.NewRequest("POST", "/api/auth/verify-otp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("verify-otp replay: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("replayed otp: status = %d, want 401", resp.StatusCode)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	app, st, otpManager := newAuthTestApp(t)

	user := &model.User{Email: "sonai@cedoi.test", Name: "Sonai", Role: model.RoleSonai}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	code, err := otpManager.Issue(user.Email, time.Now())
	if err != nil {
		t.Fatalf("issue otp: %v", err)
	}
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	body, _ := json.Marshal(VerifyOTPRequest{Email: user.Email, OTP: wrong})
	req := httptest.NewRequest("POST", "/api/auth/verify-otp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("verify-otp: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}
