package auth

import (
	"testing"
	"time"

	"attendance-backend/internal/model"
)

var testUser = model.User{
	ID:    "42",
	Email: "sonai@cedoi.test",
	Name:  "Sonai",
	Role:  model.RoleSonai,
}

func TestOTPIssueAndVerify(t *testing.T) {
	m := NewOTPManager(5 * time.Minute)
	now := time.Now()

	code, err := m.Issue("a@cedoi.test", now)
	if err != nil {
		t.Fatal(err)
	}
	if len(code) != 6 {
		t.Fatalf("code %q, want 6 digits", code)
	}

	if err := m.Verify("a@cedoi.test", code, now.Add(time.Minute)); err != nil {
		t.Fatalf("verify: %v", err)
	}
	// 코드는 1회용
	if err := m.Verify("a@cedoi.test", code, now.Add(time.Minute)); err != ErrOTPInvalid {
		t.Error("code accepted twice")
	}
}

func TestOTPExpiry(t *testing.T) {
	m := NewOTPManager(5 * time.Minute)
	now := time.Now()

	code, _ := m.Issue("a@cedoi.test", now)
	if err := m.Verify("a@cedoi.test", code, now.Add(6*time.Minute)); err != ErrOTPInvalid {
		t.Error("expired code accepted")
	}
}

func TestOTPReissueInvalidatesOld(t *testing.T) {
	m := NewOTPManager(5 * time.Minute)
	now := time.Now()

	old, _ := m.Issue("a@cedoi.test", now)
	fresh, _ := m.Issue("a@cedoi.test", now)

	if old != fresh {
		if err := m.Verify("a@cedoi.test", old, now); err != ErrOTPInvalid {
			t.Error("stale code accepted after reissue")
		}
	}
	if err := m.Verify("a@cedoi.test", fresh, now); err != nil {
		t.Errorf("fresh code rejected: %v", err)
	}
}

func TestOTPAttemptLimit(t *testing.T) {
	m := NewOTPManager(5 * time.Minute)
	now := time.Now()

	code, _ := m.Issue("a@cedoi.test", now)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	for i := 0; i < otpMaxAttempts; i++ {
		if err := m.Verify("a@cedoi.test", wrong, now); err != ErrOTPInvalid {
			t.Fatal("wrong code accepted")
		}
	}
	// 한도를 넘기면 올바른 코드도 더는 통하지 않는다
	if err := m.Verify("a@cedoi.test", code, now); err != ErrOTPInvalid {
		t.Error("code survived brute-force limit")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	jm := NewJWTManager("test-secret", time.Hour)

	token, err := jm.GenerateAccessToken(&testUser)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := jm.ValidateAccessToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != testUser.ID || claims.Email != testUser.Email || claims.Role != testUser.Role {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := jm.ValidateAccessToken(token + "x"); err != ErrInvalidToken {
		t.Error("tampered token accepted")
	}

	other := NewJWTManager("other-secret", time.Hour)
	if _, err := other.ValidateAccessToken(token); err != ErrInvalidToken {
		t.Error("token accepted across secrets")
	}
}
