package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

var (
	ErrOTPInvalid = errors.New("invalid or expired otp")
)

// otpEntry 발급된 코드 1건
type otpEntry struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// OTPManager 이메일별 일회용 코드 발급/검증
//
// 코드는 메모리에만 산다 - 실제 전송(이메일/SMS)은 외부 협력자의 몫이고,
// 여기서는 발급과 검증만 책임진다. 검증 성공 또는 5회 실패 시 코드는 소모된다.
type OTPManager struct {
	mu      sync.Mutex
	expiry  time.Duration
	pending map[string]otpEntry // email → entry
}

const otpMaxAttempts = 5

// NewOTPManager OTPManager 생성
func NewOTPManager(expiry time.Duration) *OTPManager {
	return &OTPManager{
		expiry:  expiry,
		pending: make(map[string]otpEntry),
	}
}

// Issue 6자리 코드 발급 - 같은 이메일의 이전 코드는 무효화된다
func (m *OTPManager) Issue(email string, now time.Time) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[email] = otpEntry{code: code, expiresAt: now.Add(m.expiry)}
	return code, nil
}

// Verify 코드 검증 - 성공하면 코드는 소모된다 (재사용 불가)
func (m *OTPManager) Verify(email, code string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.pending[email]
	if !ok || now.After(entry.expiresAt) {
		delete(m.pending, email)
		return ErrOTPInvalid
	}
	if entry.code != code {
		entry.attempts++
		if entry.attempts >= otpMaxAttempts {
			delete(m.pending, email)
		} else {
			m.pending[email] = entry
		}
		return ErrOTPInvalid
	}

	delete(m.pending, email)
	return nil
}

// generateOTP 항상 6자리인 난수 코드 생성
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
