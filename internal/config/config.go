package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 스토어 백엔드 선택값
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config 애플리케이션 전체 설정
type Config struct {
	Server ServerConfig
	CORS   CORSConfig
	Auth   AuthConfig
	Store  StoreConfig
	Forum  ForumConfig
	Sentry SentryConfig
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CORSConfig CORS 설정
type CORSConfig struct {
	AllowOrigins string
	AllowHeaders string
}

// AuthConfig 인증 설정
type AuthConfig struct {
	JWTSecret         string
	AccessTokenExpiry time.Duration
	OTPExpiry         time.Duration
	SecureCookie      bool
}

// StoreConfig 영속성 백엔드 선택
type StoreConfig struct {
	Backend string // memory | postgres
}

// ForumConfig 포럼 고정 설정 (단일 포럼, 고정 기본 장소)
type ForumConfig struct {
	DefaultVenue string
	Timezone     *time.Location
}

// SentryConfig 에러 리포팅 설정
type SentryConfig struct {
	DSN string
	Env string
}

// Load 환경 변수에서 설정 로드
func Load() *Config {
	// .env 파일 로드 (없어도 에러 무시)
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️ No .env file found, using environment variables")
	}

	// 필수 환경 변수 검증
	jwtSecret := getRequiredEnv("JWT_SECRET")
	if jwtSecret == "change-this-secret-in-production" {
		log.Fatal("🚨 CRITICAL: JWT_SECRET must be changed from default value in production!")
	}

	backend := getEnv("STORE_BACKEND", StoreMemory)
	if backend != StoreMemory && backend != StorePostgres {
		log.Fatalf("🚨 CRITICAL: STORE_BACKEND must be %q or %q, got %q", StoreMemory, StorePostgres, backend)
	}

	tz := getEnv("TZ", "Asia/Kolkata")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("⚠️ Unknown timezone %q, falling back to local", tz)
		loc = time.Local
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
			AllowHeaders: getEnv("CORS_ALLOW_HEADERS", "Origin, Content-Type, Accept, Authorization"),
		},
		Auth: AuthConfig{
			JWTSecret:         jwtSecret,
			AccessTokenExpiry: getDuration("ACCESS_TOKEN_EXPIRY", 12*time.Hour),
			OTPExpiry:         getDuration("OTP_EXPIRY", 5*time.Minute),
			SecureCookie:      getBool("SECURE_COOKIE", false),
		},
		Store: StoreConfig{
			Backend: backend,
		},
		Forum: ForumConfig{
			DefaultVenue: getEnv("DEFAULT_VENUE", "Hotel Sangam, Madurai"),
			Timezone:     loc,
		},
		Sentry: SentryConfig{
			DSN: os.Getenv("SENTRY_DSN"),
			Env: getEnv("ENV", "dev"),
		},
	}
}

// getRequiredEnv 필수 환경 변수 조회 (없으면 Fatal)
func getRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("🚨 CRITICAL: Required environment variable %s is not set!", key)
	}
	return value
}

// getEnv 환경 변수 조회 (기본값 지원)
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBool 불리언 환경 변수 조회
func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getDuration 시간 환경 변수 조회
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		// 숫자만 있으면 초로 간주
		if !strings.ContainsAny(value, "smh") {
			if secs, err := strconv.Atoi(value); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
