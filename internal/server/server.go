package server

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"attendance-backend/internal/auth"
	"attendance-backend/internal/config"
	"attendance-backend/internal/handler"
	"attendance-backend/internal/metrics"
	"attendance-backend/internal/store"
)

// Server Fiber 서버 래퍼
type Server struct {
	app                 *fiber.App
	cfg                 *config.Config
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	meetingHandler      *handler.MeetingHandler
	attendanceHandler   *handler.AttendanceHandler
	statsHandler        *handler.StatsHandler
	notificationHandler *handler.NotificationHandler
	exportHandler       *handler.ExportHandler
	healthHandler       *handler.HealthHandler
	jwtManager          *auth.JWTManager
}

// New 새 서버 인스턴스 생성
//
// db는 postgres 백엔드일 때만 non-nil이고 헬스체크에만 쓰인다.
// 모든 핸들러는 Store 인터페이스에만 의존한다.
func New(cfg *config.Config, st store.Store, db *gorm.DB) *Server {
	app := fiber.New(fiber.Config{
		AppName:       "CEDOI Madurai Forum Attendance API",
		ServerHeader:  "Fiber",
		StrictRouting: false,
		CaseSensitive: true,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		BodyLimit:     1 * 1024 * 1024, // 1MB - JSON 요청만 받는다
	})

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)
	otpManager := auth.NewOTPManager(cfg.Auth.OTPExpiry)

	return &Server{
		app:                 app,
		cfg:                 cfg,
		authHandler:         handler.NewAuthHandler(st, jwtManager, otpManager, cfg.Auth.SecureCookie),
		userHandler:         handler.NewUserHandler(st),
		meetingHandler:      handler.NewMeetingHandler(st, cfg.Forum.DefaultVenue),
		attendanceHandler:   handler.NewAttendanceHandler(st),
		statsHandler:        handler.NewStatsHandler(st),
		notificationHandler: handler.NewNotificationHandler(st),
		exportHandler:       handler.NewExportHandler(st),
		healthHandler:       handler.NewHealthHandler(db, cfg.Store.Backend),
		jwtManager:          jwtManager,
	}
}

// SetupMiddleware 미들웨어 설정
func (s *Server) SetupMiddleware() {
	// 패닉 복구
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// 로깅
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowOrigins,
		AllowHeaders:     s.cfg.CORS.AllowHeaders,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
}

// SetupRoutes 라우트 설정
func (s *Server) SetupRoutes() {
	// 헬스체크 / 메트릭 (인증 불필요)
	s.app.Get("/health", s.healthHandler.Check)
	s.app.Get("/health/live", s.healthHandler.Liveness)
	s.app.Get("/health/ready", s.healthHandler.Readiness)
	s.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Rate Limiter (OTP 엔드포인트 Brute Force 방지)
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	})

	authRequired := auth.AuthMiddleware(s.jwtManager)

	// Auth 라우트 그룹
	authGroup := s.app.Group("/api/auth")
	authGroup.Post("/send-otp", authLimiter, s.authHandler.SendOTP)
	authGroup.Post("/verify-otp", authLimiter, s.authHandler.VerifyOTP)
	authGroup.Post("/logout", authRequired, s.authHandler.Logout)
	authGroup.Get("/me", authRequired, s.authHandler.Me)

	// User 라우트 그룹 (인증 필요)
	userGroup := s.app.Group("/api/users", authRequired)
	userGroup.Get("/", s.userHandler.GetUsers)
	userGroup.Post("/", s.userHandler.CreateUser)
	userGroup.Get("/:id", s.userHandler.GetUser)

	// Meeting 라우트 그룹 (인증 필요) - /today가 /:id보다 먼저
	meetingGroup := s.app.Group("/api/meetings", authRequired)
	meetingGroup.Get("/", s.meetingHandler.GetMeetings)
	meetingGroup.Get("/today", s.meetingHandler.GetTodaysMeeting)
	meetingGroup.Post("/", s.meetingHandler.CreateMeeting)
	meetingGroup.Get("/:id", s.meetingHandler.GetMeeting)

	// Attendance 라우트 그룹 (인증 필요)
	attendanceGroup := s.app.Group("/api/attendance", authRequired)
	attendanceGroup.Post("/scan", s.attendanceHandler.Scan)
	attendanceGroup.Post("/", s.attendanceHandler.MarkAttendance)
	attendanceGroup.Get("/:meetingId", s.attendanceHandler.GetMeetingAttendance)
	attendanceGroup.Get("/:meetingId/summary", s.attendanceHandler.GetMeetingSummary)
	attendanceGroup.Put("/:meetingId/:userId", s.attendanceHandler.UpdateAttendance)
	attendanceGroup.Post("/:meetingId/mark-all", s.attendanceHandler.MarkAllPending)

	// Stats 라우트 그룹 (인증 필요)
	statsGroup := s.app.Group("/api/stats", authRequired)
	statsGroup.Get("/", s.statsHandler.GetStats)
	statsGroup.Get("/:userId", s.statsHandler.GetUserStats)

	// Notification 라우트 (인증 필요)
	s.app.Get("/api/notifications", authRequired, s.notificationHandler.GetNotifications)

	// Export 라우트 그룹 (인증 필요)
	exportGroup := s.app.Group("/api/export", authRequired)
	exportGroup.Get("/:meetingId/csv", s.exportHandler.ExportCSV)
	exportGroup.Get("/:meetingId/excel", s.exportHandler.ExportExcel)
	exportGroup.Get("/:meetingId/print", s.exportHandler.ExportPrint)
}

// Start 서버 시작 (Graceful Shutdown 지원)
func (s *Server) Start() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("🛑 Shutting down server...")
		if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Fatalf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("🚀 CEDOI attendance API starting on %s (store: %s)", s.cfg.Server.Port, s.cfg.Store.Backend)

	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown 서버 종료
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(30 * time.Second)
}
