package main

import (
	"log"

	"gorm.io/gorm"

	"attendance-backend/internal/config"
	"attendance-backend/internal/database"
	"attendance-backend/internal/observability"
	"attendance-backend/internal/server"
	"attendance-backend/internal/store"
)

func main() {
	// 설정 로드
	cfg := config.Load()

	// Sentry 초기화 (DSN 없으면 no-op)
	flush, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Sentry.Env)
	if err != nil {
		log.Printf("⚠️ Sentry initialization failed: %v", err)
	}
	defer flush()

	// 스토어 백엔드 선택
	var st store.Store
	var db *gorm.DB
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err = database.Connect()
		if err != nil {
			log.Fatalf("❌ Database connection failed: %v", err)
		}
		defer database.Close(db)

		if err := database.Ping(db); err != nil {
			log.Fatalf("❌ Database ping failed: %v", err)
		}
		log.Printf("✅ Database connected successfully")

		st = store.NewGorm(db)
	default:
		log.Printf("ℹ️ Using in-memory store (data is lost on restart)")
		st = store.NewMemory()
	}

	// 서버 생성 및 설정
	srv := server.New(cfg, st, db)
	srv.SetupMiddleware()
	srv.SetupRoutes()

	// 서버 시작
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
