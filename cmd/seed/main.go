package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"attendance-backend/internal/database"
	"attendance-backend/internal/model"
	"attendance-backend/internal/store"
)

// 개발/데모용 시드 데이터 삽입 도구.
// STORE_BACKEND=postgres일 때만 의미가 있다 (메모리 스토어는 프로세스 수명).

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	st := store.NewGorm(db)
	ctx := context.Background()

	users := []model.User{
		{Email: "chairman@cedoi.test", Name: "Chairman", Company: "CEDOI", Role: model.RoleChairman},
		{Email: "sonai@cedoi.test", Name: "Sonai", Company: "CEDOI", Role: model.RoleSonai},
		{Email: "raja@cedoi.test", Name: "Raja", Company: "Madurai Mills", Role: model.RoleMember},
		{Email: "kumar@cedoi.test", Name: "Kumar", Company: "Kumar Exports", Role: model.RoleMember},
		{Email: "selvi@cedoi.test", Name: "Selvi", Company: "Selvi Traders", Role: model.RoleMember},
	}

	var chairmanID string
	for i := range users {
		if users[i].Role.InRoster() {
			qr := uuid.NewString()
			users[i].QrCode = &qr
		}
		if err := st.CreateUser(ctx, &users[i]); err != nil {
			if err == store.ErrDuplicateEmail {
				log.Printf("Skipping %s (already registered)", users[i].Email)
				existing, err := st.GetUserByEmail(ctx, users[i].Email)
				if err == nil && existing.Role == model.RoleChairman {
					chairmanID = existing.ID
				}
				continue
			}
			log.Fatalf("Failed to create user %s: %v", users[i].Email, err)
		}
		log.Printf("Created %s (%s)", users[i].Email, users[i].Role)
		if users[i].Role == model.RoleChairman {
			chairmanID = users[i].ID
		}
	}

	if chairmanID == "" {
		log.Fatal("No chairman found, cannot schedule the demo meeting")
	}

	// 오늘 저녁 7시 데모 모임
	loc, err := time.LoadLocation(getEnv("TZ", "Asia/Kolkata"))
	if err != nil {
		loc = time.Local
	}
	now := time.Now().In(loc)
	date := time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, loc)
	theme := "Monthly Forum Meeting"

	meeting := &model.Meeting{
		Date:         date,
		Venue:        getEnv("DEFAULT_VENUE", "Hotel Sangam, Madurai"),
		Theme:        &theme,
		CreatedBy:    chairmanID,
		RepeatWeekly: false,
		IsActive:     true,
	}
	if err := st.CreateMeeting(ctx, meeting); err != nil {
		log.Fatalf("Failed to create meeting: %v", err)
	}
	log.Printf("Created meeting %s at %s", meeting.ID, meeting.Date.Format(time.RFC3339))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
