package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"word-duel-service/handlers"
	"word-duel-service/middleware"
	"word-duel-service/models"
	"word-duel-service/services"
	"word-duel-service/utils"
	"word-duel-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// 🔐 GLOBAL: Only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-Service-Token",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.GameReward{},
		&models.DuelGame{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	seedDefaults(db)

	// Word-challenge catalog: remote document with built-in fallback
	bank := services.NewChallengeBank()
	if err := utils.InitObjectStore(); err != nil {
		log.Printf("⚠️  %v — using built-in challenge set", err)
	} else {
		catalogKey := os.Getenv("CHALLENGE_CATALOG_KEY")
		if catalogKey == "" {
			catalogKey = "content/word-challenges.json"
		}
		_ = bank.LoadFromObjectStore(context.Background(), catalogKey)
	}

	duelService := services.NewDuelService(db, bank)
	progressService := services.NewProgressService(db)
	claimService := services.NewClaimService(db, notifierOrNil())
	syncService := services.NewSyncService(db)

	duelService.StartRoundTimer()

	handlers.SetupDuelRoutes(app, duelService)
	handlers.SetupProgressRoutes(app, progressService, claimService, syncService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Printf("✅ Challenge bank ready (%d challenges)", bank.Size())
	log.Println("✅ Round timer sweep running (every 5s)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}

// notifierOrNil keeps the nil-interface trap out of ClaimService wiring
func notifierOrNil() services.RankNotifier {
	if n := workers.NewRankNotifier(); n != nil {
		return n
	}
	return nil
}

func seedDefaults(db *gorm.DB) {
	rewards := make([]models.GameReward, len(models.DefaultGameRewards))
	copy(rewards, models.DefaultGameRewards)
	for i := range rewards {
		rewards[i].ID = uuid.NewString()
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_key"}, {Name: "action"}},
		DoNothing: true,
	}).Create(&rewards).Error; err != nil {
		log.Printf("⚠️  seeding game rewards failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Achievement{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	achievements := make([]models.Achievement, len(models.DefaultAchievements))
	copy(achievements, models.DefaultAchievements)
	for i := range achievements {
		achievements[i].ID = uuid.NewString()
		achievements[i].IsActive = true
	}
	if err := db.Create(&achievements).Error; err != nil {
		log.Printf("⚠️  seeding achievements failed: %v", err)
	} else {
		log.Printf("✅ Seeded %d starter achievements", len(achievements))
	}
}
