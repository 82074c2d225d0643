package services

import (
	"errors"
	"testing"

	"word-duel-service/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// in-memory sqlite: every connection is its own database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.GameReward{},
		&models.DuelGame{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.NewString(), Username: username, Level: 1}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createAchievement(t *testing.T, db *gorm.DB, a models.Achievement) *models.Achievement {
	t.Helper()
	a.ID = uuid.NewString()
	a.IsActive = true
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create achievement: %v", err)
	}
	return &a
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var u models.User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return &u
}

func loadProgress(t *testing.T, db *gorm.DB, userID, achievementID string) *models.UserAchievement {
	t.Helper()
	var ua models.UserAchievement
	err := db.Where("user_id = ? AND achievement_id = ?", userID, achievementID).First(&ua).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	return &ua
}
