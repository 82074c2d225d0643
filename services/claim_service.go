package services

import (
	"errors"
	"log"
	"time"

	"word-duel-service/models"

	"gorm.io/gorm"
)

// RankNotifier is told about balance changes after a successful claim so
// the rank service can recompute standings. Best effort only.
type RankNotifier interface {
	NotifyRankChanged(userID string)
}

// ClaimService converts a fully-progressed achievement into its one-time
// diamond/XP grant. The check-then-set runs as a single guarded UPDATE so
// concurrent claims for the same pair cannot both credit.
type ClaimService struct {
	DB       *gorm.DB
	Notifier RankNotifier
}

func NewClaimService(db *gorm.DB, notifier RankNotifier) *ClaimService {
	return &ClaimService{DB: db, Notifier: notifier}
}

// ClaimResult reports the grant and the post-credit wallet totals
type ClaimResult struct {
	AchievementID   string `json:"achievement_id"`
	DiamondsGranted int    `json:"diamonds_granted"`
	XPGranted       int    `json:"xp_granted"`
	Diamonds        int    `json:"diamonds"`
	Points          int    `json:"points"`
}

// Claim marks the achievement completed and credits its reward, exactly
// once per (user, achievement) pair.
func (s *ClaimService) Claim(userID, achievementID string) (*ClaimResult, error) {
	var ach models.Achievement
	if err := s.DB.Where("id = ? AND is_active = ?", achievementID, true).First(&ach).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}

	now := time.Now()
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Single conditional update: threshold and not-yet-claimed are
		// checked in the same statement that flips the flag, so a losing
		// concurrent claim sees zero rows affected.
		res := tx.Model(&models.UserAchievement{}).
			Where("user_id = ? AND achievement_id = ? AND is_completed = ? AND progress >= ?",
				userID, achievementID, false, ach.Requirement).
			Updates(map[string]interface{}{
				"is_completed": true,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.explainRejection(tx, userID, achievementID)
		}

		credit := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"diamonds": gorm.Expr("diamonds + ?", ach.Reward),
			"points":   gorm.Expr("points + ?", ach.XPReward),
		})
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	log.Printf("[Claim] %s claimed %q: +%d diamonds, +%d xp", userID, ach.Name, ach.Reward, ach.XPReward)
	if s.Notifier != nil {
		go s.Notifier.NotifyRankChanged(userID)
	}

	return &ClaimResult{
		AchievementID:   achievementID,
		DiamondsGranted: ach.Reward,
		XPGranted:       ach.XPReward,
		Diamonds:        user.Diamonds,
		Points:          user.Points,
	}, nil
}

// explainRejection distinguishes why the guarded update matched nothing
func (s *ClaimService) explainRejection(tx *gorm.DB, userID, achievementID string) error {
	var ua models.UserAchievement
	err := tx.Where("user_id = ? AND achievement_id = ?", userID, achievementID).First(&ua).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProgressNotFound
	}
	if err != nil {
		return err
	}
	if ua.IsCompleted {
		return ErrAlreadyClaimed
	}
	return ErrNotReady
}
