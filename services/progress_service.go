package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"word-duel-service/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressService turns reported game outcomes into flat currency payouts
// and achievement progress. Progress only ever accumulates here; marking
// an achievement completed (and paying its reward) is the claim path's job,
// so the player has to actively collect what they earned.
type ProgressService struct {
	DB *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{DB: db}
}

// RecordGameAction processes one "complete" or "win" report for a game.
// The flat GameReward payout always runs, independent of achievements.
// The returned slice lists achievements completed by this call; since
// completion is claim-gated it stays empty — callers derive "claimable"
// by comparing progress to requirement.
func (s *ProgressService) RecordGameAction(userID, gameName string, action models.GameAction, score *int) ([]models.Achievement, error) {
	if action != models.GameActionComplete && action != models.GameActionWin {
		return nil, fmt.Errorf("unknown game action %q", action)
	}

	if err := s.applyFlatReward(userID, gameName, action); err != nil {
		return nil, err
	}
	if err := s.bumpLifetimeStats(userID, action); err != nil {
		return nil, err
	}

	var achievements []models.Achievement
	if err := s.DB.Where("category = ? AND is_active = ?", models.AchievementCategoryGames, true).
		Find(&achievements).Error; err != nil {
		return nil, err
	}

	for i := range achievements {
		a := &achievements[i]
		inc := progressIncrement(a, gameName, action, score)
		if inc == 0 {
			continue
		}
		if err := s.incrementProgress(userID, a.ID, inc); err != nil {
			return nil, err
		}
	}

	return []models.Achievement{}, nil
}

// progressIncrement applies the keyword heuristics for one achievement
func progressIncrement(a *models.Achievement, gameName string, action models.GameAction, score *int) int {
	kind := ClassifyAchievement(a)
	if kind == KindComposite {
		return 0
	}

	inc := 0
	switch action {
	case models.GameActionComplete:
		if kind == KindPlay {
			inc++
		}
		if mentionsGame(a, gameName) {
			inc++
		}
	case models.GameActionWin:
		if kind == KindWin {
			inc++
		}
	}
	if score != nil && kind == KindScore && *score >= a.Requirement {
		inc++
	}
	return inc
}

func (s *ProgressService) applyFlatReward(userID, gameName string, action models.GameAction) error {
	var reward models.GameReward
	err := s.DB.Where("game_key = ? AND action = ?", slug.Make(gameName), action).First(&reward).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	res := s.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"diamonds": gorm.Expr("diamonds + ?", reward.Diamonds),
		"coins":    gorm.Expr("coins + ?", reward.Coins),
		"points":   gorm.Expr("points + ?", reward.Points),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	log.Printf("[Progress] %s: +%dd/+%dc/+%dp for %s %s",
		userID, reward.Diamonds, reward.Coins, reward.Points, gameName, action)
	return nil
}

func (s *ProgressService) bumpLifetimeStats(userID string, action models.GameAction) error {
	column := "games_played"
	if action == models.GameActionWin {
		column = "games_won"
	}
	res := s.DB.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// incrementProgress upserts on the (user, achievement) pair with an atomic
// add, so concurrent scoring events cannot lose increments.
func (s *ProgressService) incrementProgress(userID, achievementID string, inc int) error {
	ua := models.UserAchievement{
		ID:            uuid.NewString(),
		UserID:        userID,
		AchievementID: achievementID,
		Progress:      inc,
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"progress":   gorm.Expr("progress + ?", inc),
			"updated_at": time.Now(),
		}),
	}).Create(&ua).Error
}
