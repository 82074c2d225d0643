package services

import (
	"errors"
	"log"
	"time"

	"word-duel-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncService is the repair pass for achievement progress: it recomputes
// what each simple (non-composite) achievement's progress should be from
// the user's canonical lifetime counters and overwrites stored progress on
// drift — up or down. It never completes achievements and never pays out.
type SyncService struct {
	DB *gorm.DB
}

func NewSyncService(db *gorm.DB) *SyncService {
	return &SyncService{DB: db}
}

// SyncAchievements reconciles the user's progress records against their
// lifetime stats. Returns the number of records corrected; running it
// twice with no game activity in between corrects nothing the second time.
func (s *SyncService) SyncAchievements(userID string) (int, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	var achievements []models.Achievement
	if err := s.DB.Where("is_active = ?", true).Find(&achievements).Error; err != nil {
		return 0, err
	}

	corrected := 0
	for i := range achievements {
		a := &achievements[i]
		target, ok := canonicalProgress(a, &user)
		if !ok {
			continue
		}

		var ua models.UserAchievement
		err := s.DB.Where("user_id = ? AND achievement_id = ?", userID, a.ID).First(&ua).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if target == 0 {
				continue
			}
			ua = models.UserAchievement{
				ID:            uuid.NewString(),
				UserID:        userID,
				AchievementID: a.ID,
				Progress:      target,
			}
			if err := s.DB.Create(&ua).Error; err != nil {
				return corrected, err
			}
			corrected++
			continue
		}
		if err != nil {
			return corrected, err
		}
		if ua.Progress == target {
			continue
		}
		if err := s.DB.Model(&models.UserAchievement{}).Where("id = ?", ua.ID).
			Updates(map[string]interface{}{"progress": target, "updated_at": time.Now()}).Error; err != nil {
			return corrected, err
		}
		corrected++
	}

	if corrected > 0 {
		log.Printf("[Sync] reconciled %d achievement record(s) for %s", corrected, userID)
	}
	return corrected, nil
}

// canonicalProgress maps an achievement to the lifetime counter that is
// its ground truth. Composite achievements have no single counter and are
// skipped.
func canonicalProgress(a *models.Achievement, u *models.User) (int, bool) {
	kind := ClassifyAchievement(a)
	if kind == KindComposite {
		return 0, false
	}
	if a.Category == models.AchievementCategoryLevel {
		return u.Level, true
	}
	switch kind {
	case KindWin:
		return u.GamesWon, true
	case KindScore:
		return u.Points, true
	default:
		return u.GamesPlayed, true
	}
}
