package services

import (
	"testing"

	"word-duel-service/models"
)

func TestFlatRewardPayout(t *testing.T) {
	db := newTestDB(t)
	s := NewProgressService(db)
	u := createUser(t, db, "mara")

	if err := db.Create(&models.GameReward{
		ID: "r1", GameKey: "word-duel", Action: models.GameActionComplete,
		Diamonds: 1, Coins: 5, Points: 10,
	}).Error; err != nil {
		t.Fatalf("seed reward: %v", err)
	}

	if _, err := s.RecordGameAction(u.ID, "Word Duel", models.GameActionComplete, nil); err != nil {
		t.Fatalf("RecordGameAction: %v", err)
	}

	got := reloadUser(t, db, u.ID)
	if got.Diamonds != 1 || got.Coins != 5 || got.Points != 10 {
		t.Fatalf("wallet = %d/%d/%d, want 1/5/10", got.Diamonds, got.Coins, got.Points)
	}
	if got.GamesPlayed != 1 {
		t.Fatalf("games played = %d, want 1", got.GamesPlayed)
	}
}

func TestNoRewardRowStillCountsStats(t *testing.T) {
	db := newTestDB(t)
	s := NewProgressService(db)
	u := createUser(t, db, "mara")

	if _, err := s.RecordGameAction(u.ID, "Unlisted Game", models.GameActionWin, nil); err != nil {
		t.Fatalf("RecordGameAction: %v", err)
	}
	got := reloadUser(t, db, u.ID)
	if got.GamesWon != 1 {
		t.Fatalf("games won = %d, want 1", got.GamesWon)
	}
	if got.Diamonds != 0 || got.Coins != 0 || got.Points != 0 {
		t.Fatal("no payout row must mean no payout")
	}
}

func TestAccumulateCompletionsNeverCompletes(t *testing.T) {
	db := newTestDB(t)
	s := NewProgressService(db)
	u := createUser(t, db, "mara")
	a := createAchievement(t, db, models.Achievement{
		Name: "Getting Started", Description: "Play 5 games",
		Category: models.AchievementCategoryGames, Requirement: 5, Reward: 10, XPReward: 50,
	})

	for i := 0; i < 5; i++ {
		if _, err := s.RecordGameAction(u.ID, "Word Match", models.GameActionComplete, nil); err != nil {
			t.Fatalf("RecordGameAction: %v", err)
		}
	}

	ua := loadProgress(t, db, u.ID, a.ID)
	if ua == nil {
		t.Fatal("expected a progress record")
	}
	if ua.Progress != 5 {
		t.Fatalf("progress = %d, want 5", ua.Progress)
	}
	if ua.IsCompleted {
		t.Fatal("accumulator must never set is_completed, even past the threshold")
	}
	if ua.CompletedAt != nil {
		t.Fatal("completed_at must stay unset until claim")
	}
}

func TestWinOnlyCountsWinAchievements(t *testing.T) {
	db := newTestDB(t)
	s := NewProgressService(db)
	u := createUser(t, db, "mara")
	play := createAchievement(t, db, models.Achievement{
		Name: "Getting Started", Description: "Play 5 games",
		Category: models.AchievementCategoryGames, Requirement: 5,
	})
	win := createAchievement(t, db, models.Achievement{
		Name: "First Victory", Description: "Win your first game",
		Category: models.AchievementCategoryGames, Requirement: 1,
	})

	if _, err := s.RecordGameAction(u.ID, "Word Match", models.GameActionWin, nil); err != nil {
		t.Fatalf("RecordGameAction: %v", err)
	}

	if ua := loadProgress(t, db, u.ID, win.ID); ua == nil || ua.Progress != 1 {
		t.Fatalf("win achievement progress = %+v, want 1", ua)
	}
	if ua := loadProgress(t, db, u.ID, play.ID); ua != nil {
		t.Fatalf("play achievement must not move on a win report, got %+v", ua)
	}
}

func TestGameNameMentionDoublesIncrement(t *testing.T) {
	db := newTestDB(t)
	s := NewProgressService(db)
	u := createUser(t, db, "mara")
	a := createAchievement(t, db, models.Achievement{
		Name: "Duel Devotee", Description: "Complete rounds of Word Duel again and again",
		Category: models.AchievementCategoryGames, Requirement: 20,
	})

	// keyword match (+1) and literal game-name match (+1)
	if _, err := s.RecordGameAction(u.ID, "Word Duel", models.GameActionComplete, nil); err != nil {
		t.Fatalf("RecordGameAction: %v", err)
	}
	if ua := loadProgress(t, db, u.ID, a.ID); ua == nil || ua.Progress != 2 {
		t.Fatalf("progress = %+v, want 2", ua)
	}
}

func TestScoreThresholdIncrement(t *testing.T) {
	db := newTestDB(t)
	s := NewProgressService(db)
	u := createUser(t, db, "mara")
	a := createAchievement(t, db, models.Achievement{
		Name: "Sharp Shooter", Description: "Score 40 points in a single game",
		Category: models.AchievementCategoryGames, Requirement: 40,
	})

	low := 25
	if _, err := s.RecordGameAction(u.ID, "Word Match", models.GameActionComplete, &low); err != nil {
		t.Fatalf("RecordGameAction: %v", err)
	}
	if ua := loadProgress(t, db, u.ID, a.ID); ua != nil {
		t.Fatalf("score below threshold must not count, got %+v", ua)
	}

	high := 45
	if _, err := s.RecordGameAction(u.ID, "Word Match", models.GameActionComplete, &high); err != nil {
		t.Fatalf("RecordGameAction: %v", err)
	}
	if ua := loadProgress(t, db, u.ID, a.ID); ua == nil || ua.Progress != 1 {
		t.Fatalf("progress = %+v, want 1", ua)
	}
}

func TestCompositeAchievementsAreSkipped(t *testing.T) {
	db := newTestDB(t)
	s := NewProgressService(db)
	u := createUser(t, db, "mara")
	a := createAchievement(t, db, models.Achievement{
		Name: "Completionist", Description: "Win a round in every game type",
		Category: models.AchievementCategoryGames, Requirement: 4,
	})

	if _, err := s.RecordGameAction(u.ID, "Word Duel", models.GameActionWin, nil); err != nil {
		t.Fatalf("RecordGameAction: %v", err)
	}
	if ua := loadProgress(t, db, u.ID, a.ID); ua != nil {
		t.Fatalf("composite achievement must be left untouched, got %+v", ua)
	}
}

func TestInactiveAchievementsAreIgnored(t *testing.T) {
	db := newTestDB(t)
	s := NewProgressService(db)
	u := createUser(t, db, "mara")
	a := createAchievement(t, db, models.Achievement{
		Name: "Getting Started", Description: "Play 5 games",
		Category: models.AchievementCategoryGames, Requirement: 5,
	})
	if err := db.Model(&models.Achievement{}).Where("id = ?", a.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := s.RecordGameAction(u.ID, "Word Match", models.GameActionComplete, nil); err != nil {
		t.Fatalf("RecordGameAction: %v", err)
	}
	if ua := loadProgress(t, db, u.ID, a.ID); ua != nil {
		t.Fatalf("inactive achievement must be ignored, got %+v", ua)
	}
}

func TestNewlyCompletedAlwaysEmpty(t *testing.T) {
	db := newTestDB(t)
	s := NewProgressService(db)
	u := createUser(t, db, "mara")
	createAchievement(t, db, models.Achievement{
		Name: "First Victory", Description: "Win your first game",
		Category: models.AchievementCategoryGames, Requirement: 1,
	})

	// even when progress crosses the threshold, the claim path owns
	// completion — the accumulator reports nothing
	newlyCompleted, err := s.RecordGameAction(u.ID, "Word Match", models.GameActionWin, nil)
	if err != nil {
		t.Fatalf("RecordGameAction: %v", err)
	}
	if len(newlyCompleted) != 0 {
		t.Fatalf("newly completed = %d entries, want 0", len(newlyCompleted))
	}
}

func TestUnknownActionRejected(t *testing.T) {
	db := newTestDB(t)
	s := NewProgressService(db)
	u := createUser(t, db, "mara")

	if _, err := s.RecordGameAction(u.ID, "Word Match", "forfeit", nil); err == nil {
		t.Fatal("expected error for unknown action")
	}
}
