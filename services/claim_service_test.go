package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"word-duel-service/models"

	"github.com/google/uuid"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 8)}
}

func (n *recordingNotifier) NotifyRankChanged(userID string) {
	n.mu.Lock()
	n.calls = append(n.calls, userID)
	n.mu.Unlock()
	n.done <- struct{}{}
}

func seedProgress(t *testing.T, s *ClaimService, userID, achievementID string, progress int) {
	t.Helper()
	ua := models.UserAchievement{
		ID: uuid.NewString(), UserID: userID, AchievementID: achievementID, Progress: progress,
	}
	if err := s.DB.Create(&ua).Error; err != nil {
		t.Fatalf("seed progress: %v", err)
	}
}

func TestClaimBeforeThresholdFailsWithoutMutation(t *testing.T) {
	db := newTestDB(t)
	s := NewClaimService(db, nil)
	u := createUser(t, db, "mara")
	a := createAchievement(t, db, models.Achievement{
		Name: "Getting Started", Description: "Play 5 games",
		Category: models.AchievementCategoryGames, Requirement: 5, Reward: 100, XPReward: 50,
	})
	seedProgress(t, s, u.ID, a.ID, 3)

	if _, err := s.Claim(u.ID, a.ID); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}

	got := reloadUser(t, db, u.ID)
	if got.Diamonds != 0 || got.Points != 0 {
		t.Fatal("a rejected claim must not touch balances")
	}
	if ua := loadProgress(t, db, u.ID, a.ID); ua.IsCompleted {
		t.Fatal("a rejected claim must not complete the record")
	}
}

func TestClaimHappyPathCreditsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	notifier := newRecordingNotifier()
	s := NewClaimService(db, notifier)
	u := createUser(t, db, "mara")
	a := createAchievement(t, db, models.Achievement{
		Name: "Getting Started", Description: "Play 5 games",
		Category: models.AchievementCategoryGames, Requirement: 5, Reward: 100, XPReward: 50,
	})
	seedProgress(t, s, u.ID, a.ID, 5)

	res, err := s.Claim(u.ID, a.ID)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if res.DiamondsGranted != 100 || res.XPGranted != 50 {
		t.Fatalf("grant = %d/%d, want 100/50", res.DiamondsGranted, res.XPGranted)
	}
	if res.Diamonds != 100 || res.Points != 50 {
		t.Fatalf("totals = %d/%d, want 100/50", res.Diamonds, res.Points)
	}

	ua := loadProgress(t, db, u.ID, a.ID)
	if !ua.IsCompleted || ua.CompletedAt == nil {
		t.Fatal("claim must complete the progress record")
	}

	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a rank recalculation notification")
	}

	// second claim: rejected, balances untouched
	if _, err := s.Claim(u.ID, a.ID); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("second claim err = %v, want ErrAlreadyClaimed", err)
	}
	got := reloadUser(t, db, u.ID)
	if got.Diamonds != 100 || got.Points != 50 {
		t.Fatalf("balances after double claim = %d/%d, want 100/50", got.Diamonds, got.Points)
	}
}

func TestClaimMissingRecords(t *testing.T) {
	db := newTestDB(t)
	s := NewClaimService(db, nil)
	u := createUser(t, db, "mara")
	a := createAchievement(t, db, models.Achievement{
		Name: "Getting Started", Description: "Play 5 games",
		Category: models.AchievementCategoryGames, Requirement: 5,
	})

	if _, err := s.Claim(u.ID, "no-such-achievement"); !errors.Is(err, ErrAchievementNotFound) {
		t.Fatalf("err = %v, want ErrAchievementNotFound", err)
	}
	if _, err := s.Claim(u.ID, a.ID); !errors.Is(err, ErrProgressNotFound) {
		t.Fatalf("err = %v, want ErrProgressNotFound", err)
	}
}

func TestConcurrentClaimsCreditOnce(t *testing.T) {
	db := newTestDB(t)
	s := NewClaimService(db, nil)
	u := createUser(t, db, "mara")
	a := createAchievement(t, db, models.Achievement{
		Name: "Getting Started", Description: "Play 5 games",
		Category: models.AchievementCategoryGames, Requirement: 5, Reward: 100, XPReward: 50,
	})
	seedProgress(t, s, u.ID, a.ID, 5)

	const attempts = 4
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Claim(u.ID, a.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyClaimed):
			rejected++
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d claims succeeded, want exactly 1", succeeded)
	}
	if rejected != attempts-1 {
		t.Fatalf("%d claims rejected, want %d", rejected, attempts-1)
	}

	got := reloadUser(t, db, u.ID)
	if got.Diamonds != 100 || got.Points != 50 {
		t.Fatalf("balances = %d/%d, want a single 100/50 credit", got.Diamonds, got.Points)
	}
}
