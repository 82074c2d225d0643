package services

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"
	"unicode"

	"word-duel-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultMaxRounds = 5
	PointsPerCorrect = 10
	RoundDuration    = 15 * time.Second
)

// Starting power-up allotment for each seat
var startingPowerUps = map[models.PowerUp]int{
	models.PowerUpRevealLetter:   3,
	models.PowerUpSkipWord:       1,
	models.PowerUpFreezeOpponent: 1,
}

// DuelService owns the lifecycle of two-player word duels. Clients poll
// GetState; there is no push transport. Every mutation of a duel runs
// under a per-game mutex so two near-simultaneous submissions cannot race
// on round advancement.
type DuelService struct {
	DB   *gorm.DB
	Bank *ChallengeBank

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDuelService(db *gorm.DB, bank *ChallengeBank) *DuelService {
	return &DuelService{DB: db, Bank: bank, locks: make(map[string]*sync.Mutex)}
}

func (s *DuelService) gameLock(gameID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[gameID] = l
	}
	return l
}

func newPlayerState() models.PlayerState {
	pu := make(map[models.PowerUp]int, len(startingPowerUps))
	for k, v := range startingPowerUps {
		pu[k] = v
	}
	return models.PlayerState{Score: 0, PowerUps: pu}
}

// Create allocates a new duel with the creator in the first seat.
func (s *DuelService) Create(creatorID string) (*models.DuelGame, error) {
	g := &models.DuelGame{
		ID:           uuid.NewString(),
		Status:       models.DuelStatusWaiting,
		Player1:      creatorID,
		Player1State: newPlayerState(),
		Player2State: newPlayerState(),
		CurrentRound: 0,
		MaxRounds:    DefaultMaxRounds,
	}
	if err := s.DB.Create(g).Error; err != nil {
		return nil, err
	}
	log.Printf("[Duel] created game %s by %s", g.ID, creatorID)
	return g, nil
}

// Join seats the second player and starts the duel. Joining a game you
// already sit in is a no-op; a third distinct player is rejected.
func (s *DuelService) Join(gameID, playerID string) (*models.DuelGame, error) {
	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	var result *models.DuelGame
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		g, err := loadGame(tx, gameID)
		if err != nil {
			return err
		}
		if g.SlotOf(playerID) != "" {
			result = g
			return nil
		}
		if g.Player2 != "" {
			return ErrGameFull
		}
		g.Player2 = playerID
		g.Status = models.DuelStatusActive
		s.dealRound(g)
		if err := tx.Save(g).Error; err != nil {
			return err
		}
		result = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Status == models.DuelStatusActive && result.Player2 == playerID {
		log.Printf("[Duel] game %s is active: %s vs %s", result.ID, result.Player1, result.Player2)
	}
	return result, nil
}

// GetState is a pure read; poll-friendly.
func (s *DuelService) GetState(gameID string) (*models.DuelGame, error) {
	return loadGame(s.DB, gameID)
}

// SubmitAnswer scores one player's answer for the current round. The round
// advances only once both seats have answered; the second answer of a seat
// within the same round is ignored.
func (s *DuelService) SubmitAnswer(gameID, playerID string, kind models.AnswerKind, selectedIndex int) (*models.DuelGame, error) {
	if kind != models.AnswerDefinition && kind != models.AnswerSentence {
		return nil, ErrInvalidAnswerKind
	}

	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	var result *models.DuelGame
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		g, err := loadGame(tx, gameID)
		if err != nil {
			return err
		}
		if g.Status != models.DuelStatusActive {
			return ErrInvalidState
		}
		slot := g.SlotOf(playerID)
		if slot == "" {
			return ErrInvalidParticipant
		}
		state := g.StateOf(slot)
		if state.HasAnswered {
			result = g
			return nil
		}

		correct := false
		if g.CurrentWord != nil {
			switch kind {
			case models.AnswerDefinition:
				correct = selectedIndex == g.CurrentWord.CorrectDefinition
			case models.AnswerSentence:
				correct = selectedIndex == g.CurrentWord.CorrectSentence
			}
		}
		if correct {
			state.Score += PointsPerCorrect
		}
		state.HasAnswered = true
		g.LastMove = &models.DuelMove{
			Player:        slot,
			Kind:          kind,
			SelectedIndex: selectedIndex,
			IsCorrect:     correct,
			Time:          time.Now(),
		}

		if g.Player1State.HasAnswered && g.Player2State.HasAnswered {
			s.advanceRound(g)
		}
		if err := tx.Save(g).Error; err != nil {
			return err
		}
		result = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UsePowerUp validates inventory and applies the requested effect.
// freeze_opponent is declared but has no effect yet: the charge is spent
// and the call succeeds, which is the documented behavior.
func (s *DuelService) UsePowerUp(gameID, playerID string, power models.PowerUp) (*models.DuelGame, error) {
	switch power {
	case models.PowerUpRevealLetter, models.PowerUpSkipWord, models.PowerUpFreezeOpponent:
	default:
		return nil, ErrUnknownPowerUp
	}

	lock := s.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	var result *models.DuelGame
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		g, err := loadGame(tx, gameID)
		if err != nil {
			return err
		}
		if g.Status != models.DuelStatusActive {
			return ErrInvalidState
		}
		slot := g.SlotOf(playerID)
		if slot == "" {
			return ErrInvalidParticipant
		}
		state := g.StateOf(slot)
		if state.PowerUps[power] <= 0 {
			return ErrInsufficientPowerUp
		}
		state.PowerUps[power]--

		switch power {
		case models.PowerUpRevealLetter:
			s.revealLetter(g, slot)
		case models.PowerUpSkipWord:
			state.HasAnswered = true
			g.LastMove = &models.DuelMove{
				Player:        slot,
				Kind:          models.AnswerSkip,
				SelectedIndex: -1,
				Time:          time.Now(),
			}
			if g.Player1State.HasAnswered && g.Player2State.HasAnswered {
				s.advanceRound(g)
			}
		case models.PowerUpFreezeOpponent:
			// effect not implemented
		}

		if err := tx.Save(g).Error; err != nil {
			return err
		}
		result = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExpireRounds force-advances every active duel whose round deadline has
// passed. Non-responders simply score nothing for the round.
func (s *DuelService) ExpireRounds(now time.Time) (int, error) {
	var ids []string
	if err := s.DB.Model(&models.DuelGame{}).
		Where("status = ? AND round_deadline IS NOT NULL AND round_deadline <= ?", models.DuelStatusActive, now).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		lock := s.gameLock(id)
		lock.Lock()
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			g, err := loadGame(tx, id)
			if err != nil {
				return err
			}
			// deadline may have moved since the scan
			if g.Status != models.DuelStatusActive || g.RoundDeadline == nil || g.RoundDeadline.After(now) {
				return nil
			}
			s.advanceRound(g)
			expired++
			return tx.Save(g).Error
		})
		lock.Unlock()
		if err != nil {
			log.Printf("[Duel] expiring round for game %s failed: %v", id, err)
		}
	}
	return expired, nil
}

// advanceRound moves the duel to the next round or finishes it once the
// round count hits the cap. Per-round flags and revealed letters reset.
func (s *DuelService) advanceRound(g *models.DuelGame) {
	g.CurrentRound++
	g.Player1State.HasAnswered = false
	g.Player2State.HasAnswered = false
	g.Player1Revealed = nil
	g.Player2Revealed = nil

	if g.CurrentRound >= g.MaxRounds {
		g.Status = models.DuelStatusFinished
		g.CurrentWord = nil
		g.RoundDeadline = nil
		g.Winner = decideWinner(g)
		log.Printf("[Duel] game %s finished, winner=%s (%d:%d)",
			g.ID, g.Winner, g.Player1State.Score, g.Player2State.Score)
		return
	}
	s.dealRound(g)
}

func (s *DuelService) dealRound(g *models.DuelGame) {
	exclude := ""
	if g.CurrentWord != nil {
		exclude = g.CurrentWord.Word
	}
	g.CurrentWord = s.Bank.Pick(exclude)
	deadline := time.Now().Add(RoundDuration)
	g.RoundDeadline = &deadline
}

func decideWinner(g *models.DuelGame) models.DuelWinner {
	switch {
	case g.Player1State.Score > g.Player2State.Score:
		return models.WinnerPlayer1
	case g.Player2State.Score > g.Player1State.Score:
		return models.WinnerPlayer2
	default:
		return models.WinnerDraw
	}
}

// revealLetter discloses one letter of the active word, chosen uniformly
// at random, and records it for the acting seat. Accents are folded so the
// revealed character matches what the player types.
func (s *DuelService) revealLetter(g *models.DuelGame, slot string) {
	if g.CurrentWord == nil {
		return
	}
	var letters []rune
	for _, r := range FoldWord(g.CurrentWord.Word) {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return
	}
	picked := string(letters[rand.Intn(len(letters))])
	if slot == models.SlotPlayer1 {
		g.Player1Revealed = append(g.Player1Revealed, picked)
	} else {
		g.Player2Revealed = append(g.Player2Revealed, picked)
	}
}

func loadGame(db *gorm.DB, gameID string) (*models.DuelGame, error) {
	var g models.DuelGame
	if err := db.First(&g, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}
