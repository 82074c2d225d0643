package models

import (
	"time"
)

type DuelStatus string

const (
	DuelStatusWaiting  DuelStatus = "waiting"
	DuelStatusActive   DuelStatus = "active"
	DuelStatusFinished DuelStatus = "finished"
)

// Player slots — a duel never seats more than two distinct players
const (
	SlotPlayer1 = "player1"
	SlotPlayer2 = "player2"
)

type PowerUp string

const (
	PowerUpRevealLetter   PowerUp = "reveal_letter"
	PowerUpSkipWord       PowerUp = "skip_word"
	PowerUpFreezeOpponent PowerUp = "freeze_opponent"
)

type AnswerKind string

const (
	AnswerDefinition AnswerKind = "definition"
	AnswerSentence   AnswerKind = "sentence"
	AnswerSkip       AnswerKind = "skip"
)

type DuelWinner string

const (
	WinnerPlayer1 DuelWinner = "player1"
	WinnerPlayer2 DuelWinner = "player2"
	WinnerDraw    DuelWinner = "draw"
)

// PlayerState holds one seat's per-duel state
type PlayerState struct {
	Score       int             `json:"score"`
	PowerUps    map[PowerUp]int `json:"power_ups"`
	HasAnswered bool            `json:"has_answered"`
}

// WordChallenge is one round's vocabulary question: the word plus candidate
// definitions and example sentences, with the correct index of each.
type WordChallenge struct {
	Word              string   `json:"word"`
	Definitions       []string `json:"definitions"`
	Sentences         []string `json:"sentences"`
	CorrectDefinition int      `json:"correct_definition"`
	CorrectSentence   int      `json:"correct_sentence"`
}

// DuelMove records the most recent answer submitted in a duel
type DuelMove struct {
	Player        string     `json:"player"` // slot, not user id
	Kind          AnswerKind `json:"kind"`
	SelectedIndex int        `json:"selected_index"`
	IsCorrect     bool       `json:"is_correct"`
	Time          time.Time  `json:"time"`
}

// DuelGame is one two-player word duel.
// Lifecycle: waiting → active → finished, one-directional. There is no
// abandon/forfeit path; a duel with an absent opponent simply stays put.
type DuelGame struct {
	ID     string     `gorm:"primaryKey;type:uuid" json:"id"`
	Status DuelStatus `gorm:"type:varchar(16);index;not null" json:"status"`

	Player1 string `gorm:"index" json:"player1"`
	Player2 string `gorm:"index" json:"player2"`

	Player1State PlayerState `gorm:"serializer:json" json:"player1_state"`
	Player2State PlayerState `gorm:"serializer:json" json:"player2_state"`

	CurrentRound int `json:"current_round"`
	MaxRounds    int `json:"max_rounds"`

	CurrentWord *WordChallenge `gorm:"serializer:json" json:"current_word,omitempty"`
	LastMove    *DuelMove      `gorm:"serializer:json" json:"last_move,omitempty"`

	// Letters disclosed via the reveal power-up, per slot, reset each round
	Player1Revealed []string `gorm:"serializer:json" json:"player1_revealed"`
	Player2Revealed []string `gorm:"serializer:json" json:"player2_revealed"`

	// Round time box; nil while waiting or finished
	RoundDeadline *time.Time `json:"round_deadline,omitempty"`

	Winner DuelWinner `gorm:"type:varchar(8)" json:"winner,omitempty"`

	Timestamps
}

// SlotOf returns the slot a user occupies, or "" when not seated
func (g *DuelGame) SlotOf(userID string) string {
	if userID == "" {
		return ""
	}
	if g.Player1 == userID {
		return SlotPlayer1
	}
	if g.Player2 == userID {
		return SlotPlayer2
	}
	return ""
}

// StateOf returns the mutable player state for a slot
func (g *DuelGame) StateOf(slot string) *PlayerState {
	if slot == SlotPlayer1 {
		return &g.Player1State
	}
	if slot == SlotPlayer2 {
		return &g.Player2State
	}
	return nil
}
