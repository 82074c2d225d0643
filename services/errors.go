package services

import "errors"

// User-displayable outcomes. None of these are retried — they signal
// invalid input or an already-settled precondition, not transient failure.
var (
	ErrGameNotFound        = errors.New("game not found")
	ErrGameFull            = errors.New("game already has two players")
	ErrInvalidState        = errors.New("action not allowed in current game state")
	ErrInvalidParticipant  = errors.New("player is not seated in this game")
	ErrInvalidAnswerKind   = errors.New("unknown answer kind")
	ErrUnknownPowerUp      = errors.New("unknown power-up")
	ErrInsufficientPowerUp = errors.New("power-up inventory exhausted")

	ErrUserNotFound        = errors.New("user not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrProgressNotFound    = errors.New("no progress recorded for this achievement")
	ErrNotReady            = errors.New("achievement requirement not yet met")
	ErrAlreadyClaimed      = errors.New("achievement reward already claimed")
)
