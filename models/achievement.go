package models

import (
	"time"
)

// AchievementCategory groups catalog entries by what they track
type AchievementCategory string

const (
	AchievementCategoryGames   AchievementCategory = "games"
	AchievementCategoryLevel   AchievementCategory = "level"
	AchievementCategorySpecial AchievementCategory = "special"
)

// Achievement: catalog entity, immutable at runtime (admin-managed)
type Achievement struct {
	ID          string              `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string              `gorm:"not null" json:"name"`
	Description string              `gorm:"type:text" json:"description"`
	Category    AchievementCategory `gorm:"type:varchar(16);index;not null" json:"category"`
	Requirement int                 `gorm:"not null" json:"requirement"` // progress threshold
	Reward      int                 `json:"reward"`                      // diamonds granted on claim
	XPReward    int                 `json:"xp_reward"`                   // points granted on claim
	IsActive    bool                `gorm:"default:true;index" json:"is_active"`

	Timestamps
}

// UserAchievement: per-(user, achievement) progress, unique on the pair.
// IsCompleted is set only by the claim path, never by the accumulator.
type UserAchievement struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string     `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID string     `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	Progress      int        `gorm:"default:0" json:"progress"`
	IsCompleted   bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	Timestamps
}

// GameAction is a reportable game outcome
type GameAction string

const (
	GameActionComplete GameAction = "complete"
	GameActionWin      GameAction = "win"
)

// GameReward maps (game, action) to an immediate flat payout, independent
// of achievements. GameKey is the slugified game name.
type GameReward struct {
	ID       string     `gorm:"primaryKey;type:uuid" json:"id"`
	GameKey  string     `gorm:"uniqueIndex:idx_game_action;not null" json:"game_key"`
	Action   GameAction `gorm:"uniqueIndex:idx_game_action;type:varchar(16);not null" json:"action"`
	Diamonds int        `json:"diamonds"`
	Coins    int        `json:"coins"`
	Points   int        `json:"points"`

	Timestamps
}

// Starter catalog, seeded only into an empty achievements table
var DefaultAchievements = []Achievement{
	{Name: "Getting Started", Description: "Play 5 games", Category: AchievementCategoryGames, Requirement: 5, Reward: 10, XPReward: 50},
	{Name: "Regular", Description: "Play 50 games", Category: AchievementCategoryGames, Requirement: 50, Reward: 50, XPReward: 250},
	{Name: "First Victory", Description: "Win your first game", Category: AchievementCategoryGames, Requirement: 1, Reward: 15, XPReward: 75},
	{Name: "Champion", Description: "Win 25 games", Category: AchievementCategoryGames, Requirement: 25, Reward: 100, XPReward: 500},
	{Name: "Sharp Shooter", Description: "Score 40 points in a single game", Category: AchievementCategoryGames, Requirement: 40, Reward: 30, XPReward: 150},
	{Name: "Duel Devotee", Description: "Complete rounds of Word Duel again and again", Category: AchievementCategoryGames, Requirement: 20, Reward: 40, XPReward: 200},
	{Name: "Polyglot in Training", Description: "Reach level 10", Category: AchievementCategoryLevel, Requirement: 10, Reward: 60, XPReward: 300},
	{Name: "Completionist", Description: "Win a round in every game type", Category: AchievementCategoryGames, Requirement: 4, Reward: 200, XPReward: 1000},
}

// Default payout table, seeded at startup (upsert, keeps admin edits)
var DefaultGameRewards = []GameReward{
	{GameKey: "word-duel", Action: GameActionComplete, Diamonds: 1, Coins: 5, Points: 10},
	{GameKey: "word-duel", Action: GameActionWin, Diamonds: 3, Coins: 10, Points: 25},
	{GameKey: "word-match", Action: GameActionComplete, Diamonds: 1, Coins: 5, Points: 10},
	{GameKey: "word-match", Action: GameActionWin, Diamonds: 2, Coins: 8, Points: 20},
	{GameKey: "sentence-builder", Action: GameActionComplete, Diamonds: 1, Coins: 4, Points: 8},
	{GameKey: "hangman-sprint", Action: GameActionComplete, Diamonds: 1, Coins: 3, Points: 6},
}
