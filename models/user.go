package models

// User is the local snapshot of a player's wallet and lifetime stats.
// Counter fields are only mutated through atomic increment updates issued
// by the progress and claim services — never read-modify-write.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"index;not null" json:"username"`

	// Wallet
	Diamonds int `json:"diamonds" gorm:"default:0"`
	Coins    int `json:"coins" gorm:"default:0"`
	Points   int `json:"points" gorm:"default:0"`

	// Lifetime stats — canonical source for achievement reconciliation
	Level       int `json:"level" gorm:"default:1"`
	GamesPlayed int `json:"games_played" gorm:"default:0"`
	GamesWon    int `json:"games_won" gorm:"default:0"`

	Timestamps
}
