package storage

import (
	"time"

	"github.com/google/uuid"
)

// User aggregates a wallet's lifetime stats, updated as matches finish.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WalletAddress string    `gorm:"uniqueIndex"`
	Username      string
	GamesPlayed   int
	GamesWon      int
	Rating        int `gorm:"default:1500"`
	TotalWinnings float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SettlementRecord is a persisted payout intent, written when a staked
// session completes with a winner. Execution is external; Status stays
// "pending" until something downstream flips it.
type SettlementRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID    string    `gorm:"uniqueIndex"`
	GameType     string
	Stake        string
	WinnerWallet string
	Reason       string
	Status       string `gorm:"default:pending;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GameRecord is the durable trace of one finished session.
type GameRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID      string    `gorm:"uniqueIndex"`
	GameType       string    `gorm:"index"`
	Stake          string
	Status         string `gorm:"index"`
	CreatorWallet  string
	OpponentWallet string
	WinnerWallet   string
	Reason         string
	Moves          int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
