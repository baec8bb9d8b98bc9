package storage

import (
	"context"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store wraps a gorm DB instance and provides helper methods for
// persisting finished matches and user aggregates. All methods are
// nil-receiver safe so the server runs without a database configured.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store helper from a gorm DB.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// DB exposes the underlying gorm DB instance.
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

// ErrNotFound is returned when a record is not found.
var ErrNotFound = gorm.ErrRecordNotFound

// GameResult is the terminal outcome of a session, as handed over by
// the match registry.
type GameResult struct {
	SessionID      string
	GameType       string
	Stake          string
	Status         string
	CreatorWallet  string
	OpponentWallet string
	WinnerWallet   string
	Reason         string
	Moves          int
}

// RecordResult writes the game record and folds the outcome into both
// participants' aggregates.
func (s *Store) RecordResult(ctx context.Context, res GameResult) error {
	if s == nil {
		return nil
	}
	record := GameRecord{
		SessionID:      res.SessionID,
		GameType:       res.GameType,
		Stake:          res.Stake,
		Status:         res.Status,
		CreatorWallet:  res.CreatorWallet,
		OpponentWallet: res.OpponentWallet,
		WinnerWallet:   res.WinnerWallet,
		Reason:         res.Reason,
		Moves:          res.Moves,
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}

	for _, wallet := range []string{res.CreatorWallet, res.OpponentWallet} {
		if wallet == "" {
			continue
		}
		if err := s.applyResult(ctx, wallet, wallet == res.WinnerWallet, res.Stake); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) applyResult(ctx context.Context, wallet string, won bool, stake string) error {
	user := User{WalletAddress: wallet}
	if err := s.db.WithContext(ctx).Where("wallet_address = ?", wallet).FirstOrCreate(&user).Error; err != nil {
		return err
	}
	updates := map[string]any{"games_played": gorm.Expr("games_played + 1")}
	if won {
		updates["games_won"] = gorm.Expr("games_won + 1")
		if amount, err := strconv.ParseFloat(stake, 64); err == nil && amount > 0 {
			updates["total_winnings"] = gorm.Expr("total_winnings + ?", amount)
		}
	}
	return s.db.WithContext(ctx).Model(&User{}).Where("wallet_address = ?", wallet).Updates(updates).Error
}

// RecordSettlement persists a payout intent. The session id is unique,
// so a retried request after a crash cannot duplicate it.
func (s *Store) RecordSettlement(ctx context.Context, rec SettlementRecord) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
}

// EnsureUser upserts a user row for a wallet seen in the lobby.
func (s *Store) EnsureUser(ctx context.Context, wallet, username string) error {
	if s == nil || wallet == "" {
		return nil
	}
	user := User{WalletAddress: wallet, Username: username}
	return s.db.WithContext(ctx).
		Where("wallet_address = ?", wallet).
		Assign(map[string]any{"username": username}).
		FirstOrCreate(&user).Error
}

// Stats represents aggregate counts for the stats endpoint.
type Stats struct {
	Users          int64   `json:"users"`
	GamesRecorded  int64   `json:"gamesRecorded"`
	GamesCompleted int64   `json:"gamesCompleted"`
	TotalWinnings  float64 `json:"totalWinnings"`
}

// FetchStats aggregates counts for the read-only stats endpoint.
func (s *Store) FetchStats(ctx context.Context) (Stats, error) {
	var stats Stats
	if s == nil {
		return stats, nil
	}
	if err := s.db.WithContext(ctx).Model(&User{}).Count(&stats.Users).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&GameRecord{}).Count(&stats.GamesRecorded).Error; err != nil {
		return stats, err
	}
	if err := s.db.WithContext(ctx).Model(&GameRecord{}).Where("status = ?", "completed").Count(&stats.GamesCompleted).Error; err != nil {
		return stats, err
	}
	var total *float64
	if err := s.db.WithContext(ctx).Model(&User{}).Select("SUM(total_winnings)").Scan(&total).Error; err != nil {
		return stats, err
	}
	if total != nil {
		stats.TotalWinnings = *total
	}
	return stats, nil
}

// UserRecord fetches a single wallet's aggregates.
func (s *Store) UserRecord(ctx context.Context, wallet string) (User, error) {
	var user User
	if s == nil {
		return user, ErrNotFound
	}
	err := s.db.WithContext(ctx).Where("wallet_address = ?", wallet).First(&user).Error
	return user, err
}
