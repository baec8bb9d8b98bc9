// Package settlement is the stake-settlement boundary. The match core
// emits one Intent per completed session with a winner; executing it
// (on-chain or otherwise) belongs to an external collaborator.
package settlement

import (
	"context"

	"github.com/rs/zerolog"

	"crossrealm/internal/storage"
)

// Identity names the participant a settlement pays out to.
type Identity struct {
	Wallet string `json:"wallet"`
	Name   string `json:"name"`
}

// Intent describes a requested settlement.
type Intent struct {
	SessionID string   `json:"sessionId"`
	GameType  string   `json:"gameType"`
	Stake     string   `json:"stake"`
	Winner    Identity `json:"winner"`
	Reason    string   `json:"reason"`
}

// Requester consumes settlement intents.
type Requester interface {
	RequestSettlement(ctx context.Context, intent Intent) error
}

// LogRequester records intents to the process log; the default when no
// settlement backend is wired.
type LogRequester struct {
	log zerolog.Logger
}

// NewLogRequester builds the logging requester.
func NewLogRequester(log zerolog.Logger) *LogRequester {
	return &LogRequester{log: log.With().Str("component", "settlement").Logger()}
}

func (l *LogRequester) RequestSettlement(_ context.Context, intent Intent) error {
	l.log.Info().
		Str("session", intent.SessionID).
		Str("gameType", intent.GameType).
		Str("stake", intent.Stake).
		Str("winner", intent.Winner.Wallet).
		Str("reason", intent.Reason).
		Msg("settlement requested")
	return nil
}

// StoreRequester persists each intent as a pending settlement record in
// addition to logging it.
type StoreRequester struct {
	inner LogRequester
	store *storage.Store
}

// NewStoreRequester builds the persisting requester.
func NewStoreRequester(store *storage.Store, log zerolog.Logger) *StoreRequester {
	return &StoreRequester{
		inner: LogRequester{log: log.With().Str("component", "settlement").Logger()},
		store: store,
	}
}

func (s *StoreRequester) RequestSettlement(ctx context.Context, intent Intent) error {
	_ = s.inner.RequestSettlement(ctx, intent)
	return s.store.RecordSettlement(ctx, storage.SettlementRecord{
		SessionID:    intent.SessionID,
		GameType:     intent.GameType,
		Stake:        intent.Stake,
		WinnerWallet: intent.Winner.Wallet,
		Reason:       intent.Reason,
	})
}
