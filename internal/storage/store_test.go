package storage

import (
	"context"
	"errors"
	"testing"
)

// The server runs without a database configured; every store method
// must tolerate a nil receiver.
func TestNilStoreIsNoOp(t *testing.T) {
	var s *Store
	ctx := context.Background()

	if err := s.RecordResult(ctx, GameResult{SessionID: "abc"}); err != nil {
		t.Fatalf("RecordResult on nil store: %v", err)
	}
	if err := s.RecordSettlement(ctx, SettlementRecord{SessionID: "abc"}); err != nil {
		t.Fatalf("RecordSettlement on nil store: %v", err)
	}
	if err := s.EnsureUser(ctx, "0xWALLET", "alice"); err != nil {
		t.Fatalf("EnsureUser on nil store: %v", err)
	}
	stats, err := s.FetchStats(ctx)
	if err != nil {
		t.Fatalf("FetchStats on nil store: %v", err)
	}
	if stats.Users != 0 || stats.GamesRecorded != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if s.DB() != nil {
		t.Fatal("nil store should expose a nil DB")
	}
	if _, err := s.UserRecord(ctx, "0xWALLET"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewStoreNilDB(t *testing.T) {
	if NewStore(nil) != nil {
		t.Fatal("NewStore(nil) should return nil")
	}
}
