package match

import (
	"time"

	"crossrealm/internal/rules"
)

// Outbound event names, matching the wire protocol the clients speak.
const (
	EventLobbyUpdate          = "lobby-update"
	EventPlayerCount          = "player-count-update"
	EventGameCreated          = "game-created"
	EventNewGameAvailable     = "new-game-available"
	EventGameStarted          = "game-started"
	EventGameRemoved          = "game-removed"
	EventGameCancelled        = "game-cancelled"
	EventMoveMade             = "move-made"
	EventMoveError            = "move-error"
	EventTimerUpdate          = "timer-update"
	EventGameEnded            = "game-ended"
	EventOpponentDisconnected = "opponent-disconnected"
	EventOpponentReconnected  = "opponent-reconnected"
	EventGameStateSync        = "game-state-sync"
	EventChatMessage          = "chat-message"
)

// Notifier is the session's outbound boundary: the broadcast router in
// production, a recorder in tests. Implementations must never block;
// sessions call these while holding their own lock.
type Notifier interface {
	ToSession(sessionID, event string, payload any)
	ToConn(connID, event string, payload any)
	ToLobby(event string, payload any)
	JoinRoom(sessionID, connID string)
	DropRoom(sessionID string)
}

// Summary is the waiting-room listing entry for a session.
type Summary struct {
	ID             string    `json:"id"`
	GameType       string    `json:"type"`
	Creator        string    `json:"creator"`
	CreatorWallet  string    `json:"creatorWallet"`
	Stake          string    `json:"stake"`
	CreatedAt      time.Time `json:"createdAt"`
	CurrentPlayers int       `json:"currentPlayers"`
	MaxPlayers     int       `json:"maxPlayers"`
}

// PlayerInfo is the public identity of a participant.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Wallet string `json:"wallet"`
}

// StartedPayload announces an activated session to both participants.
type StartedPayload struct {
	GameID      string           `json:"gameId"`
	GameType    string           `json:"gameType"`
	Players     [2]PlayerInfo    `json:"players"`
	Board       rules.Board      `json:"board"`
	CurrentTurn string           `json:"currentTurn"`
	Stake       string           `json:"stake"`
	Clocks      map[string]int64 `json:"clocks"`
}

// MovePayload announces an accepted move.
type MovePayload struct {
	GameID      string           `json:"gameId"`
	PlayerID    string           `json:"playerId"`
	From        rules.Coord      `json:"from"`
	To          rules.Coord      `json:"to"`
	Board       rules.Board      `json:"board"`
	CurrentTurn string           `json:"currentTurn"`
	Clocks      map[string]int64 `json:"clocks"`
}

// EndedPayload announces a completed session.
type EndedPayload struct {
	GameID string `json:"gameId"`
	Winner string `json:"winner"`
	Name   string `json:"winnerName"`
	Reason string `json:"reason"`
}

// CancelledPayload announces a cancelled waiting session.
type CancelledPayload struct {
	GameID string `json:"gameId"`
	Reason string `json:"reason"`
}

// DisconnectedPayload starts the claim-win grace window for the peer.
type DisconnectedPayload struct {
	GameID          string `json:"gameId"`
	CanClaimWin     bool   `json:"canClaimWin"`
	TimeoutDuration int64  `json:"timeoutDuration"`
}

// ReconnectedPayload clears a previously announced disconnect.
type ReconnectedPayload struct {
	GameID string `json:"gameId"`
}

// SyncPayload is the full state sent to a reconnecting participant.
type SyncPayload struct {
	GameID      string           `json:"gameId"`
	GameType    string           `json:"gameType"`
	Board       rules.Board      `json:"board"`
	CurrentTurn string           `json:"currentTurn"`
	MoveHistory []MoveRecord     `json:"moveHistory"`
	Clocks      map[string]int64 `json:"clocks"`
}

// ChatPayload relays an in-game chat line to the session.
type ChatPayload struct {
	GameID     string `json:"gameId"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}
