package ws

import (
	"encoding/json"

	"crossrealm/internal/match"
	"crossrealm/internal/rules"
)

// inbound is the envelope every client message arrives in.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound event names, matching the wire protocol the clients speak.
const (
	eventJoinLobby = "join-lobby"
	eventCreate    = "create-game"
	eventJoin      = "join-game"
	eventMove      = "make-move"
	eventCancel    = "cancel-game"
	eventChat      = "game-chat"
	eventReconnect = "reconnect-to-game"
)

type joinLobbyPayload struct {
	PlayerName   string `json:"playerName"`
	PlayerWallet string `json:"playerWallet"`
}

type createPayload struct {
	Type        string            `json:"type"`
	Stake       string            `json:"stake"`
	TimeControl match.TimeControl `json:"timeControl"`
	CreatorName string            `json:"creatorName"`
	Wallet      string            `json:"creatorWallet"`
}

type joinPayload struct {
	GameID       string `json:"gameId"`
	PlayerName   string `json:"playerName"`
	PlayerWallet string `json:"playerWallet"`
}

type movePayload struct {
	GameID string      `json:"gameId"`
	From   rules.Coord `json:"from"`
	To     rules.Coord `json:"to"`
}

type cancelPayload struct {
	GameID string `json:"gameId"`
}

type chatPayload struct {
	GameID  string `json:"gameId"`
	Message string `json:"message"`
}

type reconnectPayload struct {
	GameID       string `json:"gameId"`
	PlayerName   string `json:"playerName"`
	PlayerWallet string `json:"playerWallet"`
}

// createdPayload acknowledges a create-game request.
type createdPayload struct {
	Success bool           `json:"success"`
	Game    *match.Summary `json:"game,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// joinResultPayload reports a failed join; success flows through the
// session's own game-started broadcast.
type joinResultPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// moveErrorPayload rejects a move to the mover only.
type moveErrorPayload struct {
	GameID string `json:"gameId"`
	Error  string `json:"error"`
	Kind   string `json:"kind"`
}

// errorPayload is the generic rejection for malformed or misdirected
// events.
type errorPayload struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// lobbyPayload answers join-lobby with the current waiting sessions.
type lobbyPayload struct {
	Games       []match.Summary `json:"games"`
	PlayerCount int             `json:"playerCount"`
}
