// Package match implements the authoritative match session manager:
// session state machines, per-player clocks, turn enforcement, the
// disconnect grace window, and the registry indexing sessions by id and
// by participant connection.
package match

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"crossrealm/internal/clock"
	"crossrealm/internal/rules"
)

// Status is the session lifecycle state. Completed and Cancelled are
// terminal and entered at most once.
type Status int

const (
	StatusWaiting Status = iota
	StatusActive
	StatusCompleted
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusWaiting:   "waiting",
	StatusActive:    "active",
	StatusCompleted: "completed",
	StatusCancelled: "cancelled",
}

func (s Status) String() string { return statusNames[s] }

// Terminal reports whether the status accepts no further mutation.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusCancelled }

// Player identifies a participant: the live connection handle plus the
// wallet and display name supplied at create/join time.
type Player struct {
	ConnID string
	Wallet string
	Name   string
}

// TimeControl configures both clocks, in seconds.
type TimeControl struct {
	BaseSec      int `json:"base"`
	IncrementSec int `json:"increment"`
}

// DefaultTimeControl mirrors the historical server default.
var DefaultTimeControl = TimeControl{BaseSec: 600, IncrementSec: 5}

// MoveRecord is one immutable entry of the canonical move log.
type MoveRecord struct {
	Player int         `json:"player"`
	From   rules.Coord `json:"from"`
	To     rules.Coord `json:"to"`
	At     time.Time   `json:"timestamp"`
}

// Result is the snapshot handed to the terminal hook when a session
// completes or is cancelled.
type Result struct {
	SessionID string
	GameType  rules.GameType
	Stake     string
	Status    Status
	Winner    int // player index, -1 when cancelled
	Players   [2]Player
	Reason    string
	Moves     int
}

// WinnerPlayer returns the winning participant, if any.
func (r Result) WinnerPlayer() (Player, bool) {
	if r.Status != StatusCompleted || r.Winner < 0 {
		return Player{}, false
	}
	return r.Players[r.Winner], true
}

const tickInterval = time.Second

// Session is one match. A single mutex serializes every mutating
// operation, clock ticks and grace timeouts included, so board, turn
// and clock state never race.
type Session struct {
	mu sync.Mutex

	id       string
	gameType rules.GameType
	stake    string
	tc       TimeControl
	engine   rules.Engine

	players [2]Player // players[1] is zero while Waiting
	status  Status
	board   rules.Board
	moves   []MoveRecord
	turn    int // player index; -1 while Waiting
	clock   *clock.Clock

	disconnected   int // player index, -1 when both are connected
	disconnectedAt time.Time
	grace          time.Duration
	graceTimer     *time.Timer
	graceGen       uint64

	createdAt time.Time
	winner    int
	endReason string

	notify     Notifier
	onTerminal func(Result)
	stopTick   chan struct{}
	ticking    bool
	log        zerolog.Logger
}

func newSession(id string, gt rules.GameType, stake string, tc TimeControl, creator Player, engine rules.Engine, notify Notifier, grace time.Duration, onTerminal func(Result), log zerolog.Logger) *Session {
	if tc.BaseSec <= 0 {
		tc = DefaultTimeControl
	}
	return &Session{
		id:           id,
		gameType:     gt,
		stake:        stake,
		tc:           tc,
		engine:       engine,
		players:      [2]Player{creator},
		status:       StatusWaiting,
		board:        engine.Initial(),
		turn:         -1,
		clock:        clock.New(int64(tc.BaseSec)*1000, int64(tc.IncrementSec)*1000),
		disconnected: -1,
		grace:        grace,
		createdAt:    time.Now(),
		winner:       -1,
		notify:       notify,
		onTerminal:   onTerminal,
		stopTick:     make(chan struct{}),
		log:          log.With().Str("session", id).Logger(),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// GameType returns the session's game type.
func (s *Session) GameType() rules.GameType { return s.gameType }

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Summary builds the waiting-room listing entry.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 1
	if s.players[1].ConnID != "" {
		n = 2
	}
	return Summary{
		ID:             s.id,
		GameType:       string(s.gameType),
		Creator:        s.players[0].Name,
		CreatorWallet:  s.players[0].Wallet,
		Stake:          s.stake,
		CreatedAt:      s.createdAt,
		CurrentPlayers: n,
		MaxPlayers:     2,
	}
}

// playerIndex returns the participant index for a connection, or -1.
func (s *Session) playerIndex(connID string) int {
	for i, p := range s.players {
		if p.ConnID != "" && p.ConnID == connID {
			return i
		}
	}
	return -1
}

// clocksLocked maps connection ids to remaining milliseconds.
func (s *Session) clocksLocked() map[string]int64 {
	out := make(map[string]int64, 2)
	for i, p := range s.players {
		if p.ConnID != "" {
			out[p.ConnID] = s.clock.Remaining(i)
		}
	}
	return out
}

// Join activates a Waiting session with the second participant. The
// creator holds the first turn.
func (s *Session) Join(p Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusWaiting {
		if s.players[1].ConnID != "" {
			return errf(KindCapacity, "session %s is full", s.id)
		}
		return errf(KindState, "session %s is %s", s.id, s.status)
	}
	if p.ConnID == s.players[0].ConnID {
		return errf(KindValidation, "cannot join your own session")
	}
	if p.ConnID == "" {
		return errf(KindValidation, "missing connection id")
	}

	s.players[1] = p
	s.status = StatusActive
	s.turn = 0
	s.clock.Start(0)
	s.startTickLoopLocked()

	s.notify.JoinRoom(s.id, p.ConnID)
	s.notify.ToSession(s.id, EventGameStarted, StartedPayload{
		GameID:      s.id,
		GameType:    string(s.gameType),
		Players:     [2]PlayerInfo{{ID: s.players[0].ConnID, Name: s.players[0].Name, Wallet: s.players[0].Wallet}, {ID: p.ConnID, Name: p.Name, Wallet: p.Wallet}},
		Board:       s.board,
		CurrentTurn: s.players[0].ConnID,
		Stake:       s.stake,
		Clocks:      s.clocksLocked(),
	})
	s.notify.ToLobby(EventGameRemoved, s.id)
	s.log.Info().Str("opponent", p.ConnID).Msg("session activated")
	return nil
}

// Move applies a participant's move. On rejection nothing mutates and
// only the caller learns the reason.
func (s *Session) Move(connID string, from, to rules.Coord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return errf(KindState, "session %s is %s", s.id, s.status)
	}
	idx := s.playerIndex(connID)
	if idx < 0 {
		return errf(KindNotFound, "connection is not a participant of session %s", s.id)
	}
	if idx != s.turn {
		return errf(KindTurn, "not your turn")
	}
	if err := s.engine.Validate(s.board, from, to, idx); err != nil {
		return &Error{Kind: KindRule, Reason: err.Error()}
	}

	s.board = s.engine.Apply(s.board, from, to)
	s.moves = append(s.moves, MoveRecord{Player: idx, From: from, To: to, At: time.Now()})
	s.clock.OnMoveCommitted(idx)
	s.turn = 1 - idx

	s.notify.ToSession(s.id, EventMoveMade, MovePayload{
		GameID:      s.id,
		PlayerID:    connID,
		From:        from,
		To:          to,
		Board:       s.board,
		CurrentTurn: s.players[s.turn].ConnID,
		Clocks:      s.clocksLocked(),
	})

	if out := s.engine.Terminal(s.board); out.Over {
		s.finishLocked(StatusCompleted, out.Winner, out.Reason)
	}
	return nil
}

// Cancel withdraws a Waiting session. Only the creator may cancel.
func (s *Session) Cancel(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusWaiting {
		return errf(KindState, "session %s is %s", s.id, s.status)
	}
	if connID != s.players[0].ConnID {
		return errf(KindValidation, "only the creator can cancel")
	}
	s.finishLocked(StatusCancelled, -1, "cancelled by creator")
	return nil
}

// Chat relays a message to everyone in the session.
func (s *Session) Chat(connID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Terminal() {
		return errf(KindState, "session %s is %s", s.id, s.status)
	}
	idx := s.playerIndex(connID)
	if idx < 0 {
		return errf(KindNotFound, "connection is not a participant of session %s", s.id)
	}
	s.notify.ToSession(s.id, EventChatMessage, ChatPayload{
		GameID:     s.id,
		PlayerID:   connID,
		PlayerName: s.players[idx].Name,
		Message:    message,
		Timestamp:  time.Now().UnixMilli(),
	})
	return nil
}

// Disconnect handles a participant's connection loss. A Waiting session
// dies with its creator; an Active session keeps running (clock
// included) while the grace window gives the player a chance to return.
func (s *Session) Disconnect(connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.playerIndex(connID)
	if idx < 0 {
		return errf(KindNotFound, "connection is not a participant of session %s", s.id)
	}
	switch s.status {
	case StatusWaiting:
		if idx == 0 {
			s.finishLocked(StatusCancelled, -1, "creator disconnected")
		}
		return nil
	case StatusActive:
		if s.disconnected == idx {
			return nil
		}
		s.disconnected = idx
		s.disconnectedAt = time.Now()
		s.graceGen++
		gen := s.graceGen
		other := s.players[1-idx]
		s.notify.ToConn(other.ConnID, EventOpponentDisconnected, DisconnectedPayload{
			GameID:          s.id,
			CanClaimWin:     true,
			TimeoutDuration: s.grace.Milliseconds(),
		})
		s.graceTimer = time.AfterFunc(s.grace, func() { s.graceExpired(gen) })
		s.log.Info().Int("player", idx).Dur("grace", s.grace).Msg("participant disconnected")
		return nil
	}
	return errf(KindState, "session %s is %s", s.id, s.status)
}

// graceExpired forfeits the disconnected player once the window lapses.
// The generation check makes a reconnect-then-refire impossible.
func (s *Session) graceExpired(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive || s.disconnected < 0 || s.graceGen != gen {
		return
	}
	s.finishLocked(StatusCompleted, 1-s.disconnected, "opponent disconnected")
}

// Reconnect rebinds a returning participant, identified by wallet, to
// a fresh connection. Returns the stale connection id so the registry
// can remap its index.
func (s *Session) Reconnect(p Player) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return "", errf(KindState, "session %s is %s", s.id, s.status)
	}
	idx := -1
	for i, existing := range s.players {
		if existing.Wallet != "" && existing.Wallet == p.Wallet {
			idx = i
			break
		}
		if existing.ConnID == p.ConnID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", errf(KindNotFound, "no matching participant in session %s", s.id)
	}
	if s.disconnected != idx {
		return "", errf(KindState, "participant is not marked disconnected")
	}

	old := s.players[idx].ConnID
	s.players[idx].ConnID = p.ConnID
	s.disconnected = -1
	s.graceGen++
	if s.graceTimer != nil {
		s.graceTimer.Stop()
		s.graceTimer = nil
	}

	s.notify.JoinRoom(s.id, p.ConnID)
	s.notify.ToConn(s.players[1-idx].ConnID, EventOpponentReconnected, ReconnectedPayload{GameID: s.id})
	s.notify.ToConn(p.ConnID, EventGameStateSync, SyncPayload{
		GameID:      s.id,
		GameType:    string(s.gameType),
		Board:       s.board,
		CurrentTurn: s.players[s.turn].ConnID,
		MoveHistory: append([]MoveRecord(nil), s.moves...),
		Clocks:      s.clocksLocked(),
	})
	s.log.Info().Int("player", idx).Msg("participant reconnected")
	return old, nil
}

// startTickLoopLocked spawns the 1-second driver that funnels clock
// ticks through the session lock.
func (s *Session) startTickLoopLocked() {
	if s.ticking {
		return
	}
	s.ticking = true
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopTick:
				return
			case <-ticker.C:
				s.tick(tickInterval.Milliseconds())
			}
		}
	}()
}

// tick charges one interval to the active clock and broadcasts the
// remainders; an exhausted clock forces the loss immediately.
func (s *Session) tick(elapsedMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return
	}
	expired, fired := s.clock.Tick(elapsedMs)
	if fired {
		s.finishLocked(StatusCompleted, 1-expired, "time expired")
		return
	}
	s.notify.ToSession(s.id, EventTimerUpdate, s.clocksLocked())
}

// finishLocked performs the single terminal transition: stops clocks
// and timers, emits the closing notifications in commit order, and
// hands the result to the terminal hook.
func (s *Session) finishLocked(status Status, winner int, reason string) {
	if s.status.Terminal() {
		return
	}
	s.status = status
	s.winner = winner
	s.endReason = reason
	s.clock.Stop()
	if s.ticking {
		close(s.stopTick)
		s.ticking = false
	}
	if s.graceTimer != nil {
		s.graceTimer.Stop()
		s.graceTimer = nil
	}

	switch status {
	case StatusCompleted:
		payload := EndedPayload{GameID: s.id, Reason: reason}
		if winner >= 0 {
			payload.Winner = s.players[winner].ConnID
			payload.Name = s.players[winner].Name
		}
		s.notify.ToSession(s.id, EventGameEnded, payload)
	case StatusCancelled:
		s.notify.ToSession(s.id, EventGameCancelled, CancelledPayload{GameID: s.id, Reason: reason})
		s.notify.ToLobby(EventGameRemoved, s.id)
	}

	s.log.Info().Str("status", status.String()).Int("winner", winner).Str("reason", reason).Msg("session finished")
	if s.onTerminal != nil {
		s.onTerminal(Result{
			SessionID: s.id,
			GameType:  s.gameType,
			Stake:     s.stake,
			Status:    status,
			Winner:    winner,
			Players:   s.players,
			Reason:    reason,
			Moves:     len(s.moves),
		})
	}
}
