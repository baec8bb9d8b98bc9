package match

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"crossrealm/internal/rules"
	"crossrealm/internal/settlement"
	"crossrealm/internal/storage"
	"crossrealm/pkg/utils"
)

// DefaultGraceWindow is how long a disconnected participant of an
// Active session has to reconnect before forfeiting.
const DefaultGraceWindow = 60 * time.Second

// RegistryConfig wires the registry's collaborators.
type RegistryConfig struct {
	Notifier    Notifier
	Settlement  settlement.Requester
	Store       *storage.Store // nil disables record keeping
	GraceWindow time.Duration
	Logger      zerolog.Logger
}

// Registry owns the session indexes: id to session, and connection to
// session. A connection participates in at most one waiting or active
// session at a time.
//
// The registry mutex guards only the maps; it is never held while
// calling into a session, and sessions only call back into the registry
// through the eviction path. That keeps lock ordering one-directional.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	byConn   map[string]string // connID -> sessionID
	order    []string          // creation order, for lobby listings

	notify Notifier
	settle settlement.Requester
	store  *storage.Store
	grace  time.Duration
	log    zerolog.Logger
}

// NewRegistry builds an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	grace := cfg.GraceWindow
	if grace <= 0 {
		grace = DefaultGraceWindow
	}
	return &Registry{
		sessions: make(map[string]*Session),
		byConn:   make(map[string]string),
		notify:   cfg.Notifier,
		settle:   cfg.Settlement,
		store:    cfg.Store,
		grace:    grace,
		log:      cfg.Logger.With().Str("component", "registry").Logger(),
	}
}

// Create opens a new Waiting session owned by the creator connection.
func (r *Registry) Create(creator Player, gt rules.GameType, stake string, tc TimeControl) (*Session, error) {
	if creator.ConnID == "" {
		return nil, errf(KindValidation, "missing connection id")
	}
	engine, err := rules.ForGame(gt)
	if err != nil {
		return nil, errf(KindValidation, "%v", err)
	}

	id := utils.RandomHex(16)
	s := newSession(id, gt, stake, tc, creator, engine, r.notify, r.grace, r.evict, r.log)

	r.mu.Lock()
	if owned, ok := r.byConn[creator.ConnID]; ok {
		r.mu.Unlock()
		return nil, errf(KindCapacity, "connection already participates in session %s", owned)
	}
	r.sessions[id] = s
	r.byConn[creator.ConnID] = id
	r.order = append(r.order, id)
	r.mu.Unlock()

	r.notify.JoinRoom(id, creator.ConnID)
	r.log.Info().Str("session", id).Str("type", string(gt)).Str("stake", stake).Msg("session created")
	return s, nil
}

// Join adds a second participant to a waiting session.
func (r *Registry) Join(p Player, sessionID string) (*Session, error) {
	if p.ConnID == "" {
		return nil, errf(KindValidation, "missing connection id")
	}

	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return nil, errf(KindNotFound, "unknown session %s", sessionID)
	}
	if owned, booked := r.byConn[p.ConnID]; booked {
		r.mu.Unlock()
		return nil, errf(KindCapacity, "connection already participates in session %s", owned)
	}
	// reserve before joining so a concurrent create cannot double-book
	r.byConn[p.ConnID] = sessionID
	r.mu.Unlock()

	if err := s.Join(p); err != nil {
		r.mu.Lock()
		if r.byConn[p.ConnID] == sessionID {
			delete(r.byConn, p.ConnID)
		}
		r.mu.Unlock()
		return nil, err
	}
	return s, nil
}

// Get looks a session up by id.
func (r *Registry) Get(sessionID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, errf(KindNotFound, "unknown session %s", sessionID)
	}
	return s, nil
}

// SessionFor returns the session a connection participates in.
func (r *Registry) SessionFor(connID string) (*Session, bool) {
	r.mu.Lock()
	id, ok := r.byConn[connID]
	s := r.sessions[id]
	r.mu.Unlock()
	return s, ok && s != nil
}

// ListWaiting returns waiting-session summaries in creation order.
func (r *Registry) ListWaiting() []Summary {
	r.mu.Lock()
	snapshot := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		if s, ok := r.sessions[id]; ok {
			snapshot = append(snapshot, s)
		}
	}
	r.mu.Unlock()

	out := make([]Summary, 0, len(snapshot))
	for _, s := range snapshot {
		if s.Status() == StatusWaiting {
			out = append(out, s.Summary())
		}
	}
	return out
}

// Counts reports waiting and active session totals.
func (r *Registry) Counts() (waiting, active int) {
	r.mu.Lock()
	snapshot := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.Unlock()

	for _, s := range snapshot {
		switch s.Status() {
		case StatusWaiting:
			waiting++
		case StatusActive:
			active++
		}
	}
	return
}

// HandleDisconnect routes a connection loss to the owning session, if
// any. Unknown connections are a no-op.
func (r *Registry) HandleDisconnect(connID string) {
	s, ok := r.SessionFor(connID)
	if !ok {
		return
	}
	if err := s.Disconnect(connID); err != nil {
		r.log.Debug().Err(err).Str("conn", connID).Msg("disconnect ignored")
	}
}

// Reconnect rebinds a returning participant to a fresh connection and
// updates the connection index.
func (r *Registry) Reconnect(p Player, sessionID string) (*Session, error) {
	s, err := r.Get(sessionID)
	if err != nil {
		return nil, err
	}
	old, err := s.Reconnect(p)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.byConn[old] == sessionID {
		delete(r.byConn, old)
	}
	r.byConn[p.ConnID] = sessionID
	r.mu.Unlock()
	return s, nil
}

// evict runs as the session terminal hook: drop the indexes, tear down
// the broadcast room, then settle and record off the hot path.
func (r *Registry) evict(res Result) {
	r.mu.Lock()
	delete(r.sessions, res.SessionID)
	for _, p := range res.Players {
		if p.ConnID != "" && r.byConn[p.ConnID] == res.SessionID {
			delete(r.byConn, p.ConnID)
		}
	}
	for i, id := range r.order {
		if id == res.SessionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	r.notify.DropRoom(res.SessionID)

	// settlement and record keeping never block the session lock
	go r.finalize(res)
}

func (r *Registry) finalize(res Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if winner, ok := res.WinnerPlayer(); ok && r.settle != nil {
		intent := settlement.Intent{
			SessionID: res.SessionID,
			GameType:  string(res.GameType),
			Stake:     res.Stake,
			Winner:    settlement.Identity{Wallet: winner.Wallet, Name: winner.Name},
			Reason:    res.Reason,
		}
		if err := r.settle.RequestSettlement(ctx, intent); err != nil {
			r.log.Error().Err(err).Str("session", res.SessionID).Msg("settlement request failed")
		}
	}

	if err := r.store.RecordResult(ctx, storage.GameResult{
		SessionID:      res.SessionID,
		GameType:       string(res.GameType),
		Stake:          res.Stake,
		Status:         res.Status.String(),
		CreatorWallet:  res.Players[0].Wallet,
		OpponentWallet: res.Players[1].Wallet,
		WinnerWallet:   winnerWallet(res),
		Reason:         res.Reason,
		Moves:          res.Moves,
	}); err != nil {
		r.log.Error().Err(err).Str("session", res.SessionID).Msg("record keeping failed")
	}
}

func winnerWallet(res Result) string {
	if winner, ok := res.WinnerPlayer(); ok {
		return winner.Wallet
	}
	return ""
}
