// Package broadcast fans session and lobby notifications out to
// connections. Delivery is strictly non-blocking: a connection that
// cannot keep up drops messages instead of stalling a session.
package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Conn is a registered connection. Send must not block; it reports
// whether the payload was accepted.
type Conn interface {
	ID() string
	Send(data []byte) bool
}

// Envelope is the wire framing for every outbound event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Router tracks connections and per-session rooms. For a single
// session, messages go out in the order the triggering state
// transitions committed, because sessions call in while holding their
// own lock.
type Router struct {
	mu    sync.RWMutex
	conns map[string]Conn
	rooms map[string]map[string]struct{} // sessionID -> connID set
	log   zerolog.Logger
}

// NewRouter builds an empty router.
func NewRouter(log zerolog.Logger) *Router {
	return &Router{
		conns: make(map[string]Conn),
		rooms: make(map[string]map[string]struct{}),
		log:   log.With().Str("component", "broadcast").Logger(),
	}
}

// Register adds a connection to the lobby population.
func (r *Router) Register(c Conn) {
	r.mu.Lock()
	r.conns[c.ID()] = c
	r.mu.Unlock()
}

// Unregister removes a connection everywhere.
func (r *Router) Unregister(connID string) {
	r.mu.Lock()
	delete(r.conns, connID)
	for room, members := range r.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	r.mu.Unlock()
}

// JoinRoom adds a connection to a session's room.
func (r *Router) JoinRoom(sessionID, connID string) {
	r.mu.Lock()
	members, ok := r.rooms[sessionID]
	if !ok {
		members = make(map[string]struct{})
		r.rooms[sessionID] = members
	}
	members[connID] = struct{}{}
	r.mu.Unlock()
}

// LeaveRoom drops one connection from a session's room.
func (r *Router) LeaveRoom(sessionID, connID string) {
	r.mu.Lock()
	if members, ok := r.rooms[sessionID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, sessionID)
		}
	}
	r.mu.Unlock()
}

// DropRoom removes a session's room entirely.
func (r *Router) DropRoom(sessionID string) {
	r.mu.Lock()
	delete(r.rooms, sessionID)
	r.mu.Unlock()
}

// Count returns the number of registered connections.
func (r *Router) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Router) marshal(event string, payload any) []byte {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		r.log.Error().Err(err).Str("event", event).Msg("marshal failed")
		return nil
	}
	return data
}

// ToSession delivers to every connection in the session's room.
func (r *Router) ToSession(sessionID, event string, payload any) {
	data := r.marshal(event, payload)
	if data == nil {
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for connID := range r.rooms[sessionID] {
		if c, ok := r.conns[connID]; ok {
			if !c.Send(data) {
				r.log.Warn().Str("conn", connID).Str("event", event).Msg("dropped slow connection message")
			}
		}
	}
}

// ToConn delivers to a single connection.
func (r *Router) ToConn(connID, event string, payload any) {
	data := r.marshal(event, payload)
	if data == nil {
		return
	}
	r.mu.RLock()
	c, ok := r.conns[connID]
	r.mu.RUnlock()
	if ok {
		c.Send(data)
	}
}

// ToLobby delivers to every registered connection.
func (r *Router) ToLobby(event string, payload any) {
	r.toLobby("", event, payload)
}

// ToLobbyExcept delivers to every registered connection but one,
// typically the originator of the event.
func (r *Router) ToLobbyExcept(except, event string, payload any) {
	r.toLobby(except, event, payload)
}

func (r *Router) toLobby(except, event string, payload any) {
	data := r.marshal(event, payload)
	if data == nil {
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for connID, c := range r.conns {
		if connID == except {
			continue
		}
		c.Send(data)
	}
}
