// Package ws is the websocket transport: it upgrades connections,
// parses inbound event envelopes, and routes them to the match
// registry. All outbound traffic flows through the broadcast router.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"crossrealm/internal/broadcast"
	"crossrealm/internal/match"
	"crossrealm/internal/rules"
	"crossrealm/internal/storage"
)

type lobbyPlayer struct {
	Name   string
	Wallet string
}

// Server owns the websocket endpoint and the lobby presence roster.
type Server struct {
	registry *match.Registry
	router   *broadcast.Router
	store    *storage.Store
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu    sync.Mutex
	lobby map[string]lobbyPlayer
}

// NewServer wires the transport. allowedOrigins is the browser origin
// allowlist; empty permits any origin (development mode).
func NewServer(registry *match.Registry, router *broadcast.Router, store *storage.Store, allowedOrigins []string, log zerolog.Logger) *Server {
	s := &Server{
		registry: registry,
		router:   router,
		store:    store,
		lobby:    make(map[string]lobbyPlayer),
		log:      log.With().Str("component", "ws").Logger(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return s
}

// HandleWS upgrades the connection and starts its pumps.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade failed")
		return
	}
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		srv:  s,
	}
	c.log = s.log.With().Str("conn", c.id).Logger()
	s.router.Register(c)
	c.log.Debug().Msg("connected")

	go c.writePump()
	go c.readPump()
}

// dropClient tears a connection down: registry disconnect handling
// first so the grace window starts, then presence bookkeeping.
func (s *Server) dropClient(c *client) {
	s.registry.HandleDisconnect(c.id)
	s.router.Unregister(c.id)

	s.mu.Lock()
	delete(s.lobby, c.id)
	count := len(s.lobby)
	s.mu.Unlock()

	s.router.ToLobby(match.EventPlayerCount, count)
	c.log.Debug().Msg("disconnected")
}

// dispatch routes one inbound envelope. Rejections go back to the
// sender only; they never touch other connections.
func (s *Server) dispatch(c *client, raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.sendError(c, match.KindValidation, "malformed message")
		return
	}
	switch msg.Event {
	case eventJoinLobby:
		s.handleJoinLobby(c, msg.Data)
	case eventCreate:
		s.handleCreate(c, msg.Data)
	case eventJoin:
		s.handleJoin(c, msg.Data)
	case eventMove:
		s.handleMove(c, msg.Data)
	case eventCancel:
		s.handleCancel(c, msg.Data)
	case eventChat:
		s.handleChat(c, msg.Data)
	case eventReconnect:
		s.handleReconnect(c, msg.Data)
	default:
		s.sendError(c, match.KindValidation, "unknown event %q", msg.Event)
	}
}

func (s *Server) handleJoinLobby(c *client, data json.RawMessage) {
	var p joinLobbyPayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.sendError(c, match.KindValidation, "malformed join-lobby payload")
		return
	}

	s.mu.Lock()
	s.lobby[c.id] = lobbyPlayer{Name: p.PlayerName, Wallet: p.PlayerWallet}
	count := len(s.lobby)
	s.mu.Unlock()

	if p.PlayerWallet != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.store.EnsureUser(ctx, p.PlayerWallet, p.PlayerName); err != nil {
				s.log.Error().Err(err).Str("wallet", p.PlayerWallet).Msg("user upsert failed")
			}
		}()
	}

	s.router.ToConn(c.id, match.EventLobbyUpdate, lobbyPayload{
		Games:       s.registry.ListWaiting(),
		PlayerCount: count,
	})
	s.router.ToLobby(match.EventPlayerCount, count)
}

func (s *Server) handleCreate(c *client, data json.RawMessage) {
	var p createPayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.router.ToConn(c.id, match.EventGameCreated, createdPayload{Error: "malformed create-game payload"})
		return
	}
	player := match.Player{ConnID: c.id, Wallet: p.Wallet, Name: p.CreatorName}
	session, err := s.registry.Create(player, rules.GameType(p.Type), p.Stake, p.TimeControl)
	if err != nil {
		s.router.ToConn(c.id, match.EventGameCreated, createdPayload{Error: err.Error()})
		return
	}
	summary := session.Summary()
	s.router.ToConn(c.id, match.EventGameCreated, createdPayload{Success: true, Game: &summary})
	s.router.ToLobbyExcept(c.id, match.EventNewGameAvailable, summary)
}

func (s *Server) handleJoin(c *client, data json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.router.ToConn(c.id, "join-game-result", joinResultPayload{Error: "malformed join-game payload", Kind: match.KindValidation.String()})
		return
	}
	player := match.Player{ConnID: c.id, Wallet: p.PlayerWallet, Name: p.PlayerName}
	if _, err := s.registry.Join(player, p.GameID); err != nil {
		s.router.ToConn(c.id, "join-game-result", joinResultPayload{Error: err.Error(), Kind: match.KindOf(err).String()})
	}
}

func (s *Server) handleMove(c *client, data json.RawMessage) {
	var p movePayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.router.ToConn(c.id, match.EventMoveError, moveErrorPayload{Error: "malformed make-move payload", Kind: match.KindValidation.String()})
		return
	}
	session, err := s.sessionFor(c, p.GameID)
	if err != nil {
		s.router.ToConn(c.id, match.EventMoveError, moveErrorPayload{GameID: p.GameID, Error: err.Error(), Kind: match.KindOf(err).String()})
		return
	}
	if err := session.Move(c.id, p.From, p.To); err != nil {
		s.router.ToConn(c.id, match.EventMoveError, moveErrorPayload{GameID: session.ID(), Error: err.Error(), Kind: match.KindOf(err).String()})
	}
}

func (s *Server) handleCancel(c *client, data json.RawMessage) {
	var p cancelPayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.sendError(c, match.KindValidation, "malformed cancel-game payload")
		return
	}
	session, err := s.sessionFor(c, p.GameID)
	if err == nil {
		err = session.Cancel(c.id)
	}
	if err != nil {
		s.router.ToConn(c.id, match.EventGameCancelled, joinResultPayload{Error: err.Error(), Kind: match.KindOf(err).String()})
	}
}

func (s *Server) handleChat(c *client, data json.RawMessage) {
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.sendError(c, match.KindValidation, "malformed game-chat payload")
		return
	}
	session, err := s.sessionFor(c, p.GameID)
	if err == nil {
		err = session.Chat(c.id, p.Message)
	}
	if err != nil {
		s.sendError(c, match.KindOf(err), "%s", err.Error())
	}
}

func (s *Server) handleReconnect(c *client, data json.RawMessage) {
	var p reconnectPayload
	if err := json.Unmarshal(data, &p); err != nil {
		s.sendError(c, match.KindValidation, "malformed reconnect payload")
		return
	}
	player := match.Player{ConnID: c.id, Wallet: p.PlayerWallet, Name: p.PlayerName}
	if _, err := s.registry.Reconnect(player, p.GameID); err != nil {
		s.sendError(c, match.KindOf(err), "%s", err.Error())
	}
}

// sessionFor resolves the target session: by explicit id when given,
// otherwise by the connection's own membership.
func (s *Server) sessionFor(c *client, gameID string) (*match.Session, error) {
	if gameID != "" {
		return s.registry.Get(gameID)
	}
	if session, ok := s.registry.SessionFor(c.id); ok {
		return session, nil
	}
	return nil, &match.Error{Kind: match.KindNotFound, Reason: "connection is not in a session"}
}

func (s *Server) sendError(c *client, kind match.Kind, format string, args ...any) {
	s.router.ToConn(c.id, "error", errorPayload{
		Error: fmt.Sprintf(format, args...),
		Kind:  kind.String(),
	})
}

// LobbyCount reports how many connections joined the lobby.
func (s *Server) LobbyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lobby)
}
