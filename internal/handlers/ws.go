package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cooper-gadd/uno/internal/auth"
	"github.com/cooper-gadd/uno/internal/game"
)

const writeTimeout = 5 * time.Second

type wsClient struct {
	id       uuid.UUID
	gameID   uint
	playerID uint
	conn     *websocket.Conn

	// writeMu serializes writes; coder/websocket allows one writer at a time.
	writeMu sync.Mutex
}

func (cl *wsClient) send(ev game.GameEvent) error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, cl.conn, ev)
}

// Hub tracks WebSocket clients per game and fans game events out to them.
type Hub struct {
	mu      sync.RWMutex
	games   map[uint]map[uuid.UUID]*wsClient
	manager *game.Manager
}

func NewHub(manager *game.Manager) *Hub {
	return &Hub{games: make(map[uint]map[uuid.UUID]*wsClient), manager: manager}
}

func (h *Hub) register(cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.games[cl.gameID] == nil {
		h.games[cl.gameID] = make(map[uuid.UUID]*wsClient)
	}
	h.games[cl.gameID][cl.id] = cl
}

func (h *Hub) unregister(cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.games[cl.gameID], cl.id)
	if len(h.games[cl.gameID]) == 0 {
		delete(h.games, cl.gameID)
	}
}

func (h *Hub) clients(gameID uint) []*wsClient {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*wsClient, 0, len(h.games[gameID]))
	for _, cl := range h.games[gameID] {
		out = append(out, cl)
	}
	return out
}

// Broadcast sends an event to every client watching the game.
func (h *Hub) Broadcast(gameID uint, ev game.GameEvent) {
	for _, cl := range h.clients(gameID) {
		if err := cl.send(ev); err != nil {
			logrus.WithError(err).WithField("game_id", gameID).Debug("ws broadcast failed")
			cl.conn.Close(websocket.StatusAbnormalClosure, "write failed")
		}
	}
}

// BroadcastToPlayer sends a private event to one player's connections.
func (h *Hub) BroadcastToPlayer(gameID uint, playerID uint, ev game.GameEvent) {
	for _, cl := range h.clients(gameID) {
		if cl.playerID != playerID {
			continue
		}
		if err := cl.send(ev); err != nil {
			logrus.WithError(err).WithField("player_id", playerID).Debug("ws private send failed")
			cl.conn.Close(websocket.StatusAbnormalClosure, "write failed")
		}
	}
}

// clientMessage is an action submitted over the socket instead of REST.
type clientMessage struct {
	Action         string `json:"action"`
	HandIdx        uint8  `json:"handIdx"`
	Color          string `json:"color"`
	TargetPlayerID uint   `json:"targetPlayerId"`
}

// handleWS upgrades the connection, registers the client, and pumps actions
// until the socket closes.
func (s *Server) handleWS(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	g, ok := s.liveGame(c, id)
	if !ok {
		return
	}
	p := g.PlayerForUser(auth.CurrentUser(c).ID)
	if p == nil {
		abortWithError(c, game.ErrNotInGame)
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.CORSOrigins,
	})
	if err != nil {
		logrus.WithError(err).Warn("ws upgrade failed")
		return
	}

	cl := &wsClient{id: uuid.New(), gameID: id, playerID: p.ID, conn: conn}
	s.hub.register(cl)
	g.SetConnected(p.ID, true)
	log := logrus.WithFields(logrus.Fields{"game_id": id, "player_id": p.ID})
	log.Info("ws connected")

	// Bring the newly connected client up to date.
	if err := cl.send(game.GameEvent{
		Type:   game.EventPrivateSyncState,
		GameID: id,
		State:  g.SyncStateFor(p.ID),
	}); err != nil {
		log.WithError(err).Debug("initial sync failed")
	}

	defer func() {
		s.hub.unregister(cl)
		g.SetConnected(p.ID, false)
		conn.Close(websocket.StatusNormalClosure, "")
		log.Info("ws disconnected")
	}()

	ctx := c.Request.Context()
	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return
		}
		if err := s.dispatch(ctx, id, p.ID, msg); err != nil {
			sendErr := cl.send(game.GameEvent{
				Type:    game.EventError,
				GameID:  id,
				Payload: map[string]any{"action": msg.Action, "message": err.Error()},
			})
			if sendErr != nil {
				return
			}
		}
	}
}

// dispatch routes a socket action to the manager. Results reach the client
// through the normal event broadcasts.
func (s *Server) dispatch(ctx context.Context, gameID, playerID uint, msg clientMessage) error {
	switch msg.Action {
	case "play_card":
		_, err := s.manager.PlayCard(ctx, gameID, playerID, msg.HandIdx, msg.Color)
		return err
	case "choose_color":
		_, err := s.manager.ChooseColor(ctx, gameID, playerID, msg.Color)
		return err
	case "draw_card":
		_, err := s.manager.DrawCard(ctx, gameID, playerID)
		return err
	case "pass_turn":
		_, err := s.manager.PassTurn(ctx, gameID, playerID)
		return err
	case "call_uno":
		return s.manager.CallUno(ctx, gameID, playerID)
	case "challenge_uno":
		_, err := s.manager.ChallengeUno(ctx, gameID, playerID, msg.TargetPlayerID)
		return err
	case "leave":
		return s.manager.Leave(ctx, gameID, playerID)
	default:
		logrus.WithField("action", msg.Action).Debug("unknown ws action ignored")
		return nil
	}
}
