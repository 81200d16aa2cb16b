package game

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cooper-gadd/uno/internal/cache"
	"github.com/cooper-gadd/uno/internal/database"
	"github.com/cooper-gadd/uno/internal/engine"
	"github.com/cooper-gadd/uno/internal/models"
)

// GameConfig carries the per-game house rules a creator may set.
type GameConfig struct {
	HandSize         uint8         `json:"handSize"`
	UnoPenaltyDraw   uint8         `json:"unoPenaltyDraw"`
	NumShuffleHands  uint8         `json:"numShuffleHands"`
	NumCustomizable  uint8         `json:"numCustomizable"`
	CustomizableDraw uint8         `json:"customizableDraw"`
	AbortOnLeave     bool          `json:"abortOnLeave"`
	TurnTimeout      time.Duration `json:"-"`
}

func (c GameConfig) engineRules() engine.HouseRules {
	rules := engine.DefaultHouseRules()
	if c.HandSize > 0 {
		rules.HandSize = c.HandSize
	}
	if c.UnoPenaltyDraw > 0 {
		rules.UnoPenaltyDraw = c.UnoPenaltyDraw
	}
	rules.NumShuffleHands = c.NumShuffleHands
	rules.NumCustomizable = c.NumCustomizable
	rules.CustomizableDraw = c.CustomizableDraw
	rules.AbortOnLeave = c.AbortOnLeave
	return rules
}

// Manager owns every live game, keyed by game id. Game lookup takes a read
// lock; each game's own mutex serializes its mutations.
type Manager struct {
	mu    sync.RWMutex
	games map[uint]*UnoGame

	store     database.Store
	historian *cache.Historian

	// DefaultTurnTimeout applies when a game config does not set one.
	DefaultTurnTimeout time.Duration
	MaxPersistAttempts int

	// BroadcastFn and BroadcastToPlayerFn are wired to the realtime hub at
	// startup; they may be nil in tests.
	BroadcastFn         func(gameID uint, ev GameEvent)
	BroadcastToPlayerFn func(gameID uint, playerID uint, ev GameEvent)
}

// NewManager creates an empty game manager.
func NewManager(store database.Store, historian *cache.Historian) *Manager {
	return &Manager{
		games:              make(map[uint]*UnoGame),
		store:              store,
		historian:          historian,
		MaxPersistAttempts: 3,
	}
}

// CreateGame creates a game row in waiting status and registers the live
// game.
func (m *Manager) CreateGame(ctx context.Context, cfg GameConfig) (*UnoGame, error) {
	row := &models.Game{
		StartedAt: time.Now().UTC(),
		Direction: models.DirectionClockwise,
		Status:    models.StatusWaiting,
	}
	if err := m.store.CreateGame(ctx, row); err != nil {
		return nil, err
	}

	g := newUnoGame(row.ID, cfg.engineRules(), m.store, m.historian)
	if m.MaxPersistAttempts > 0 {
		g.maxPersistAttempts = m.MaxPersistAttempts
	}
	g.TurnDuration = cfg.TurnTimeout
	if g.TurnDuration == 0 {
		g.TurnDuration = m.DefaultTurnTimeout
	}
	m.wireBroadcast(g)

	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()

	logrus.WithField("game_id", g.ID).Info("game created")
	return g, nil
}

// Get returns the live game for an id.
func (m *Manager) Get(gameID uint) (*UnoGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// JoinGame seats a user in a waiting game and persists the player row.
func (m *Manager) JoinGame(ctx context.Context, gameID, userID uint) (*Player, error) {
	g, err := m.Get(gameID)
	if err != nil {
		return nil, err
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Engine.IsStarted() {
		return nil, ErrGameAlreadyActive
	}
	if g.playerByUserID(userID) != nil {
		return nil, ErrAlreadyJoined
	}
	if len(g.Players) >= int(engine.MaxPlayers) {
		return nil, ErrGameFull
	}

	user, err := m.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	row := &models.Player{
		GameID:    gameID,
		UserID:    userID,
		TurnOrder: len(g.Players),
	}
	if err := m.store.AddPlayer(ctx, row); err != nil {
		return nil, err
	}

	p := &Player{ID: row.ID, UserID: userID, Username: user.Username}
	if err := g.addPlayer(p); err != nil {
		return nil, err
	}
	g.fireEvent(GameEvent{Type: EventPlayerJoined, PlayerID: p.ID, Payload: map[string]any{
		"username": p.Username,
		"players":  len(g.Players),
	}})
	return p, nil
}

// StartGame deals and activates a waiting game.
func (m *Manager) StartGame(ctx context.Context, gameID uint) error {
	g, err := m.Get(gameID)
	if err != nil {
		return err
	}
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.start(ctx, uint64(time.Now().UnixNano()))
}

// PlayCard submits a play to the named game.
func (m *Manager) PlayCard(ctx context.Context, gameID, playerID uint, handIdx uint8, chosenColor string) (*TurnResult, error) {
	g, err := m.Get(gameID)
	if err != nil {
		return nil, err
	}
	return g.PlayCard(ctx, playerID, handIdx, chosenColor)
}

// ChooseColor resolves a pending wild in the named game.
func (m *Manager) ChooseColor(ctx context.Context, gameID, playerID uint, chosenColor string) (*TurnResult, error) {
	g, err := m.Get(gameID)
	if err != nil {
		return nil, err
	}
	return g.ChooseColor(ctx, playerID, chosenColor)
}

// DrawCard draws for the acting player in the named game.
func (m *Manager) DrawCard(ctx context.Context, gameID, playerID uint) (*DrawOutcome, error) {
	g, err := m.Get(gameID)
	if err != nil {
		return nil, err
	}
	return g.DrawCard(ctx, playerID)
}

// PassTurn passes after an unplayable draw in the named game.
func (m *Manager) PassTurn(ctx context.Context, gameID, playerID uint) (uint, error) {
	g, err := m.Get(gameID)
	if err != nil {
		return 0, err
	}
	return g.PassTurn(ctx, playerID)
}

// CallUno declares Uno in the named game.
func (m *Manager) CallUno(ctx context.Context, gameID, playerID uint) error {
	g, err := m.Get(gameID)
	if err != nil {
		return err
	}
	return g.CallUno(ctx, playerID)
}

// ChallengeUno challenges a missed Uno call in the named game.
func (m *Manager) ChallengeUno(ctx context.Context, gameID, challengerID, targetID uint) (*ChallengeOutcome, error) {
	g, err := m.Get(gameID)
	if err != nil {
		return nil, err
	}
	return g.ChallengeUno(ctx, challengerID, targetID)
}

// Leave removes a player from the named game.
func (m *Manager) Leave(ctx context.Context, gameID, playerID uint) error {
	g, err := m.Get(gameID)
	if err != nil {
		return err
	}
	return g.Leave(ctx, playerID)
}

// Resume loads an active game from its snapshot after a restart. A game
// already live in memory is returned as-is.
func (m *Manager) Resume(ctx context.Context, gameID uint) (*UnoGame, error) {
	if g, err := m.Get(gameID); err == nil {
		return g, nil
	}

	row, err := m.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if row.Status != models.StatusActive {
		return nil, ErrGameNotFound
	}
	snap, err := m.store.LoadSnapshot(ctx, gameID)
	if err != nil {
		return nil, err
	}
	players, err := m.store.ListPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	users := make(map[uint]string, len(players))
	for _, p := range players {
		user, err := m.store.GetUserByID(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		users[p.UserID] = user.Username
	}

	g := newUnoGame(gameID, engine.DefaultHouseRules(), m.store, m.historian)
	if m.MaxPersistAttempts > 0 {
		g.maxPersistAttempts = m.MaxPersistAttempts
	}
	g.TurnDuration = m.DefaultTurnTimeout
	m.wireBroadcast(g)

	g.Mu.Lock()
	err = g.resume(ctx, snap, players, users)
	g.Mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.games[gameID] = g
	m.mu.Unlock()

	logrus.WithField("game_id", gameID).Info("game resumed from snapshot")
	return g, nil
}

// Remove tears down a live game's in-memory state.
func (m *Manager) Remove(gameID uint) {
	m.mu.Lock()
	g, ok := m.games[gameID]
	delete(m.games, gameID)
	m.mu.Unlock()
	if !ok {
		return
	}
	g.Mu.Lock()
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	g.Mu.Unlock()
}

// SweepIdle tears down finished or abandoned games whose last activity is
// older than the grace period. Returns the number removed. Finished games
// are already durable; an abandoned active game can be resumed from its
// snapshot if anyone returns.
func (m *Manager) SweepIdle(grace time.Duration) int {
	m.mu.RLock()
	candidates := make([]*UnoGame, 0, len(m.games))
	for _, g := range m.games {
		candidates = append(candidates, g)
	}
	m.mu.RUnlock()

	removed := 0
	cutoff := time.Now().Add(-grace)
	for _, g := range candidates {
		g.Mu.Lock()
		idle := g.lastActivity.Before(cutoff)
		over := g.Engine.IsGameOver()
		g.Mu.Unlock()
		abandoned := idle && !g.AnyConnected()
		if over && idle || abandoned {
			m.Remove(g.ID)
			removed++
			logrus.WithField("game_id", g.ID).Info("idle game torn down")
		}
	}
	return removed
}

func (m *Manager) wireBroadcast(g *UnoGame) {
	gameID := g.ID
	g.BroadcastFn = func(ev GameEvent) {
		if m.BroadcastFn != nil {
			m.BroadcastFn(gameID, ev)
		}
	}
	g.BroadcastToPlayerFn = func(playerID uint, ev GameEvent) {
		if m.BroadcastToPlayerFn != nil {
			m.BroadcastToPlayerFn(gameID, playerID, ev)
		}
	}
}
