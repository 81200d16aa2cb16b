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

// Player is one seat in a live game, mapping the persisted player row to an
// engine index.
type Player struct {
	ID        uint // uno_player row id
	UserID    uint
	Username  string
	EngineIdx uint8
	Connected bool
}

// UnoGame holds the live state of one game: the authoritative engine, the
// card-instance tracker mirroring it, and the players. All mutation runs
// under Mu, making each game single-writer; concurrent submissions apply in
// lock-arrival order and validate against the state as of processing.
type UnoGame struct {
	ID    uint // uno_game row id
	Rules engine.HouseRules

	Players []*Player

	Engine  engine.GameState
	tracker *cardTracker

	// pendingPlayedCardID is the instance id of a parked wild, carried from
	// the play to the color choice so the turn row cites the right card.
	pendingPlayedCardID uint

	// TurnDuration is how long a player may hold their turn before the game
	// auto-draws and passes for them. Zero disables the timer.
	TurnDuration time.Duration
	turnTimer    *time.Timer

	Mu sync.Mutex

	store              database.Store
	historian          *cache.Historian
	maxPersistAttempts int

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uint, ev GameEvent)
	// OnGameEnd runs after a game reaches a terminal state and its final
	// write has committed. winnerID is zero for aborted games.
	OnGameEnd func(g *UnoGame, winnerID uint)

	lastActivity time.Time
	log          *logrus.Entry
}

func newUnoGame(id uint, rules engine.HouseRules, store database.Store, historian *cache.Historian) *UnoGame {
	return &UnoGame{
		ID:                 id,
		Rules:              rules,
		store:              store,
		historian:          historian,
		maxPersistAttempts: 3,
		lastActivity:       time.Now(),
		log:                logrus.WithField("game_id", id),
	}
}

// addPlayer seats a user. Assumes lock is held by the caller.
func (g *UnoGame) addPlayer(p *Player) error {
	if g.Engine.IsStarted() {
		return ErrGameAlreadyActive
	}
	if len(g.Players) >= int(engine.MaxPlayers) {
		return ErrGameFull
	}
	p.EngineIdx = uint8(len(g.Players))
	g.Players = append(g.Players, p)
	g.touch()
	return nil
}

// start deals a fresh game and commits the initial state. Assumes lock is
// held by the caller.
func (g *UnoGame) start(ctx context.Context, seed uint64) error {
	if g.Engine.IsStarted() {
		return ErrGameAlreadyActive
	}
	if len(g.Players) < 2 {
		return ErrNotEnoughPlayers
	}

	rules := g.Rules
	rules.NumPlayers = uint8(len(g.Players))
	g.Rules = rules
	g.Engine = engine.NewGame(seed, rules)
	g.Engine.Deal()

	catalog, err := g.store.CardCatalog(ctx)
	if err != nil {
		return err
	}
	tracker, err := newCardTracker(catalog)
	if err != nil {
		return err
	}
	if err := tracker.afterDeal(&g.Engine); err != nil {
		return err
	}
	g.tracker = tracker

	rec := g.baseRecord()
	rec.Status = models.StatusActive
	if err := g.persistTurn(ctx, rec); err != nil {
		// Roll the deal back so a retried start re-deals cleanly.
		g.Engine = engine.GameState{}
		g.tracker = nil
		return err
	}

	g.logAction(ctx, 0, "game_start", map[string]any{"players": len(g.Players)})
	g.fireEvent(GameEvent{Type: EventGameStart, GameID: g.ID})
	g.broadcastSyncStates()
	g.broadcastPlayerTurn()
	g.scheduleTurnTimer()
	g.touch()
	return nil
}

// touch records activity for the reaper's grace-period check. Assumes lock
// is held by the caller.
func (g *UnoGame) touch() {
	g.lastActivity = time.Now()
}

// LastActivity returns the time of the most recent action or join.
func (g *UnoGame) LastActivity() time.Time {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.lastActivity
}

// AnyConnected reports whether at least one player is still connected.
func (g *UnoGame) AnyConnected() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	for _, p := range g.Players {
		if p.Connected {
			return true
		}
	}
	return false
}

// SetConnected flags a player's realtime connection state.
func (g *UnoGame) SetConnected(playerID uint, connected bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if p := g.playerByID(playerID); p != nil {
		p.Connected = connected
		if connected {
			g.touch()
		}
	}
}

// PlayerForUser returns the seat held by a user, or nil.
func (g *UnoGame) PlayerForUser(userID uint) *Player {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.playerByUserID(userID)
}

// SyncStateFor returns the obfuscated state for the given player.
func (g *UnoGame) SyncStateFor(playerID uint) *ObfGameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.obfuscatedState(playerID)
}

func (g *UnoGame) playerByID(id uint) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *UnoGame) playerByUserID(userID uint) *Player {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// playerIDAt maps an engine index back to the player row id.
func (g *UnoGame) playerIDAt(engineIdx uint8) uint {
	for _, p := range g.Players {
		if p.EngineIdx == engineIdx {
			return p.ID
		}
	}
	return 0
}

// fireEvent broadcasts to all players. Assumes lock is held by the caller.
func (g *UnoGame) fireEvent(ev GameEvent) {
	ev.GameID = g.ID
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends a private event to one connected player. Assumes
// lock is held by the caller.
func (g *UnoGame) fireEventToPlayer(playerID uint, ev GameEvent) {
	ev.GameID = g.ID
	if g.BroadcastToPlayerFn == nil {
		return
	}
	if p := g.playerByID(playerID); p != nil && p.Connected {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// broadcastSyncStates sends each connected player their private view.
// Assumes lock is held by the caller.
func (g *UnoGame) broadcastSyncStates() {
	for _, p := range g.Players {
		if !p.Connected {
			continue
		}
		g.fireEventToPlayer(p.ID, GameEvent{
			Type:  EventPrivateSyncState,
			State: g.obfuscatedState(p.ID),
		})
	}
}

// broadcastPlayerTurn announces the current actor. Assumes lock is held by
// the caller.
func (g *UnoGame) broadcastPlayerTurn() {
	if !g.Engine.IsStarted() || g.Engine.IsGameOver() {
		return
	}
	g.fireEvent(GameEvent{
		Type:     EventPlayerTurn,
		PlayerID: g.playerIDAt(g.Engine.CurrentPlayer),
		Payload:  map[string]any{"turnNumber": g.Engine.TurnNumber},
	})
}

// scheduleTurnTimer arms the auto-pass timer for the current player.
// Assumes lock is held by the caller.
func (g *UnoGame) scheduleTurnTimer() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	if g.TurnDuration <= 0 || !g.Engine.IsStarted() || g.Engine.IsGameOver() || g.Engine.IsAwaitingColor() {
		return
	}
	expectedPlayer := g.Engine.CurrentPlayer
	expectedTurn := g.Engine.TurnNumber
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		g.handleTurnTimeout(expectedPlayer, expectedTurn)
	})
}

// handleTurnTimeout draws and passes for a player who sat on their turn.
// Runs on the timer goroutine; takes the lock itself.
func (g *UnoGame) handleTurnTimeout(expectedPlayer uint8, expectedTurn uint16) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	// The turn may have resolved while the timer fired.
	if !g.Engine.IsStarted() || g.Engine.IsGameOver() ||
		g.Engine.CurrentPlayer != expectedPlayer || g.Engine.TurnNumber != expectedTurn {
		return
	}
	playerID := g.playerIDAt(expectedPlayer)
	g.log.WithField("player_id", playerID).Info("turn timed out, auto-drawing")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := g.drawLocked(ctx, playerID); err != nil {
		g.log.WithError(err).Warn("timeout auto-draw failed")
		return
	}
	if g.Engine.CurrentPlayer == expectedPlayer && !g.Engine.IsGameOver() {
		if _, err := g.passLocked(ctx, playerID); err != nil {
			g.log.WithError(err).Warn("timeout auto-pass failed")
		}
	}
}

// logAction appends one record to the Redis history. Assumes lock is held
// by the caller.
func (g *UnoGame) logAction(ctx context.Context, playerID uint, action string, payload map[string]any) {
	g.historian.LogAction(ctx, cache.ActionRecord{
		GameID:     g.ID,
		PlayerID:   playerID,
		Action:     action,
		TurnNumber: int(g.Engine.TurnNumber),
		Payload:    payload,
	})
}

func colorString(c uint8) string {
	switch c {
	case engine.ColorRed:
		return "red"
	case engine.ColorGreen:
		return "green"
	case engine.ColorBlue:
		return "blue"
	case engine.ColorYellow:
		return "yellow"
	case engine.ColorWild:
		return "wild"
	default:
		return ""
	}
}

// colorFromString parses a client-supplied color choice.
func colorFromString(s string) (uint8, bool) {
	switch s {
	case "":
		return engine.ColorNone, true
	case "red":
		return engine.ColorRed, true
	case "green":
		return engine.ColorGreen, true
	case "blue":
		return engine.ColorBlue, true
	case "yellow":
		return engine.ColorYellow, true
	default:
		return engine.ColorNone, false
	}
}

func directionString(d int8) string {
	if d == engine.DirCounterClockwise {
		return string(models.DirectionCounterClockwise)
	}
	return string(models.DirectionClockwise)
}

func directionModel(d int8) models.GameDirection {
	if d == engine.DirCounterClockwise {
		return models.DirectionCounterClockwise
	}
	return models.DirectionClockwise
}
