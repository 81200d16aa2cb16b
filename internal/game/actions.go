package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/cooper-gadd/uno/internal/engine"
)

// TurnResult summarizes an accepted play for the API caller.
type TurnResult struct {
	TurnNumber      int        `json:"turnNumber,omitempty"`
	Card            *EventCard `json:"card,omitempty"`
	ChosenColor     string     `json:"chosenColor,omitempty"`
	AwaitingColor   bool       `json:"awaitingColor,omitempty"`
	SkippedPlayerID uint       `json:"skippedPlayerId,omitempty"`
	DrewPlayerID    uint       `json:"drewPlayerId,omitempty"`
	DrewCount       int        `json:"drewCount,omitempty"`
	HandsShuffled   bool       `json:"handsShuffled,omitempty"`
	Reshuffled      bool       `json:"reshuffled,omitempty"`
	NextPlayerID    uint       `json:"nextPlayerId,omitempty"`
	Direction       string     `json:"direction"`
	GameOver        bool       `json:"gameOver"`
	Aborted         bool       `json:"aborted,omitempty"`
	WinnerID        uint       `json:"winnerId,omitempty"`
}

// DrawOutcome is the drawing player's private result of a voluntary draw.
type DrawOutcome struct {
	Card       *EventCard `json:"card"`
	Playable   bool       `json:"playable"`
	Reshuffled bool       `json:"reshuffled,omitempty"`
}

// ChallengeOutcome reports a successful Uno challenge.
type ChallengeOutcome struct {
	TargetPlayerID uint `json:"targetPlayerId"`
	PenaltyCount   int  `json:"penaltyCount"`
}

// PlayCard plays the card at the given hand slot. chosenColor must name a
// color ("red", "green", "blue", "yellow") when resolving a wild in one
// step, and must be empty otherwise; an empty color on a wild parks the
// game awaiting ChooseColor.
func (g *UnoGame) PlayCard(ctx context.Context, playerID uint, handIdx uint8, chosenColor string) (*TurnResult, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return nil, ErrNotInGame
	}
	color, ok := colorFromString(chosenColor)
	if !ok {
		return nil, fmt.Errorf("%w: %q", engine.ErrInvalidColor, chosenColor)
	}

	engClone := g.Engine.Clone()
	trClone := g.tracker.clone()

	res, err := g.Engine.PlayCard(p.EngineIdx, handIdx, color)
	if err != nil {
		return nil, err
	}
	playedID, err := g.tracker.applyPlay(p.EngineIdx, handIdx)
	if err == nil && res.HandsShuffled {
		err = g.tracker.applyShuffleHands(&g.Engine)
	}
	if err == nil && res.DrewPlayer >= 0 {
		err = g.tracker.applyDraws(uint8(res.DrewPlayer), res.DrewCards, res.Reshuffled)
	}
	if err != nil {
		g.Engine.Restore(engClone)
		g.tracker = trClone
		return nil, err
	}

	rec := g.baseRecord()
	if !res.AwaitingColor {
		rec.Turns = g.turnRowsForPlay(res, playedID)
	}
	if err := g.persistTurn(ctx, rec); err != nil {
		g.Engine.Restore(engClone)
		g.tracker = trClone
		return nil, err
	}
	g.touch()

	card := eventCardFromModel(g.tracker.detail(playedID))
	if res.AwaitingColor {
		g.pendingPlayedCardID = playedID
		g.logAction(ctx, playerID, "play_awaiting_color", map[string]any{"cardId": playedID})
		g.fireEvent(GameEvent{Type: EventAwaitingColor, PlayerID: playerID, Card: card})
		g.broadcastSyncStates()
		return g.turnResult(res, card), nil
	}
	g.announcePlay(ctx, playerID, res, card)
	return g.turnResult(res, card), nil
}

// ChooseColor resolves a parked wild play with the chosen color.
func (g *UnoGame) ChooseColor(ctx context.Context, playerID uint, chosenColor string) (*TurnResult, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return nil, ErrNotInGame
	}
	color, ok := colorFromString(chosenColor)
	if !ok || color == engine.ColorNone {
		return nil, fmt.Errorf("%w: %q", engine.ErrInvalidColor, chosenColor)
	}

	engClone := g.Engine.Clone()
	trClone := g.tracker.clone()
	playedID := g.pendingPlayedCardID

	res, err := g.Engine.ChooseColor(p.EngineIdx, color)
	if err != nil {
		return nil, err
	}
	// The card itself moved to the discard when it was parked; only the
	// resolved effects need mirroring now.
	if res.HandsShuffled {
		err = g.tracker.applyShuffleHands(&g.Engine)
	}
	if err == nil && res.DrewPlayer >= 0 {
		err = g.tracker.applyDraws(uint8(res.DrewPlayer), res.DrewCards, res.Reshuffled)
	}
	if err != nil {
		g.Engine.Restore(engClone)
		g.tracker = trClone
		return nil, err
	}

	rec := g.baseRecord()
	rec.Turns = g.turnRowsForPlay(res, playedID)
	if err := g.persistTurn(ctx, rec); err != nil {
		g.Engine.Restore(engClone)
		g.tracker = trClone
		return nil, err
	}
	g.pendingPlayedCardID = 0
	g.touch()

	card := eventCardFromModel(g.tracker.detail(playedID))
	g.fireEvent(GameEvent{
		Type:     EventColorChosen,
		PlayerID: playerID,
		Card:     card,
		Payload:  map[string]any{"color": colorString(res.ChosenColor)},
	})
	g.announcePlay(ctx, playerID, res, card)
	return g.turnResult(res, card), nil
}

// DrawCard draws one card for the acting player.
func (g *UnoGame) DrawCard(ctx context.Context, playerID uint) (*DrawOutcome, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.drawLocked(ctx, playerID)
}

func (g *UnoGame) drawLocked(ctx context.Context, playerID uint) (*DrawOutcome, error) {
	p := g.playerByID(playerID)
	if p == nil {
		return nil, ErrNotInGame
	}

	engClone := g.Engine.Clone()
	trClone := g.tracker.clone()

	res, err := g.Engine.DrawCard(p.EngineIdx)
	if errors.Is(err, engine.ErrEmptyDeck) {
		// Both piles ran dry: the engine aborted the game. Commit the
		// terminal state before surfacing the error.
		if perr := g.persistTurn(ctx, g.baseRecord()); perr != nil {
			g.Engine.Restore(engClone)
			return nil, perr
		}
		g.logAction(ctx, playerID, "game_aborted_empty_deck", nil)
		g.finishGame(-1, true)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if err := g.tracker.applyDraws(p.EngineIdx, []engine.Card{res.Card}, res.Reshuffled); err != nil {
		g.Engine.Restore(engClone)
		g.tracker = trClone
		return nil, err
	}
	if err := g.persistTurn(ctx, g.baseRecord()); err != nil {
		g.Engine.Restore(engClone)
		g.tracker = trClone
		return nil, err
	}
	g.touch()
	g.logAction(ctx, playerID, "draw_card", nil)

	if res.Reshuffled {
		g.fireEvent(GameEvent{Type: EventReshuffle})
	}
	g.fireEvent(GameEvent{
		Type:     EventPlayerDraw,
		PlayerID: playerID,
		Payload:  map[string]any{"count": 1},
	})

	ids := g.tracker.handIDs(p.EngineIdx)
	drawn := eventCardFromModel(g.tracker.detail(ids[len(ids)-1]))
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateDraw, PlayerID: playerID, Card: drawn})
	g.broadcastSyncStates()

	return &DrawOutcome{Card: drawn, Playable: res.Playable, Reshuffled: res.Reshuffled}, nil
}

// PassTurn ends the acting player's turn after an unplayable draw.
func (g *UnoGame) PassTurn(ctx context.Context, playerID uint) (uint, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.passLocked(ctx, playerID)
}

func (g *UnoGame) passLocked(ctx context.Context, playerID uint) (uint, error) {
	p := g.playerByID(playerID)
	if p == nil {
		return 0, ErrNotInGame
	}

	engClone := g.Engine.Clone()
	next, err := g.Engine.PassTurn(p.EngineIdx)
	if err != nil {
		return 0, err
	}
	if err := g.persistTurn(ctx, g.baseRecord()); err != nil {
		g.Engine.Restore(engClone)
		return 0, err
	}
	g.touch()
	g.logAction(ctx, playerID, "pass_turn", nil)

	nextID := g.playerIDAt(next)
	g.fireEvent(GameEvent{Type: EventPlayerPass, PlayerID: playerID})
	g.broadcastSyncStates()
	g.broadcastPlayerTurn()
	g.scheduleTurnTimer()
	return nextID, nil
}

// CallUno declares Uno for the calling player.
func (g *UnoGame) CallUno(ctx context.Context, playerID uint) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return ErrNotInGame
	}

	engClone := g.Engine.Clone()
	if err := g.Engine.CallUno(p.EngineIdx); err != nil {
		return err
	}
	if err := g.persistTurn(ctx, g.baseRecord()); err != nil {
		g.Engine.Restore(engClone)
		return err
	}
	g.touch()
	g.logAction(ctx, playerID, "call_uno", nil)
	g.fireEvent(GameEvent{Type: EventUnoCalled, PlayerID: playerID})
	return nil
}

// ChallengeUno challenges a player who reached one card without calling Uno.
func (g *UnoGame) ChallengeUno(ctx context.Context, challengerID, targetID uint) (*ChallengeOutcome, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	challenger := g.playerByID(challengerID)
	target := g.playerByID(targetID)
	if challenger == nil || target == nil {
		return nil, ErrNotInGame
	}

	engClone := g.Engine.Clone()
	trClone := g.tracker.clone()

	res, err := g.Engine.ChallengeUno(challenger.EngineIdx, target.EngineIdx)
	if err != nil {
		return nil, err
	}
	if err := g.tracker.applyDraws(res.Target, res.PenaltyCards, res.Reshuffled); err != nil {
		g.Engine.Restore(engClone)
		g.tracker = trClone
		return nil, err
	}
	if err := g.persistTurn(ctx, g.baseRecord()); err != nil {
		g.Engine.Restore(engClone)
		g.tracker = trClone
		return nil, err
	}
	g.touch()
	g.logAction(ctx, challengerID, "challenge_uno", map[string]any{
		"targetId": targetID,
		"penalty":  len(res.PenaltyCards),
	})

	if res.Reshuffled {
		g.fireEvent(GameEvent{Type: EventReshuffle})
	}
	g.fireEvent(GameEvent{
		Type:     EventUnoChallenged,
		PlayerID: challengerID,
		Payload:  map[string]any{"targetId": targetID, "penalty": len(res.PenaltyCards)},
	})
	g.broadcastSyncStates()

	if res.Aborted {
		g.finishGame(-1, true)
	}
	return &ChallengeOutcome{TargetPlayerID: targetID, PenaltyCount: len(res.PenaltyCards)}, nil
}

// Leave removes a player. Before the start it frees the seat; mid-game it
// forfeits the player (hand returned under the discard pile) or aborts the
// whole game when the rules say so.
func (g *UnoGame) Leave(ctx context.Context, playerID uint) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.playerByID(playerID)
	if p == nil {
		return ErrNotInGame
	}

	if !g.Engine.IsStarted() {
		for i, seat := range g.Players {
			if seat.ID == playerID {
				g.Players = append(g.Players[:i], g.Players[i+1:]...)
				break
			}
		}
		for i, seat := range g.Players {
			seat.EngineIdx = uint8(i)
		}
		if err := g.store.RemovePlayer(ctx, playerID); err != nil {
			g.log.WithError(err).Warn("remove player row failed")
		}
		g.fireEvent(GameEvent{Type: EventPlayerLeft, PlayerID: playerID})
		return nil
	}
	if g.Engine.IsGameOver() {
		return engine.ErrGameFinished
	}

	if g.Rules.AbortOnLeave {
		engClone := g.Engine.Clone()
		g.Engine.Abort()
		if err := g.persistTurn(ctx, g.baseRecord()); err != nil {
			g.Engine.Restore(engClone)
			return err
		}
		g.logAction(ctx, playerID, "game_aborted_leave", nil)
		g.fireEvent(GameEvent{Type: EventPlayerLeft, PlayerID: playerID})
		g.finishGame(-1, true)
		return nil
	}

	engClone := g.Engine.Clone()
	trClone := g.tracker.clone()

	res, err := g.Engine.Forfeit(p.EngineIdx)
	if err != nil {
		return err
	}
	g.tracker.applyForfeit(p.EngineIdx)
	if err := g.persistTurn(ctx, g.baseRecord()); err != nil {
		g.Engine.Restore(engClone)
		g.tracker = trClone
		return err
	}
	g.touch()
	g.logAction(ctx, playerID, "player_forfeit", nil)
	g.fireEvent(GameEvent{Type: EventPlayerLeft, PlayerID: playerID})
	g.broadcastSyncStates()

	if res.GameOver {
		g.finishGame(res.Winner, false)
	} else {
		g.broadcastPlayerTurn()
		g.scheduleTurnTimer()
	}
	return nil
}

// announcePlay fires the events for a resolved play and hands off to the
// end-of-turn flow. Assumes lock is held.
func (g *UnoGame) announcePlay(ctx context.Context, playerID uint, res engine.PlayResult, card *EventCard) {
	g.logAction(ctx, playerID, "play_card", map[string]any{
		"cardId":     card.ID,
		"turnNumber": res.TurnNumber,
		"color":      colorString(res.ChosenColor),
	})
	g.fireEvent(GameEvent{
		Type:     EventPlayerPlay,
		PlayerID: playerID,
		Card:     card,
		Payload: map[string]any{
			"turnNumber":  res.TurnNumber,
			"direction":   directionString(res.Direction),
			"activeColor": colorString(g.Engine.ActiveColor),
		},
	})
	if res.Reshuffled {
		g.fireEvent(GameEvent{Type: EventReshuffle})
	}
	if res.HandsShuffled {
		g.fireEvent(GameEvent{Type: EventHandsShuffled, PlayerID: playerID})
	}
	if res.SkippedPlayer >= 0 {
		g.fireEvent(GameEvent{
			Type:     EventPlayerSkipped,
			PlayerID: g.playerIDAt(uint8(res.SkippedPlayer)),
			Card:     card,
		})
	}
	if res.DrewPlayer >= 0 {
		drewID := g.playerIDAt(uint8(res.DrewPlayer))
		g.fireEvent(GameEvent{
			Type:     EventPlayerDraw,
			PlayerID: drewID,
			Payload:  map[string]any{"count": len(res.DrewCards)},
		})
		ids := g.tracker.handIDs(uint8(res.DrewPlayer))
		for _, id := range ids[len(ids)-len(res.DrewCards):] {
			g.fireEventToPlayer(drewID, GameEvent{
				Type:     EventPrivateDraw,
				PlayerID: drewID,
				Card:     eventCardFromModel(g.tracker.detail(id)),
			})
		}
	}
	g.broadcastSyncStates()

	if res.GameOver {
		g.finishGame(res.Winner, res.Aborted)
	} else {
		g.broadcastPlayerTurn()
		g.scheduleTurnTimer()
	}
}

// finishGame announces a terminal state and runs the end callback. Assumes
// lock is held and the final write has already committed.
func (g *UnoGame) finishGame(winner int8, aborted bool) {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	var winnerID uint
	if winner >= 0 {
		winnerID = g.playerIDAt(uint8(winner))
	}
	g.log.WithFields(map[string]any{"winner_id": winnerID, "aborted": aborted}).Info("game finished")
	g.fireEvent(GameEvent{
		Type:    EventGameEnd,
		Payload: map[string]any{"winnerId": winnerID, "aborted": aborted},
	})
	if g.OnGameEnd != nil {
		go g.OnGameEnd(g, winnerID)
	}
}

// turnResult converts a PlayResult for the API caller. Assumes lock is held.
func (g *UnoGame) turnResult(res engine.PlayResult, card *EventCard) *TurnResult {
	tr := &TurnResult{
		TurnNumber:    int(res.TurnNumber),
		Card:          card,
		ChosenColor:   colorString(res.ChosenColor),
		AwaitingColor: res.AwaitingColor,
		HandsShuffled: res.HandsShuffled,
		Reshuffled:    res.Reshuffled,
		Direction:     directionString(res.Direction),
		GameOver:      res.GameOver,
		Aborted:       res.Aborted,
	}
	if res.SkippedPlayer >= 0 {
		tr.SkippedPlayerID = g.playerIDAt(uint8(res.SkippedPlayer))
	}
	if res.DrewPlayer >= 0 {
		tr.DrewPlayerID = g.playerIDAt(uint8(res.DrewPlayer))
		tr.DrewCount = len(res.DrewCards)
	}
	if res.GameOver && res.Winner >= 0 {
		tr.WinnerID = g.playerIDAt(uint8(res.Winner))
	}
	if !res.GameOver && !res.AwaitingColor {
		tr.NextPlayerID = g.playerIDAt(res.NextPlayer)
	}
	return tr
}
