package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/cooper-gadd/uno/internal/database"
	"github.com/cooper-gadd/uno/internal/engine"
	"github.com/cooper-gadd/uno/internal/models"
)

// baseRecord builds the turn record shared by every accepted action: all
// hands, all player flags, the game row fields, and the snapshot. Callers
// add turn rows on top. Assumes lock is held.
func (g *UnoGame) baseRecord() *database.TurnRecord {
	rec := &database.TurnRecord{
		GameID:    g.ID,
		Hands:     make(map[uint][]uint, len(g.Players)),
		Direction: directionModel(g.Engine.Direction),
		Status:    models.StatusActive,
	}
	for _, p := range g.Players {
		rec.Hands[p.ID] = g.tracker.handIDs(p.EngineIdx)
		rec.Players = append(rec.Players, database.PlayerUpdate{
			PlayerID:     p.ID,
			HasCalledUno: g.Engine.Players[p.EngineIdx].HasCalledUno,
			CurrentTurn:  !g.Engine.IsGameOver() && g.Engine.CurrentPlayer == p.EngineIdx,
		})
	}
	if g.Engine.IsGameOver() {
		rec.Status = models.StatusFinished
		now := time.Now().UTC()
		rec.EndedAt = &now
	}
	rec.Snapshot = g.snapshotModel()
	return rec
}

// snapshotModel serializes the engine state for the resume snapshot.
// Assumes lock is held.
func (g *UnoGame) snapshotModel() models.GameSnapshot {
	raw, err := json.Marshal(g.Engine.Snapshot())
	if err != nil {
		// Snapshot structs contain only plain fields; this cannot fail.
		g.log.WithError(err).Error("snapshot marshal failed")
		raw = []byte("{}")
	}
	return models.GameSnapshot{
		GameID:     g.ID,
		TurnNumber: int(g.Engine.TurnNumber),
		State:      datatypes.JSON(raw),
	}
}

// turnRowsForPlay converts an accepted play into its durable rows: the play
// row, plus one is_skipped row citing the same card for a skipped player.
func (g *UnoGame) turnRowsForPlay(res engine.PlayResult, playedCardID uint) []models.GameTurn {
	rows := []models.GameTurn{{
		GameID:      g.ID,
		PlayerID:    g.playerIDAt(res.Player),
		CardID:      playedCardID,
		TurnNumber:  int(res.TurnNumber),
		ChosenColor: database.ColorToModel(res.ChosenColor),
		PlayedAt:    time.Now().UTC(),
	}}
	if res.SkippedPlayer >= 0 {
		rows = append(rows, models.GameTurn{
			GameID:     g.ID,
			PlayerID:   g.playerIDAt(uint8(res.SkippedPlayer)),
			CardID:     playedCardID,
			IsSkipped:  true,
			TurnNumber: int(res.SkippedTurnNumber),
			PlayedAt:   time.Now().UTC(),
		})
	}
	return rows
}

// persistTurn commits a turn record with bounded-backoff retries. On
// exhaustion the caller must roll back in-memory state; live and persisted
// state never diverge. Assumes lock is held.
func (g *UnoGame) persistTurn(ctx context.Context, rec *database.TurnRecord) error {
	attempts := g.maxPersistAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = g.store.AppendTurn(ctx, rec); err == nil {
			return nil
		}
		g.log.WithError(err).WithField("attempt", attempt).Warn("append turn failed")
		if attempt < attempts {
			select {
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrPersistence, ctx.Err())
			}
		}
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

// resume rebuilds a live game from the latest snapshot and the persisted
// hand rows. Assumes lock is held.
func (g *UnoGame) resume(ctx context.Context, snap *models.GameSnapshot, players []models.Player, users map[uint]string) error {
	var es engine.Snapshot
	if err := json.Unmarshal(snap.State, &es); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	restored, err := engine.FromSnapshot(es)
	if err != nil {
		return fmt.Errorf("restore engine: %w", err)
	}
	g.Engine = restored
	g.Rules = restored.Rules

	hands, err := g.store.LoadHands(ctx, g.ID)
	if err != nil {
		return err
	}
	g.Players = g.Players[:0]
	persistedHands := make(map[uint8][]uint, len(players))
	for _, row := range players {
		p := &Player{
			ID:        row.ID,
			UserID:    row.UserID,
			Username:  users[row.UserID],
			EngineIdx: uint8(row.TurnOrder),
		}
		g.Players = append(g.Players, p)
		persistedHands[p.EngineIdx] = hands[row.ID]
	}

	catalog, err := g.store.CardCatalog(ctx)
	if err != nil {
		return err
	}
	tracker, err := newCardTracker(catalog)
	if err != nil {
		return err
	}
	if err := tracker.reconcile(&g.Engine, persistedHands); err != nil {
		return err
	}
	g.tracker = tracker
	g.touch()
	g.scheduleTurnTimer()
	return nil
}
