package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// historyTTL keeps finished-game histories around long enough for replay
// tooling without growing Redis unboundedly.
const historyTTL = 7 * 24 * time.Hour

// Historian appends one action record per accepted game action to a
// per-game Redis list, giving an ordered history independent of the
// relational turn log.
type Historian struct {
	client *redis.Client
}

// NewHistorian wraps the given Redis client. A nil client disables logging.
func NewHistorian(client *redis.Client) *Historian {
	return &Historian{client: client}
}

// ActionRecord is one entry in a game's history list.
type ActionRecord struct {
	GameID     uint           `json:"gameId"`
	PlayerID   uint           `json:"playerId,omitempty"`
	Action     string         `json:"action"`
	TurnNumber int            `json:"turnNumber,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	At         time.Time      `json:"at"`
}

func historyKey(gameID uint) string {
	return fmt.Sprintf("uno:history:%d", gameID)
}

// LogAction appends one record to the game's history list. Failures are
// logged and swallowed: history is an audit trail, not a dependency of play.
func (h *Historian) LogAction(ctx context.Context, rec ActionRecord) {
	if h == nil || h.client == nil {
		return
	}
	rec.At = time.Now().UTC()
	raw, err := json.Marshal(rec)
	if err != nil {
		logrus.WithError(err).Warn("historian: marshal action")
		return
	}
	key := historyKey(rec.GameID)
	pipe := h.client.Pipeline()
	pipe.RPush(ctx, key, raw)
	pipe.Expire(ctx, key, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logrus.WithError(err).WithField("game_id", rec.GameID).Warn("historian: append failed")
	}
}

// History returns the full ordered action history for a game.
func (h *Historian) History(ctx context.Context, gameID uint) ([]ActionRecord, error) {
	if h == nil || h.client == nil {
		return nil, nil
	}
	raw, err := h.client.LRange(ctx, historyKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	out := make([]ActionRecord, 0, len(raw))
	for _, item := range raw {
		var rec ActionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
