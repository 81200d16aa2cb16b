package game

import "github.com/cooper-gadd/uno/internal/models"

// GameEventType represents the type of a game event broadcast via WebSockets.
type GameEventType string

const (
	EventGameStart        GameEventType = "game_start"
	EventPlayerJoined     GameEventType = "player_joined"
	EventPlayerTurn       GameEventType = "game_player_turn"   // Public: whose turn it is now.
	EventPlayerPlay       GameEventType = "player_play"        // Public: a card was played (details revealed).
	EventAwaitingColor    GameEventType = "awaiting_color"     // Public: wild played, color choice pending.
	EventColorChosen      GameEventType = "color_chosen"       // Public: pending wild resolved.
	EventPlayerSkipped    GameEventType = "player_skipped"     // Public: a player lost their turn.
	EventPlayerDraw       GameEventType = "player_draw"        // Public: player drew (count only).
	EventPrivateDraw      GameEventType = "private_draw"       // Private: details of drawn cards.
	EventPlayerPass       GameEventType = "player_pass"        // Public: player drew and passed.
	EventReshuffle        GameEventType = "draw_pile_reshuffled"
	EventHandsShuffled    GameEventType = "hands_shuffled"     // Public: shuffle-hands wild resolved.
	EventUnoCalled        GameEventType = "uno_called"
	EventUnoChallenged    GameEventType = "uno_challenged"     // Public: challenge succeeded, penalty applied.
	EventPlayerLeft       GameEventType = "player_left"
	EventGameEnd          GameEventType = "game_end"
	EventPrivateSyncState GameEventType = "private_sync_state" // Private: full obfuscated state for one player.
	EventError            GameEventType = "error"              // Private: a socket action was rejected.
)

// EventCard identifies a card instance within an event payload.
type EventCard struct {
	ID    uint   `json:"id"`
	Color string `json:"color"`
	Type  string `json:"type"`
	Value *int16 `json:"value,omitempty"`
	Idx   *int   `json:"idx,omitempty"` // Hand slot, when relevant.
}

// GameEvent is the standard structure for broadcasting game state changes.
type GameEvent struct {
	Type     GameEventType  `json:"type"`
	GameID   uint           `json:"gameId"`
	PlayerID uint           `json:"playerId,omitempty"`
	Card     *EventCard     `json:"card,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
	State    *ObfGameState  `json:"state,omitempty"`
}

// eventCardFromModel builds an EventCard from a catalog row.
func eventCardFromModel(row models.Card) *EventCard {
	return &EventCard{
		ID:    row.ID,
		Color: string(row.Color),
		Type:  string(row.Type),
		Value: row.Value,
	}
}
