package game

import "errors"

// Session-layer errors. Engine rule violations surface as the engine's own
// sentinels; these cover game lifecycle and infrastructure.
var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFull          = errors.New("game is full")
	ErrGameAlreadyActive = errors.New("game already active")
	ErrNotEnoughPlayers  = errors.New("not enough players")
	ErrNotInGame         = errors.New("player is not in this game")
	ErrAlreadyJoined     = errors.New("player already joined this game")

	// ErrPersistence means the durable write failed after bounded retries;
	// the in-memory state was rolled back and the caller should retry.
	ErrPersistence = errors.New("turn could not be persisted")
)
