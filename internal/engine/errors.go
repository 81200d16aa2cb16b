package engine

import "errors"

// Validation errors: the play is rejected and the game state is unchanged.
var (
	ErrGameNotStarted      = errors.New("game has not started")
	ErrGameFinished        = errors.New("game is finished")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrInvalidPlay         = errors.New("invalid play")
	ErrAwaitingColorChoice = errors.New("awaiting color choice")
	ErrNoColorPending      = errors.New("no color choice pending")
	ErrInvalidColor        = errors.New("invalid color")
	ErrAlreadyDrew         = errors.New("already drew this turn")
	ErrMustDrawFirst       = errors.New("must draw a card before passing")
	ErrTooLate             = errors.New("too late to call uno")
	ErrNothingToCall       = errors.New("nothing to call")
	ErrNothingToChallenge  = errors.New("nothing to challenge")
)

// ErrEmptyDeck is a resource error: both the draw and discard piles are
// exhausted and no further cards can be produced. It is fatal to the game.
var ErrEmptyDeck = errors.New("draw and discard piles exhausted")
