package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cooper-gadd/uno/internal/auth"
	"github.com/cooper-gadd/uno/internal/database"
	"github.com/cooper-gadd/uno/internal/engine"
	"github.com/cooper-gadd/uno/internal/game"
)

// statusFor maps domain errors to HTTP status codes. Rule violations are
// conflicts: the request was well-formed but the game state forbids it.
func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrNotFound), errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotInGame):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, engine.ErrInvalidPlay),
		errors.Is(err, engine.ErrInvalidColor):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrAlreadyJoined),
		errors.Is(err, game.ErrGameAlreadyActive),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, engine.ErrGameNotStarted),
		errors.Is(err, engine.ErrGameFinished),
		errors.Is(err, engine.ErrNotYourTurn),
		errors.Is(err, engine.ErrAwaitingColorChoice),
		errors.Is(err, engine.ErrNoColorPending),
		errors.Is(err, engine.ErrAlreadyDrew),
		errors.Is(err, engine.ErrMustDrawFirst),
		errors.Is(err, engine.ErrTooLate),
		errors.Is(err, engine.ErrNothingToCall),
		errors.Is(err, engine.ErrNothingToChallenge),
		errors.Is(err, engine.ErrEmptyDeck):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
