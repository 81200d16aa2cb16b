package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cooper-gadd/uno/internal/auth"
	"github.com/cooper-gadd/uno/internal/database"
	"github.com/cooper-gadd/uno/internal/engine"
	"github.com/cooper-gadd/uno/internal/game"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{game.ErrGameNotFound, http.StatusNotFound},
		{database.ErrNotFound, http.StatusNotFound},
		{game.ErrNotInGame, http.StatusForbidden},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrUsernameTaken, http.StatusConflict},
		{engine.ErrNotYourTurn, http.StatusConflict},
		{engine.ErrInvalidPlay, http.StatusBadRequest},
		{engine.ErrAwaitingColorChoice, http.StatusConflict},
		{game.ErrGameFull, http.StatusConflict},
		{game.ErrPersistence, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), "error %v", tc.err)
	}

	// Wrapped sentinels map the same as bare ones.
	wrapped := fmt.Errorf("context: %w", engine.ErrNotYourTurn)
	assert.Equal(t, http.StatusConflict, statusFor(wrapped))
}
