package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cooper-gadd/uno/internal/auth"
	"github.com/cooper-gadd/uno/internal/game"
)

func gameID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return 0, false
	}
	return uint(id), true
}

// liveGame returns the in-memory game, resuming it from its snapshot when
// the process restarted since the game began.
func (s *Server) liveGame(c *gin.Context, id uint) (*game.UnoGame, bool) {
	g, err := s.manager.Get(id)
	if err == nil {
		return g, true
	}
	g, err = s.manager.Resume(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return g, true
}

// seat resolves the calling user's player in the game.
func (s *Server) seat(c *gin.Context, id uint) (*game.UnoGame, uint, bool) {
	g, ok := s.liveGame(c, id)
	if !ok {
		return nil, 0, false
	}
	p := g.PlayerForUser(auth.CurrentUser(c).ID)
	if p == nil {
		abortWithError(c, game.ErrNotInGame)
		return nil, 0, false
	}
	return g, p.ID, true
}

type createGameRequest struct {
	HandSize         uint8 `json:"handSize"`
	UnoPenaltyDraw   uint8 `json:"unoPenaltyDraw"`
	NumShuffleHands  uint8 `json:"numShuffleHands"`
	NumCustomizable  uint8 `json:"numCustomizable"`
	CustomizableDraw uint8 `json:"customizableDraw"`
	AbortOnLeave     bool  `json:"abortOnLeave"`
	TurnTimeoutSec   int   `json:"turnTimeoutSec"`
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg := game.GameConfig{
		HandSize:         req.HandSize,
		UnoPenaltyDraw:   req.UnoPenaltyDraw,
		NumShuffleHands:  req.NumShuffleHands,
		NumCustomizable:  req.NumCustomizable,
		CustomizableDraw: req.CustomizableDraw,
		AbortOnLeave:     req.AbortOnLeave,
		TurnTimeout:      time.Duration(req.TurnTimeoutSec) * time.Second,
	}
	g, err := s.manager.CreateGame(c.Request.Context(), cfg)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gameId": g.ID})
}

func (s *Server) handleJoinGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	if _, ok := s.liveGame(c, id); !ok {
		return
	}
	p, err := s.manager.JoinGame(c.Request.Context(), id, auth.CurrentUser(c).ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playerId": p.ID, "turnOrder": p.EngineIdx})
}

func (s *Server) handleStartGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	if _, _, ok := s.seat(c, id); !ok {
		return
	}
	if err := s.manager.StartGame(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type playRequest struct {
	HandIdx uint8  `json:"handIdx"`
	Color   string `json:"color"`
}

func (s *Server) handlePlayCard(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, playerID, ok := s.seat(c, id)
	if !ok {
		return
	}
	res, err := s.manager.PlayCard(c.Request.Context(), id, playerID, req.HandIdx, req.Color)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type chooseColorRequest struct {
	Color string `json:"color" binding:"required"`
}

func (s *Server) handleChooseColor(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req chooseColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, playerID, ok := s.seat(c, id)
	if !ok {
		return
	}
	res, err := s.manager.ChooseColor(c.Request.Context(), id, playerID, req.Color)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleDrawCard(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	_, playerID, ok := s.seat(c, id)
	if !ok {
		return
	}
	res, err := s.manager.DrawCard(c.Request.Context(), id, playerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handlePassTurn(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	_, playerID, ok := s.seat(c, id)
	if !ok {
		return
	}
	nextID, err := s.manager.PassTurn(c.Request.Context(), id, playerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nextPlayerId": nextID})
}

func (s *Server) handleCallUno(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	_, playerID, ok := s.seat(c, id)
	if !ok {
		return
	}
	if err := s.manager.CallUno(c.Request.Context(), id, playerID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type challengeRequest struct {
	TargetPlayerID uint `json:"targetPlayerId" binding:"required"`
}

func (s *Server) handleChallengeUno(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, playerID, ok := s.seat(c, id)
	if !ok {
		return
	}
	res, err := s.manager.ChallengeUno(c.Request.Context(), id, playerID, req.TargetPlayerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleLeaveGame(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	_, playerID, ok := s.seat(c, id)
	if !ok {
		return
	}
	if err := s.manager.Leave(c.Request.Context(), id, playerID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleGameState returns the caller's obfuscated view; users outside the
// game get the spectator view with every hand hidden.
func (s *Server) handleGameState(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	g, ok := s.liveGame(c, id)
	if !ok {
		return
	}
	var playerID uint
	if p := g.PlayerForUser(auth.CurrentUser(c).ID); p != nil {
		playerID = p.ID
	}
	c.JSON(http.StatusOK, g.SyncStateFor(playerID))
}

func (s *Server) handleGameHistory(c *gin.Context) {
	id, ok := gameID(c)
	if !ok {
		return
	}
	records, err := s.historian.History(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}
