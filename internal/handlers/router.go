package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cooper-gadd/uno/internal/auth"
	"github.com/cooper-gadd/uno/internal/cache"
	"github.com/cooper-gadd/uno/internal/config"
	"github.com/cooper-gadd/uno/internal/game"
)

// Server bundles the dependencies the HTTP layer needs.
type Server struct {
	cfg       *config.Config
	auth      *auth.Service
	manager   *game.Manager
	historian *cache.Historian
	hub       *Hub
}

// NewServer wires the HTTP layer. The hub is registered on the manager so
// game events reach connected clients.
func NewServer(cfg *config.Config, authSvc *auth.Service, manager *game.Manager, historian *cache.Historian) *Server {
	s := &Server{
		cfg:       cfg,
		auth:      authSvc,
		manager:   manager,
		historian: historian,
		hub:       NewHub(manager),
	}
	manager.BroadcastFn = s.hub.Broadcast
	manager.BroadcastToPlayerFn = s.hub.BroadcastToPlayer
	return s
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/auth/register", s.handleRegister)
	r.POST("/auth/login", s.handleLogin)

	authed := r.Group("/", auth.Middleware(s.auth))
	authed.POST("/auth/logout", s.handleLogout)
	authed.GET("/auth/me", s.handleMe)

	games := authed.Group("/games")
	games.POST("", s.handleCreateGame)
	games.POST("/:id/join", s.handleJoinGame)
	games.POST("/:id/start", s.handleStartGame)
	games.POST("/:id/play", s.handlePlayCard)
	games.POST("/:id/choose-color", s.handleChooseColor)
	games.POST("/:id/draw", s.handleDrawCard)
	games.POST("/:id/pass", s.handlePassTurn)
	games.POST("/:id/call-uno", s.handleCallUno)
	games.POST("/:id/challenge-uno", s.handleChallengeUno)
	games.POST("/:id/leave", s.handleLeaveGame)
	games.GET("/:id/state", s.handleGameState)
	games.GET("/:id/history", s.handleGameHistory)
	games.GET("/:id/ws", s.handleWS)

	return r
}
