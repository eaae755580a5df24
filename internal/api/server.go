// Package api exposes the read-only admin REST surface the operator's
// domain stack adds on top of the game protocol: operators query live
// server status and player counts, and kick players, over HTTP instead of
// the stdin console: a gin.Engine with a JWT-guarded route group and a
// health endpoint, scoped to a single operator account (no per-player
// accounts/registration
// since Minecraft identity isn't password-based).
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kestrelmc/kestrel/internal/console"
)

// Kicker disconnects a player, satisfied by *internal/game.Game.
type Kicker interface {
	Kick(usernameOrUUID, reason string) bool
}

// PlayerLister reports the usernames currently logged in, satisfied by
// *internal/game.Game.
type PlayerLister interface {
	Players() []string
}

// Credential checks the single operator account's username/password.
type Credential interface {
	Check(username, password string) bool
}

// Server is the admin REST API: login, status, and kick, guarded by a JWT
// issued at login. gin.New + gin.Recovery() only — no default logger
// middleware; internal/logging covers that.
type Server struct {
	router *gin.Engine
	http   *http.Server

	tokens  *TokenManager
	cred    Credential
	kicker  Kicker
	players PlayerLister
	status  func() console.Status
}

// Config bundles Server's dependencies.
type Config struct {
	Tokens     *TokenManager
	Credential Credential
	Kicker     Kicker
	Players    PlayerLister
	Status     func() console.Status
}

// New builds a Server. Call ListenAndServe to start it.
func New(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:  router,
		tokens:  cfg.Tokens,
		cred:    cfg.Credential,
		kicker:  cfg.Kicker,
		players: cfg.Players,
		status:  cfg.Status,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	auth := s.router.Group("/api/auth")
	auth.POST("/login", s.handleLogin)

	protected := s.router.Group("/api")
	protected.Use(s.jwtMiddleware())
	protected.GET("/status", s.handleStatus)
	protected.GET("/players", s.handlePlayers)
	protected.POST("/kick", s.handleKick)
}

// LoginRequest is the admin login body.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued JWT on success.
type LoginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if s.cred == nil || !s.cred.Check(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	token, err := s.tokens.Generate(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (s *Server) handleStatus(c *gin.Context) {
	if s.status == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "status unavailable"})
		return
	}
	c.JSON(http.StatusOK, s.status())
}

func (s *Server) handlePlayers(c *gin.Context) {
	if s.players == nil {
		c.JSON(http.StatusOK, gin.H{"players": []string{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": s.players.Players()})
}

// KickRequest names the player to disconnect and why.
type KickRequest struct {
	Player string `json:"player" binding:"required"`
	Reason string `json:"reason"`
}

func (s *Server) handleKick(c *gin.Context) {
	var req KickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	reason := req.Reason
	if reason == "" {
		reason = "Kicked by operator"
	}
	if s.kicker == nil || !s.kicker.Kick(req.Player, reason) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no connected player matching that name or uuid"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kicked": req.Player})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// jwtMiddleware requires a valid "Authorization: Bearer <token>" header.
func (s *Server) jwtMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		if _, err := s.tokens.Parse(header[len(prefix):]); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Next()
	}
}

// ListenAndServe starts the HTTP server on addr. It blocks until the
// server stops (Shutdown, or a fatal listen error).
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.router}
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
