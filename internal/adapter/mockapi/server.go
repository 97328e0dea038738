// Package mockapi is a self-contained demo of the monitoring API the
// dashboard consumes: seeded data behind JWT bearer authentication.
package mockapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/water-monitor-dashboard/internal/config"
	"github.com/couchcryptid/water-monitor-dashboard/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

// Server serves the demo API.
type Server struct {
	httpServer *http.Server
	auth       *authenticator
	data       *dataset
	logger     *slog.Logger
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// NewServer seeds the dataset relative to clock and builds the routes.
func NewServer(cfg *config.MockAPIConfig, clock clockwork.Clock, logger *slog.Logger) (*Server, error) {
	auth, err := newAuthenticator(cfg.DemoUsername, cfg.DemoPassword, cfg.JWTSecret, cfg.TokenTTL, clock)
	if err != nil {
		return nil, err
	}

	s := &Server{
		auth:   auth,
		data:   seed(clock.Now()),
		logger: logger,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.POST("/api/login", s.handleLogin)

	authed := r.Group("/api", auth.requireToken())
	authed.GET("/alerts", func(c *gin.Context) { c.JSON(http.StatusOK, s.data.alerts) })
	authed.GET("/locations", func(c *gin.Context) { c.JSON(http.StatusOK, s.data.locations) })
	authed.GET("/readings", func(c *gin.Context) { c.JSON(http.StatusOK, s.data.readings) })
	authed.GET("/reports", func(c *gin.Context) { c.JSON(http.StatusOK, s.data.reports) })
	authed.GET("/reports/:id/download", s.handleDownload)

	s.httpServer = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("mock api starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the router, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	if !s.auth.checkCredentials(req.Username, req.Password) {
		s.logger.Info("login rejected", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.auth.issueToken(req.Username)
	if err != nil {
		s.logger.Error("issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleDownload(c *gin.Context) {
	filename, body, ok := s.data.reportCSV(domain.ID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", body)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetHeader("X-Request-ID"),
		)
	}
}
