// Package webui serves the browser surface of the client on localhost.
//
// The browser never talks to the task backend directly: the engine holds the
// credential, polls the backend, and renders the HTML fragments; the pages
// here are chrome around those fragments. Browser-side refresh is a plain
// meta-refresh at the poll interval — there is no push channel.
package webui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tasklab/internal/config"
	"tasklab/internal/controller"
	"tasklab/internal/logging"
	"tasklab/internal/metrics"
)

// Server is the local web shell.
type Server struct {
	ctrl    *controller.Controller
	metrics *metrics.Metrics
	logger  logging.Logger
	cfg     config.Config

	engine     *gin.Engine
	httpServer *http.Server
	startTime  time.Time
}

// NewServer wires routes and middleware around the controller.
func NewServer(ctrl *controller.Controller, m *metrics.Metrics, cfg config.Config, logger logging.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	engine.Use(cors.New(corsConfig))

	s := &Server{
		ctrl:      ctrl,
		metrics:   m,
		logger:    logging.OrNop(logger),
		cfg:       cfg,
		engine:    engine,
		startTime: time.Now(),
	}

	s.httpServer = &http.Server{
		Addr:         cfg.WebAddr,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.POST("/login", s.handleLogin)
	s.engine.POST("/tasks", s.handleCreateTask)
	s.engine.GET("/tasks/:id", s.handleTaskDetail)
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("web shell listening on %s", s.cfg.WebAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web shell: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route tree; tests drive it directly.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
	})
}
