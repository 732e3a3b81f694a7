package http

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/02loveslollipop/section-viewer/services/api/config"
	"github.com/02loveslollipop/section-viewer/services/api/dataset"
	"github.com/02loveslollipop/section-viewer/services/api/db"
	"github.com/02loveslollipop/section-viewer/services/api/pipeline"
	"github.com/02loveslollipop/section-viewer/services/api/section"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Runner executes a section sweep.
type Runner interface {
	Run(ctx context.Context, params section.Params, bundle dataset.Bundle) (*pipeline.Result, error)
}

// RunLog persists run metadata.
type RunLog interface {
	RecordRun(ctx context.Context, r db.RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]db.RunRecord, error)
}

// Server bundles router and dependencies for the section viewer.
type Server struct {
	cfg     config.Config
	runner  Runner
	history RunLog
	runs    *runRegistry
	logger  *zap.Logger
	engine  *gin.Engine
}

// New constructs a server with routes and middleware. history may be nil,
// which disables the run log.
func New(cfg config.Config, runner Runner, history RunLog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(corsMiddleware())

	if cfg.BearerToken != "" {
		engine.Use(bearerAuthMiddleware(cfg.BearerToken))
	}

	engine.MaxMultipartMemory = 32 << 20
	engine.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	server := &Server{
		cfg:     cfg,
		runner:  runner,
		history: history,
		runs:    newRunRegistry(cfg.RunTTL, logger),
		logger:  logger,
		engine:  engine,
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Close removes every live run workspace.
func (s *Server) Close() {
	s.runs.closeAll()
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	go s.runs.janitor(ctx, janitorInterval(s.cfg.RunTTL))
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.engine.GET("/", s.handleIndexPage)
	s.engine.GET("/runs/:id", s.handleRunPage)

	s.registerV1Routes()
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	return interval
}
