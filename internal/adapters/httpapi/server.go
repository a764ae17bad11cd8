// Package httpapi serves read-only governance queries and action encoding over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/trebuchet-org/govctl/internal/actions"
	"github.com/trebuchet-org/govctl/internal/domain"
	"github.com/trebuchet-org/govctl/internal/notify"
	"github.com/trebuchet-org/govctl/internal/usecase"
)

// StatusService computes the verification status of an account
type StatusService interface {
	Run(ctx context.Context, account common.Address) (*usecase.VerificationStatusResult, error)
}

// EncodeService encodes an action list against the configured DAO
type EncodeService interface {
	Encode(ctx context.Context, list []domain.Action) (*usecase.EncodedActions, error)
}

// ProposalService loads one proposal with its actions interpreted
type ProposalService interface {
	Run(ctx context.Context, id uint64) (*usecase.ProposalView, error)
}

// Deps are the services the server exposes
type Deps struct {
	Status        StatusService
	Encoder       EncodeService
	Proposals     ProposalService
	Registry      *actions.Registry
	Notifications *notify.Store
}

// Server is the HTTP front end
type Server struct {
	deps Deps
	log  *slog.Logger
	r    *gin.Engine
}

// NewServer creates a server with all routes registered
func NewServer(deps Deps, log *slog.Logger) *Server {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	s := &Server{deps: deps, log: log, r: r}
	s.routes()
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler { return s.r }

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.r.Group("/v1")
	{
		v1.GET("/verification/:address", s.handleVerificationStatus)
		v1.GET("/actions", s.handleListActions)
		v1.POST("/proposals/encode", s.handleEncode)
		v1.GET("/proposals/:id", s.handleGetProposal)
		v1.GET("/notifications", s.handleListNotifications)
		v1.DELETE("/notifications/:id", s.handleDismissNotification)
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
