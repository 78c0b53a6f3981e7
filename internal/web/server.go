// Package web serves the unified task view as a local JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/session"
)

type Server struct {
	sess   *session.Session
	router *gin.Engine
}

func NewServer(sess *session.Session) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{sess: sess, router: router}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/view", s.handleView)
		api.GET("/people", s.handlePeople)
		api.GET("/groups", s.handleGroups)
		api.POST("/refresh", s.handleRefresh)
		api.POST("/tasks/:origin/:id/status", s.handleStatus)
		api.GET("/preferences", s.handleGetPreferences)
		api.PUT("/preferences", s.handlePutPreferences)
		api.PUT("/notes", s.handleNotes)
		api.POST("/pinned/:name", s.handlePin)
		api.DELETE("/pinned/:name", s.handleUnpin)
	}

	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StdLog(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Serving unified view", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
