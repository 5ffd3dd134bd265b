// Package devserver is a self-contained REST backend for local development
// and tests. It serves the same /api contract the client speaks.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/nhle/taskboard/internal/logger"
	"github.com/nhle/taskboard/internal/store"
)

// Demo account seeded by Seed.
const (
	DemoEmail    = "demo@taskboard.local"
	DemoPassword = "demo1234"
)

// Server wires the HTTP routes to a store.
type Server struct {
	store    store.Store
	verifier *Verifier
	mailer   Mailer
	engine   *gin.Engine
}

// New builds a server over s. A nil mailer logs codes.
func New(s store.Store, mailer Mailer) *Server {
	if mailer == nil {
		mailer = LogMailer{}
	}
	gin.SetMode(gin.ReleaseMode)

	srv := &Server{
		store:    s,
		verifier: NewVerifier(),
		mailer:   mailer,
		engine:   gin.New(),
	}
	srv.routes()
	return srv
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Verifier exposes the code verifier.
func (s *Server) Verifier() *Verifier {
	return s.verifier
}

// Seed creates the demo account if it does not exist yet.
func (s *Server) Seed(ctx context.Context) error {
	if _, err := s.store.GetUserByEmail(ctx, DemoEmail); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}
	_, err = s.store.CreateUser(ctx, store.UserRecord{
		User:         userWithName(DemoEmail, "Demo user"),
		PasswordHash: string(hash),
	})
	if err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}
	logger.L().Sugar().Infof("seeded demo account %s", DemoEmail)
	return nil
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Sugar().Infof("dev backend listening on %s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

func (s *Server) routes() {
	s.engine.Use(Recovery())
	s.engine.Use(Logger())

	api := s.engine.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", s.login)
			auth.POST("/register", s.register)
			auth.POST("/send-code", s.sendCode)
			auth.GET("/me", s.requireUser(), s.me)
			auth.PUT("/me", s.requireUser(), s.updateProfile)
		}

		authed := api.Group("", s.requireUser())
		{
			authed.GET("/projects", s.listProjects)
			authed.POST("/projects", s.createProject)
			authed.GET("/projects/:id", s.getProject)
			authed.PUT("/projects/:id", s.updateProject)
			authed.DELETE("/projects/:id", s.deleteProject)

			authed.GET("/projects/:id/tasks", s.searchTasks)
			authed.POST("/projects/:id/tasks", s.createTask)
			authed.PUT("/tasks/:id", s.updateTask)
			authed.POST("/tasks/:id/archive", s.archiveTask)
			authed.DELETE("/tasks/:id", s.deleteTask)

			authed.DELETE("/admin/clear", s.clearAll)
		}
	}
}

func (s *Server) logMailError(to string, err error) {
	logger.L().Sugar().Warnf("sending verification code to %s failed: %v", to, err)
}
