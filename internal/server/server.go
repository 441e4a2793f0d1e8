package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/appspark/waitlist/internal/insights"
	"github.com/appspark/waitlist/internal/questionnaire"
	"github.com/appspark/waitlist/internal/signup"
	"github.com/appspark/waitlist/internal/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options wires a Server. Signups, Insights and Wizard are built from Store
// when nil.
type Options struct {
	Store    store.Store
	Signups  *signup.Client
	Insights *insights.Service
	Wizard   *questionnaire.Wizard
	Logger   zerolog.Logger

	Port      int
	TokenFile string

	// SignupRate is requests per second per client on the signup endpoints.
	// Zero disables limiting.
	SignupRate  float64
	SignupBurst int
}

type Server struct {
	store     store.Store
	signups   *signup.Client
	insights  *insights.Service
	wizard    *questionnaire.Wizard
	log       zerolog.Logger
	limiter   *limiter
	port      int
	token     string
	tokenFile string
	router    *http.ServeMux
	handler   http.Handler
	startTime time.Time
}

func New(opts Options) *Server {
	srv := &Server{
		store:     opts.Store,
		signups:   opts.Signups,
		insights:  opts.Insights,
		wizard:    opts.Wizard,
		log:       opts.Logger,
		limiter:   newLimiter(opts.SignupRate, opts.SignupBurst),
		port:      opts.Port,
		token:     generateToken(),
		tokenFile: opts.TokenFile,
		router:    http.NewServeMux(),
		startTime: time.Now(),
	}
	if srv.signups == nil {
		srv.signups = signup.New(opts.Store, signup.WithLogger(opts.Logger))
	}
	if srv.insights == nil {
		srv.insights = insights.NewService(opts.Store)
	}
	if srv.wizard == nil {
		srv.wizard = questionnaire.Default()
	}

	srv.setupRoutes()
	srv.handler = srv.logRequests(srv.router)
	return srv
}

func (s *Server) setupRoutes() {
	// JSON API
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.HandleFunc("/api/notion", s.handleSignupAPI)
	s.router.HandleFunc("/api/signup", s.handleSignupAPI)
	s.router.HandleFunc("/api/insights", s.handleInsightsAPI)

	// Pages
	s.router.HandleFunc("/", s.handleLanding)
	s.router.HandleFunc("/signup", s.handleSignupForm)
	s.router.HandleFunc("/questionnaire", s.handleQuestionnaire)
	s.router.HandleFunc("/success", s.handleSuccess)

	// Dashboard (protected)
	s.router.Handle("/insights", s.authMiddleware(http.HandlerFunc(s.handleInsightsPage)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	// Write token to file for the token command
	if s.tokenFile != "" {
		if err := os.WriteFile(s.tokenFile, []byte(s.token), 0600); err != nil {
			s.log.Warn().Err(err).Str("path", s.tokenFile).Msg("failed to write token file")
		} else {
			defer os.Remove(s.tokenFile)
		}
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Int("port", s.port).Str("store", s.store.Name()).Msg("server listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info().Msg("server stopped")
	return nil
}

func (s *Server) Token() string {
	return s.token
}

func (s *Server) Port() int {
	return s.port
}

func (s *Server) StartTime() time.Time {
	return s.startTime
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func generateToken() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return hex.EncodeToString(bytes)
}
