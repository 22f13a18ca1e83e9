// Package server hosts a leaderboard component over HTTP for local
// development: an HTML shell, JSON endpoints for the component config and
// payloads, and a WebSocket channel announcing value updates.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/leaderboard/internal/config"
	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/internal/middleware"
	"github.com/conneroisu/leaderboard/internal/validation"
	"github.com/conneroisu/leaderboard/pkg/leaderboard"
)

// Server serves one leaderboard component. The component is not safe for
// concurrent use, so every access goes through componentMutex.
type Server struct {
	config         *config.Config
	component      *leaderboard.Leaderboard
	payload        leaderboard.Payload
	componentMutex sync.Mutex
	httpServer     *http.Server
	serverMutex    sync.RWMutex
	hub            *Hub
	logger         logging.Logger
	shutdownOnce   sync.Once
}

// UpdateMessage is sent to WebSocket clients.
type UpdateMessage struct {
	Type      string    `json:"type"`
	Rows      int       `json:"rows,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a server for lb.
func New(cfg *config.Config, lb *leaderboard.Leaderboard, logger logging.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server: nil config")
	}
	if lb == nil {
		return nil, fmt.Errorf("server: nil component")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithComponent("server")

	return &Server{
		config:    cfg,
		component: lb,
		payload:   lb.FrontendConfig().Value,
		hub:       NewHub(logger),
		logger:    logger,
	}, nil
}

// Handler returns the HTTP handler with every route and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/value", s.handleValue)
	mux.HandleFunc("/api/example", s.handleExample)
	mux.HandleFunc("/api/preprocess", s.handlePreprocess)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.addMiddleware(mux)
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Server.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, err, "shutdown failed")
		}
	}()

	s.logger.Info(ctx, "serving leaderboard", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown closes client connections and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.hub.CloseAll()

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()
		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})
	return shutdownErr
}

// Update postprocesses value into the component and notifies clients. On
// error the previous value stays in place and clients receive an error
// message.
func (s *Server) Update(ctx context.Context, value interface{}) error {
	s.componentMutex.Lock()
	p, err := s.component.Postprocess(ctx, value)
	if err == nil {
		s.payload = p
	}
	s.componentMutex.Unlock()

	if err != nil {
		s.broadcastMessage(UpdateMessage{Type: "error", Message: err.Error(), Timestamp: time.Now()})
		return err
	}

	s.broadcastMessage(UpdateMessage{Type: "value", Rows: p.RowCount(), Timestamp: time.Now()})
	return nil
}

func (s *Server) broadcastMessage(msg UpdateMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error(context.Background(), err, "failed to marshal update")
		return
	}
	s.hub.Broadcast(data)
}

func (s *Server) addMiddleware(next http.Handler) http.Handler {
	return middleware.Chain(next,
		middleware.Recover(s.logger),
		middleware.RequestLogger(s.logger),
		middleware.SecurityHeaders(),
		middleware.CORS(s.isAllowedOrigin),
	)
}

func (s *Server) isAllowedOrigin(origin string) bool {
	return validation.ValidateOrigin(origin, s.config.Server.AllowedOrigins) == nil
}
