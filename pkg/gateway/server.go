// Package gateway exposes the conversation engine over WebSocket. Each
// connection owns one session; frames on a connection are processed
// strictly in order.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/voyago/voyago/internal/metrics"
	"github.com/voyago/voyago/pkg/chat"
	"github.com/voyago/voyago/pkg/session"
	"github.com/voyago/voyago/pkg/tools"
	"github.com/voyago/voyago/pkg/travel"
)

// Server is the WebSocket chat gateway.
type Server struct {
	port     int
	engine   *chat.Engine
	registry *tools.Registry
	sessions *session.Manager
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	server         *http.Server
	upgrader       websocket.Upgrader
	isShuttingDown bool
	shutdownMu     sync.RWMutex
	conns          sync.WaitGroup
}

// Config holds server configuration.
type Config struct {
	Port     int
	Engine   *chat.Engine
	Registry *tools.Registry
	Sessions *session.Manager
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
}

// NewServer creates a gateway server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("chat engine is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}

	return &Server{
		port:     cfg.Port,
		engine:   cfg.Engine,
		registry: cfg.Registry,
		sessions: cfg.Sessions,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now
			},
		},
	}, nil
}

// Start starts the gateway server. It does not block.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/chat", s.handleChat)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	s.logger.Info().Int("port", s.port).Msg("Starting gateway server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Gateway server error")
		}
	}()

	return nil
}

// Stop gracefully stops the server, waiting briefly for open connections.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.isShuttingDown = true
	s.shutdownMu.Unlock()

	s.logger.Info().Msg("Shutting down gateway server")

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		s.logger.Warn().Msg("Shutdown timeout reached, forcing close")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info().Msg("Gateway server stopped")
	return nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.shutdownMu.RLock()
	if s.isShuttingDown {
		s.shutdownMu.RUnlock()
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}
	s.shutdownMu.RUnlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	s.conns.Add(1)
	go s.serveConn(conn, r.RemoteAddr)
}

// serveConn runs the per-connection loop. The session and its cache live
// exactly as long as the connection.
func (s *Server) serveConn(conn *websocket.Conn, remoteAddr string) {
	defer s.conns.Done()

	sess := s.sessions.Create()
	dispatcher := s.registry.ForSession(sess.Cache())

	logger := s.logger.With().Str("session_id", sess.ID).Logger()
	logger.Info().Str("ip", remoteAddr).Msg("Client connected")

	defer func() {
		conn.Close()
		s.sessions.Remove(sess.ID)
		logger.Info().Msg("Client disconnected")
	}()

	// Frames are handled serially: a turn finishes before the next frame
	// is read, so tool results always land in the session that asked.
	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Error().Err(err).Msg("WebSocket error")
			}
			return
		}

		if !s.handleTurn(conn, sess, dispatcher, req, logger) {
			return
		}
	}
}

// handleTurn processes one inbound frame end to end. It reports false when
// the connection is no longer usable.
func (s *Server) handleTurn(conn *websocket.Conn, sess *session.Session, dispatcher chat.ToolDispatcher, req ChatRequest, logger zerolog.Logger) bool {
	logger = logger.With().Str("turn_id", uuid.NewString()).Logger()

	if len(req.Messages) == 0 {
		return s.writeError(conn, "At least one message is required.", logger)
	}

	history := make([]chat.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := strings.TrimSpace(m.Role)
		if role == "" {
			role = chat.RoleUser
		}
		history = append(history, chat.Message{Role: role, Content: m.Content})
	}
	sess.ReplaceHistory(history)

	if err := conn.WriteJSON(Ack{Type: TypeMessageReceived, Message: AckMessage}); err != nil {
		logger.Error().Err(err).Msg("Failed to send ack")
		return false
	}

	start := time.Now()
	roundsBefore := sess.Rounds()

	reply, err := s.engine.Respond(context.Background(), sess, dispatcher, chat.CallOptions{
		Model:       req.Model,
		Temperature: req.Temperature,
	})

	status := "success"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.ChatTurnsTotal.WithLabelValues(status).Inc()
		s.metrics.ChatTurnDuration.Observe(time.Since(start).Seconds())
		s.metrics.ChatRounds.Observe(float64(sess.Rounds() - roundsBefore))
		if reply == chat.LoopExceededReply {
			s.metrics.ChatLoopExceeded.Inc()
		}
	}

	if err != nil {
		logger.Error().Err(err).Msg("Turn failed")
		return s.writeError(conn, travel.UserSafeMessage, logger)
	}

	if err := conn.WriteJSON(ChatResponse{
		Type:    TypeChatResponse,
		Message: reply,
		Role:    chat.RoleAssistant,
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to send response")
		return false
	}
	return true
}

func (s *Server) writeError(conn *websocket.Conn, message string, logger zerolog.Logger) bool {
	if err := conn.WriteJSON(ErrorMessage{Type: TypeError, Message: message}); err != nil {
		logger.Error().Err(err).Msg("Failed to send error frame")
		return false
	}
	return true
}
