// Package monitor serves live simulation progress over HTTP and websocket.
// The simulator publishes a snapshot after each committed timestep; the
// server fans it out to connected clients without ever blocking the
// simulation loop.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/devskill-org/enersim/simulation"
)

// HealthResponse is the /api/health payload.
type HealthResponse struct {
	Status    string                      `json:"status"`
	Timestamp string                      `json:"timestamp"`
	Progress  simulation.ProgressSnapshot `json:"progress"`
	System    SystemHealth                `json:"system"`
}

// SystemHealth carries process-level information.
type SystemHealth struct {
	Uptime     string `json:"uptime"`
	Goroutines int    `json:"goroutines"`
}

// Server exposes the simulation progress. It implements
// simulation.ProgressSink: Publish never blocks; when the broadcast buffer is
// full the snapshot is dropped, which is fine because a newer one follows.
type Server struct {
	server    *http.Server
	port      int
	startTime time.Time
	upgrader  websocket.Upgrader
	clients   sync.Map
	broadcast chan []byte
	done      chan struct{}

	mu       sync.RWMutex
	snapshot simulation.ProgressSnapshot
}

// NewServer creates a monitor server on the given port, or nil when the port
// is zero or negative (monitoring disabled). A nil *Server is safe to use:
// all methods are no-ops.
func NewServer(port int) *Server {
	if port <= 0 {
		return nil
	}

	mux := http.NewServeMux()
	s := &Server{
		port:      port,
		startTime: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		broadcast: make(chan []byte, 256),
		done:      make(chan struct{}),
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	mux.HandleFunc("/api/health", s.healthHandler)
	mux.HandleFunc("/api/status", s.statusHandler)
	mux.HandleFunc("/api/ws", s.wsHandler)
	return s
}

// Start launches the broadcast loop and the HTTP listener.
func (s *Server) Start() {
	if s == nil {
		return
	}
	go s.handleBroadcasts()
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("monitor server error")
		}
	}()
	log.Info().Int("port", s.port).Msg("monitor server started")
}

// Stop gracefully shuts the server down and closes all client connections.
func (s *Server) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	close(s.done)
	s.clients.Range(func(key, _ any) bool {
		if conn, ok := key.(*websocket.Conn); ok {
			conn.Close()
		}
		return true
	})
	return s.server.Shutdown(ctx)
}

// Publish implements simulation.ProgressSink.
func (s *Server) Publish(snapshot simulation.ProgressSnapshot) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	message, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	select {
	case s.broadcast <- message:
	default:
		// buffer full, a newer snapshot will follow
	}
}

func (s *Server) lastSnapshot() simulation.ProgressSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Progress:  s.lastSnapshot(),
		System: SystemHealth{
			Uptime:     time.Since(s.startTime).Round(time.Second).String(),
			Goroutines: runtime.NumGoroutine(),
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.lastSnapshot()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// wsHandler upgrades the connection, sends the current snapshot immediately
// and keeps the client registered until it disconnects.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade error")
		return
	}
	s.clients.Store(conn, true)
	log.Debug().Msg("websocket client connected")

	if err := conn.WriteJSON(s.lastSnapshot()); err != nil {
		log.Debug().Err(err).Msg("failed to send initial snapshot")
	}

	defer func() {
		s.clients.Delete(conn)
		conn.Close()
		log.Debug().Msg("websocket client disconnected")
	}()

	// Drain client messages (ping/pong, close).
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("websocket error")
			}
			return
		}
	}
}

// handleBroadcasts fans published snapshots out to all connected clients.
func (s *Server) handleBroadcasts() {
	for {
		select {
		case message := <-s.broadcast:
			s.clients.Range(func(key, _ any) bool {
				conn, ok := key.(*websocket.Conn)
				if !ok {
					return true
				}
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					s.clients.Delete(conn)
				}
				return true
			})
		case <-s.done:
			return
		}
	}
}
