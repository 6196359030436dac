// Package web serves a running simulation to external renderers: JSON
// endpoints for the current frame and statistics, and a websocket feed of
// snapshots.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/anggasct/smartcity"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// DefaultBroadcastInterval is how often snapshots are pushed to clients.
const DefaultBroadcastInterval = 200 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ControlRequest changes how the simulation runs. Absent fields are left
// unchanged.
type ControlRequest struct {
	TimeScale *float64 `json:"time_scale"`
	Paused    *bool    `json:"paused"`
}

// ControlResponse reports the settings after a control request.
type ControlResponse struct {
	TimeScale float64 `json:"time_scale"`
	Paused    bool    `json:"paused"`
}

// Server is a read-only feed over a simulation. Clients cannot affect cars.
type Server struct {
	sim      *smartcity.Simulation
	router   *gin.Engine
	interval time.Duration

	clients      map[*websocket.Conn]bool
	clientsMutex sync.Mutex
}

// NewServer creates a server for sim. A non-positive interval selects
// DefaultBroadcastInterval.
func NewServer(sim *smartcity.Simulation, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultBroadcastInterval
	}
	s := &Server{
		sim:      sim,
		interval: interval,
		clients:  make(map[*websocket.Conn]bool),
	}

	router := gin.Default()
	router.Use(cors.Default())
	router.GET("/api/snapshot", s.handleSnapshot)
	router.GET("/api/metrics", s.handleMetrics)
	router.POST("/api/control", s.handleControl)
	router.GET("/ws", s.handleWs)
	s.router = router

	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ClientCount returns the number of connected websocket clients.
func (s *Server) ClientCount() int {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	return len(s.clients)
}

// ListenAndServe serves on addr and broadcasts snapshots until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	go s.Broadcast(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Web server shutdown failed")
		}
	}()

	log.WithFields(log.Fields{"addr": addr}).Info("Web server starting")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Broadcast pushes a snapshot to every client once per interval until ctx is
// done. Connected clients are closed on return.
func (s *Server) Broadcast(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.closeClients()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if s.ClientCount() == 0 {
			continue
		}

		data, err := json.Marshal(s.sim.Snapshot())
		if err != nil {
			log.WithError(err).Error("Failed to marshal snapshot")
			continue
		}

		s.clientsMutex.Lock()
		for conn := range s.clients {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.WithError(err).Warn("WebSocket write failed")
				conn.Close()
				delete(s.clients, conn)
			}
		}
		s.clientsMutex.Unlock()
	}
}

func (s *Server) closeClients() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
}

func (s *Server) handleSnapshot(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, s.sim.Snapshot())
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, s.sim.Metrics())
}

func (s *Server) handleControl(c *gin.Context) {
	var req ControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.TimeScale != nil {
		s.sim.SetTimeScale(*req.TimeScale)
	}
	if req.Paused != nil {
		if *req.Paused {
			s.sim.Pause()
		} else {
			s.sim.Resume()
		}
	}
	log.WithFields(log.Fields{"time_scale": s.sim.TimeScale(), "paused": s.sim.Paused()}).Info("Control applied")

	c.JSON(http.StatusOK, ControlResponse{TimeScale: s.sim.TimeScale(), Paused: s.sim.Paused()})
}

func (s *Server) handleWs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Error("Failed to upgrade connection")
		return
	}

	s.clientsMutex.Lock()
	s.clients[conn] = true
	total := len(s.clients)
	s.clientsMutex.Unlock()
	log.WithFields(log.Fields{"clients": total}).Info("WebSocket client connected")

	go s.handleClientMessages(conn)
}

// handleClientMessages drains the connection so close frames are seen.
// Anything a client sends is ignored.
func (s *Server) handleClientMessages(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.clientsMutex.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("WebSocket closed unexpectedly")
			}
			return
		}
	}
}
