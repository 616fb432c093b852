// Package netplay serves the game to browsers: a gin router with one
// websocket session per client, plus small JSON and metrics endpoints.
package netplay

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/gunzone/internal/config"
	"github.com/vovakirdan/gunzone/internal/metrics"
	"github.com/vovakirdan/gunzone/internal/registry"
	"github.com/vovakirdan/gunzone/internal/storage"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	maxFrameSize = 4096
)

// Options configures a Server. Store and Metrics may be nil.
type Options struct {
	Config        *config.GameConfigs
	Store         *storage.Store
	Metrics       *metrics.Metrics
	Logger        *log.Logger
	TickRate      int
	SnapshotEvery int
	OutboxSize    int
}

// Server owns the router and the live sessions.
type Server struct {
	opts     Options
	router   *gin.Engine
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer builds the router.
func NewServer(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gunzone-web",
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:   opts,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*Session),
		ctx:      ctx,
		cancel:   cancel,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	r.GET("/healthz", s.handleHealth)
	r.GET("/ws", s.handleWS)

	api := r.Group("/api")
	api.GET("/modes", s.handleModes)
	api.GET("/sessions", s.handleSessions)
	api.GET("/runs", s.handleRuns)
	api.GET("/runs/:id", s.handleRun)
	api.GET("/stats", s.handleStats)
	api.GET("/stash", s.handleStash)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SessionCount returns the number of connected clients.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down web server...")
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close ends every live session.
func (s *Server) Close() {
	s.cancel()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		sess.Close()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}

// saveRun records a finished run; extractions bank their cash.
func (s *Server) saveRun(r storage.RunRecord) (string, error) {
	if s.opts.Store == nil {
		return "", nil
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Mode == "extraction" {
		_, err := s.opts.Store.BankRun(s.opts.Config, r)
		return r.ID, err
	}
	return s.opts.Store.SaveRun(r)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.SessionCount()})
}

func (s *Server) handleModes(c *gin.Context) {
	modes := []gin.H{}
	for _, info := range registry.List() {
		modes = append(modes, gin.H{"id": info.ID, "title": info.Title})
	}
	c.JSON(http.StatusOK, modes)
}

func (s *Server) handleSessions(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]gin.H, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, gin.H{
			"id":      sess.ID(),
			"mode":    sess.Mode(),
			"tick":    sess.Tick(),
			"dropped": sess.Dropped(),
		})
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) requireStore(c *gin.Context) bool {
	if s.opts.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no database configured"})
		return false
	}
	return true
}

func (s *Server) handleRuns(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}

	var runs []storage.RunRecord
	if mode := c.Query("mode"); mode != "" {
		if !registry.Exists(mode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode " + strconv.Quote(mode)})
			return
		}
		runs, err = s.opts.Store.TopRuns(mode, limit)
	} else {
		runs, err = s.opts.Store.RecentRuns(limit)
	}
	if err != nil {
		s.logger.Error("cannot list runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list runs"})
		return
	}
	if runs == nil {
		runs = []storage.RunRecord{}
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) handleRun(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	run, err := s.opts.Store.RunByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleStats(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	stats, err := s.opts.Store.GetAllModesStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handleStash(c *gin.Context) {
	if !s.requireStore(c) {
		return
	}
	p, err := s.opts.Store.LoadProgression(s.opts.Config)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load stash"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleWS(c *gin.Context) {
	mode := c.DefaultQuery("mode", "arena")
	if !registry.Exists(mode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode " + strconv.Quote(mode)})
		return
	}
	seed := time.Now().UnixNano()
	if q := c.Query("seed"); q != "" {
		parsed, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be an integer"})
			return
		}
		seed = parsed
	}

	sess, err := NewSession(uuid.NewString(), SessionConfig{
		Mode:          mode,
		Seed:          seed,
		SnapshotEvery: s.opts.SnapshotEvery,
		OutboxSize:    s.opts.OutboxSize,
		OnRunEnd:      s.saveRun,
		Metrics:       s.opts.Metrics,
		Logger:        s.logger,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.add(sess)
	defer s.remove(sess)
	s.logger.Info("session started", "session", sess.ID(), "mode", mode, "seed", seed, "remote", c.ClientIP())

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	go s.writePump(ctx, conn, sess)
	go sess.Run(ctx, s.opts.TickRate)
	s.readPump(conn, sess)

	sess.Close()
	s.logger.Info("session ended", "session", sess.ID(), "ticks", sess.Tick(), "dropped", sess.Dropped())
}

func (s *Server) add(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	if s.opts.Metrics != nil {
		s.opts.Metrics.Sessions.Inc()
	}
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID())
	s.mu.Unlock()
	if s.opts.Metrics != nil {
		s.opts.Metrics.Sessions.Dec()
	}
}

// readPump decodes client frames into the session until the connection
// drops or the session closes.
func (s *Server) readPump(conn *websocket.Conn, sess *Session) {
	defer conn.Close()

	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", "session", sess.ID(), "error", err)
			}
			return
		}
		if err := sess.Push(msg); err != nil {
			s.logger.Debug("ignored frame", "session", sess.ID(), "error", err)
		}
	}
}

// writePump is the only writer on conn.
func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, sess *Session) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		case <-sess.Done():
			return
		case frame := <-sess.Outbox():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
