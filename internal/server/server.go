// Package server exposes editing sessions to a browser over a websocket.
// Every connection owns one session; requests are applied in the order they
// arrive and each is answered with the resulting display state.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/example/numbit/internal/editor"
	"github.com/example/numbit/internal/export"
)

// Factory creates the session for a new connection.
type Factory func(id string) *editor.Editor

// Server routes HTTP and websocket traffic to sessions.
type Server struct {
	engine   *gin.Engine
	upgrader websocket.Upgrader
	factory  Factory
	log      *logrus.Entry
	exportOp export.Options

	mu       sync.RWMutex
	sessions map[string]*editor.Editor
}

// Option modifies a Server during creation.
type Option func(*Server)

// WithLogger sets the logger used for connection events.
func WithLogger(l *logrus.Entry) Option { return func(s *Server) { s.log = l } }

// WithExportOptions sets the defaults used by the export endpoint. The
// background always comes from the exported session.
func WithExportOptions(o export.Options) Option { return func(s *Server) { s.exportOp = o } }

// WithCheckOrigin restricts which origins may open a websocket.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) { s.upgrader.CheckOrigin = fn }
}

// New creates a Server. A nil factory creates default sessions.
func New(factory Factory, opts ...Option) *Server {
	if factory == nil {
		factory = func(string) *editor.Editor { return editor.New() }
	}
	s := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		factory:  factory,
		log:      logrus.WithField("component", "server"),
		exportOp: export.Options{Scale: export.DefaultScale},
		sessions: make(map[string]*editor.Editor),
	}
	for _, o := range opts {
		o(s)
	}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/ws", s.connect)
	s.engine.GET("/sessions", s.list)
	s.engine.GET("/sessions/:id/export", s.export)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.WithField("addr", addr).Info("listening")
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Session returns the live session with id.
func (s *Server) Session(id string) (*editor.Editor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}

func (s *Server) register(id string, e *editor.Editor) {
	s.mu.Lock()
	s.sessions[id] = e
	s.mu.Unlock()
}

func (s *Server) unregister(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("request")
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) list(c *gin.Context) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"sessions": ids})
}

func (s *Server) export(c *gin.Context) {
	e, ok := s.Session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorReply{Error: "session not found"})
		return
	}
	f, err := export.ParseFormat(c.DefaultQuery("format", string(export.PNG)))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorReply{Error: err.Error()})
		return
	}
	opts := s.exportOp
	opts.Background = e.Background()
	if v := c.Query("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, ErrorReply{Error: "invalid scale"})
			return
		}
		opts.Scale = n
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.DefaultFilename(f)+`"`)
	c.Status(http.StatusOK)
	if err := export.Write(c.Writer, e.Grid(), f, opts); err != nil {
		s.log.WithError(err).WithField("format", f).Error("export failed")
	}
}

func (s *Server) connect(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	id := uuid.NewString()
	e := s.factory(id)
	s.register(id, e)
	cl := newClient(conn, id, e, s.log.WithField("session", id))
	cl.log.Info("session opened")
	go cl.writePump()
	cl.readPump()
	s.unregister(id)
	cl.log.Info("session closed")
}
