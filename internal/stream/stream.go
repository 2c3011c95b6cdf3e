// Package stream serves rendered globe frames to browsers over websockets.
package stream

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taigrr/globe/pkg/globe"
	"github.com/taigrr/globe/pkg/render"
	"github.com/taigrr/globe/pkg/sky"
)

//go:embed index.html
var indexHTML []byte

const (
	writeTimeout = 2 * time.Second

	// maxControlSize bounds one inbound control message. A Control encodes
	// to well under 200 bytes.
	maxControlSize = 4096
)

// Frame is one rendered picture as sent to clients.
type Frame struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Offset float64  `json:"offset"`
	Rows   []string `json:"rows"`
}

// Control is a client request to change the animation. Absent fields are
// left unchanged.
type Control struct {
	Scale    *float64 `json:"scale,omitempty"`
	Speed    *float64 `json:"speed,omitempty"`
	Tilt     *float64 `json:"tilt,omitempty"`
	Lighting *bool    `json:"lighting,omitempty"`
}

// Server renders a globe at a fixed rate and broadcasts each frame to all
// connected websocket clients.
type Server struct {
	mu      sync.Mutex
	globe   *globe.Globe
	buf     *render.CharBuffer
	sky     *sky.NightSky
	elapsed float64
	last    Frame

	width, height int
	fps           int
	log           *zap.Logger

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex

	// nil CheckOrigin: only same-origin pages and non-browser clients
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithSize sets the frame size in cells.
func WithSize(width, height int) Option {
	return func(s *Server) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// WithFPS sets the broadcast rate used by Run.
func WithFPS(fps int) Option {
	return func(s *Server) {
		if fps > 0 {
			s.fps = fps
		}
	}
}

// WithStars draws a star field behind the globe.
func WithStars(sk *sky.NightSky) Option {
	return func(s *Server) { s.sky = sk }
}

// WithLogger sets the server logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a server around g. The server takes ownership of g; all
// further access must go through the server.
func New(g *globe.Globe, opts ...Option) *Server {
	s := &Server{
		globe:   g,
		width:   80,
		height:  40,
		fps:     15,
		log:     zap.NewNop(),
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.buf = render.NewCharBuffer(s.width, s.height)
	if s.sky != nil {
		s.sky.Resize(s.width, s.height)
	}
	s.last = s.renderLocked()
	return s
}

// Handler returns the HTTP handler: "/" serves the viewer page and "/ws"
// the frame stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxControlSize)

	wmu := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = wmu
	n := len(s.clients)
	s.clientsMu.Unlock()
	s.log.Info("client connected", zap.String("remote", r.RemoteAddr), zap.Int("clients", n))

	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		n := len(s.clients)
		s.clientsMu.Unlock()
		s.log.Info("client disconnected", zap.String("remote", r.RemoteAddr), zap.Int("clients", n))
	}()

	// Send the latest frame so the page is not blank until the next tick.
	s.mu.Lock()
	first := s.last
	s.mu.Unlock()
	if err := writeFrame(conn, wmu, first); err != nil {
		return
	}

	for {
		var c Control
		if err := conn.ReadJSON(&c); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}
		s.Apply(c)
	}
}

// Apply changes the globe's parameters from a control message.
func (s *Server) Apply(c Control) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Scale != nil {
		s.globe.SetScale(*c.Scale)
	}
	if c.Speed != nil {
		s.globe.SetSpeed(*c.Speed)
	}
	if c.Tilt != nil {
		s.globe.SetTilt(*c.Tilt)
	}
	if c.Lighting != nil {
		s.globe.SetLighting(*c.Lighting)
	}
	s.log.Debug("control applied", zap.Any("params", s.globe.Params()))
}

// Params returns the globe's current render parameters.
func (s *Server) Params() render.SphereParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.globe.Params()
}

// Tick advances the animation by dt seconds and renders a new frame.
func (s *Server) Tick(dt float64) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.globe.Update(dt)
	s.elapsed += dt
	s.last = s.renderLocked()
	return s.last
}

func (s *Server) renderLocked() Frame {
	s.buf.Clear()
	s.globe.Render(s.buf, s.width, s.height)
	if s.sky != nil {
		s.sky.Draw(s.buf, s.elapsed)
	}
	return Frame{
		Width:  s.width,
		Height: s.height,
		Offset: s.globe.AngleOffset(),
		Rows:   s.buf.Lines(' '),
	}
}

// Broadcast sends f to every client. Each client is written concurrently
// from a snapshot of the set, so a stalled client neither delays the
// others nor blocks connects. Clients whose write fails are dropped.
func (s *Server) Broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		s.log.Error("encode frame", zap.Error(err))
		return
	}

	s.clientsMu.RLock()
	targets := maps.Clone(s.clients)
	s.clientsMu.RUnlock()

	var (
		wg       sync.WaitGroup
		failedMu sync.Mutex
		failed   []*websocket.Conn
	)
	for conn, wmu := range targets {
		wg.Go(func() {
			if err := writeMessage(conn, wmu, data); err != nil {
				s.log.Debug("websocket write failed", zap.Error(err))
				failedMu.Lock()
				failed = append(failed, conn)
				failedMu.Unlock()
			}
		})
	}
	wg.Wait()

	if len(failed) > 0 {
		s.clientsMu.Lock()
		for _, conn := range failed {
			delete(s.clients, conn)
			conn.Close()
		}
		s.clientsMu.Unlock()
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Run ticks and broadcasts at the configured rate until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(s.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			start := time.Now()
			s.Broadcast(s.Tick(dt))
			if took := time.Since(start); took > interval {
				s.log.Warn("slow frame", zap.Duration("took", took), zap.Duration("budget", interval))
			}
		}
	}
}

// ListenAndServe serves Handler on addr and runs the broadcast loop until
// ctx is done, then shuts the HTTP server down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		s.log.Info("serving frames", zap.String("addr", addr), zap.Int("fps", s.fps))
		errc <- srv.ListenAndServe()
	}()
	go func() { _ = s.Run(ctx) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	err := srv.Shutdown(shutdownCtx)
	s.closeClients()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// closeClients sends a close frame to every client and drops it.
// Hijacked connections are not tracked by http.Server.Shutdown.
func (s *Server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn, wmu := range s.clients {
		wmu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
		wmu.Unlock()
		conn.Close()
		delete(s.clients, conn)
	}
}

func writeFrame(conn *websocket.Conn, wmu *sync.Mutex, f Frame) error {
	wmu.Lock()
	defer wmu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(f)
}

func writeMessage(conn *websocket.Conn, wmu *sync.Mutex, data []byte) error {
	wmu.Lock()
	defer wmu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}
