package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/contactform/pkg/contact"
)

// Config configures a Host.
type Config struct {
	// Transport delivers submissions. It is shared by all sessions.
	Transport contact.Transport

	// ControllerOptions are applied to every session's controller.
	// The notifier is always the session itself.
	ControllerOptions []contact.Option

	// AllowedOrigins lists origins allowed to connect. "*" allows any.
	// Empty allows same-origin requests only.
	AllowedOrigins []string

	// ReadLimit caps the size of one inbound frame (default: 16KB).
	ReadLimit int64

	// WriteTimeout bounds each outbound frame (default: 10s).
	WriteTimeout time.Duration

	// Logger is the host logger (default: slog.Default()).
	Logger *slog.Logger
}

// Host accepts form sessions.
type Host struct {
	config   Config
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewHost creates a Host.
func NewHost(cfg Config) *Host {
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = 16 << 10
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &Host{
		config:   cfg,
		logger:   logger.With("component", "live"),
		sessions: make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if len(cfg.AllowedOrigins) > 0 {
		h.upgrader.CheckOrigin = h.checkOrigin
	}
	return h
}

// Routes returns the host routes:
//   - GET /ws upgrades to a form session
//   - GET /healthz reports liveness
func (h *Host) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/ws", h.ServeWS)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return r
}

// ServeWS upgrades the request and serves a form session until the
// connection closes.
func (h *Host) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	conn.SetReadLimit(h.config.ReadLimit)

	// Submissions outlive the connection that started them.
	ctx := context.WithoutCancel(r.Context())
	s := newSession(ctx, conn, &h.config, h.logger)

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
	s.logger.Info("session started", "remote", r.RemoteAddr)

	s.run()

	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
	s.logger.Info("session ended")
}

// Sessions returns the number of connected sessions.
func (h *Host) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Session returns a connected session by ID.
func (h *Host) Session(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

func (h *Host) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	h.logger.Warn("origin rejected", "origin", origin)
	return false
}
