package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/contactform/pkg/contact"
	"github.com/vango-dev/contactform/pkg/toast"
)

// sendBuffer is the number of outbound messages queued per session.
const sendBuffer = 32

// Session is one connected form.
type Session struct {
	ID string

	conn    *websocket.Conn
	ctrl    *contact.Controller
	ctx     context.Context
	logger  *slog.Logger
	timeout time.Duration

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(ctx context.Context, conn *websocket.Conn, cfg *Config, logger *slog.Logger) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		conn:    conn,
		ctx:     ctx,
		timeout: cfg.WriteTimeout,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
	}
	s.logger = logger.With("session_id", s.ID)

	opts := make([]contact.Option, 0, len(cfg.ControllerOptions)+2)
	opts = append(opts, contact.WithLogger(s.logger))
	opts = append(opts, cfg.ControllerOptions...)
	opts = append(opts, contact.WithNotifier(toast.ForEmitter(s)))
	s.ctrl = contact.New(cfg.Transport, opts...)
	return s
}

// Controller returns the form controller owned by the session.
func (s *Session) Controller() *contact.Controller {
	return s.ctrl
}

// Emit queues an event for the browser. It implements toast.Emitter.
func (s *Session) Emit(name string, data any) {
	msg, err := encodeMessage(name, data)
	if err != nil {
		s.logger.Error("event encode error", "event", name, "error", err)
		return
	}
	select {
	case s.send <- msg:
	case <-s.done:
	}
}

// run serves the connection until the browser goes away.
func (s *Session) run() {
	go s.writeLoop()
	defer s.close()

	s.Emit(EventReady, map[string]any{"sessionId": s.ID})
	s.emitState(nil)

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.Warn("read error", "error", err)
			}
			return
		}
		s.handle(msg)
	}
}

// handle applies one browser event to the controller.
func (s *Session) handle(msg []byte) {
	ev, err := decodeEvent(msg)
	if err != nil {
		s.logger.Warn("event decode error", "error", err)
		s.emitError("invalid event")
		return
	}

	switch ev.Type {
	case TypeChange, TypeBlur:
		field, err := contact.ParseField(ev.Field)
		if err != nil {
			s.emitError(err.Error())
			return
		}
		if ev.Type == TypeChange {
			s.ctrl.OnFieldChange(field, ev.Value)
		} else {
			s.ctrl.OnBlur(field)
		}
		s.emitState(nil)

	case TypeSubmit:
		a := s.ctrl.OnSubmit(s.ctx)
		s.emitState(nil)
		go s.watch(a)

	default:
		s.emitError(fmt.Sprintf("unknown event %q", ev.Type))
	}
}

// watch reports the outcome of an attempt once it settles.
func (s *Session) watch(a *contact.Attempt) {
	select {
	case <-a.Done():
		s.emitState(a)
	case <-s.done:
	}
}

func (s *Session) emitState(a *contact.Attempt) {
	s.Emit(EventState, snapshot(s.ctrl, a))
}

func (s *Session) emitError(message string) {
	s.Emit(EventError, map[string]any{"message": message})
}

func (s *Session) writeLoop() {
	for {
		select {
		case msg := <-s.send:
			if s.timeout > 0 {
				s.conn.SetWriteDeadline(time.Now().Add(s.timeout))
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Warn("write error", "error", err)
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}
