package live

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/contactform/pkg/contact"
)

type inbox struct {
	Type   string          `json:"type"`
	Detail json.RawMessage `json:"detail"`
}

type toastDetail struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type recordingTransport struct {
	mu   sync.Mutex
	sent []contact.Payload
	err  error
}

func (t *recordingTransport) Send(ctx context.Context, p contact.Payload) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, p)
	return t.err
}

func (t *recordingTransport) payloads() []contact.Payload {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]contact.Payload(nil), t.sent...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startHost(t *testing.T, cfg Config) (*Host, *httptest.Server) {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	host := NewHost(cfg)
	srv := httptest.NewServer(host.Routes())
	t.Cleanup(srv.Close)
	return host, srv
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, ev Event) {
	t.Helper()
	data, err := sonic.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) inbox {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg inbox
	if err := sonic.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return msg
}

func readState(t *testing.T, conn *websocket.Conn) State {
	t.Helper()
	for {
		msg := readMessage(t, conn)
		if msg.Type != EventState {
			continue
		}
		var st State
		if err := sonic.Unmarshal(msg.Detail, &st); err != nil {
			t.Fatal(err)
		}
		return st
	}
}

// connect dials and consumes the ready and initial state messages.
func connect(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn := dial(t, srv, nil)
	if msg := readMessage(t, conn); msg.Type != EventReady {
		t.Fatalf("first message = %q, want %q", msg.Type, EventReady)
	}
	st := readState(t, conn)
	if st.Phase != "idle" {
		t.Fatalf("initial phase = %q, want idle", st.Phase)
	}
	return conn
}

func fillForm(t *testing.T, conn *websocket.Conn, f contact.Fields) {
	t.Helper()
	for _, field := range contact.AllFields() {
		sendEvent(t, conn, Event{Type: TypeChange, Field: field.String(), Value: f.Get(field)})
		readState(t, conn)
	}
}

var validFields = contact.Fields{
	Name:    "Ada",
	Email:   "ada@example.com",
	Contact: "555-0100",
	Message: "Hello",
}

func TestHealthz(t *testing.T) {
	_, srv := startHost(t, Config{})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSessionChangeAndBlur(t *testing.T) {
	_, srv := startHost(t, Config{Transport: &recordingTransport{}})
	conn := connect(t, srv)

	sendEvent(t, conn, Event{Type: TypeChange, Field: "email", Value: "not-an-email"})
	st := readState(t, conn)
	if st.Fields.Email != "not-an-email" {
		t.Errorf("email = %q", st.Fields.Email)
	}
	if !st.Validation.Valid() {
		t.Errorf("validation changed before blur: %+v", st.Validation)
	}

	sendEvent(t, conn, Event{Type: TypeBlur, Field: "email"})
	st = readState(t, conn)
	want := contact.ValidationState{EmailInvalid: true, MissingRequired: true}
	if diff := cmp.Diff(want, st.Validation); diff != "" {
		t.Errorf("validation mismatch (-want +got):\n%s", diff)
	}
	wantHints := []string{contact.HintInvalidEmail, contact.HintMissingRequired}
	if diff := cmp.Diff(wantHints, st.Hints); diff != "" {
		t.Errorf("hints mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionSubmitSuccess(t *testing.T) {
	tr := &recordingTransport{}
	host, srv := startHost(t, Config{Transport: tr})
	conn := connect(t, srv)

	fillForm(t, conn, validFields)
	sendEvent(t, conn, Event{Type: TypeSubmit})

	var toasts []toastDetail
	var final State
	for {
		msg := readMessage(t, conn)
		if msg.Type == "contact:toast" {
			var td toastDetail
			if err := sonic.Unmarshal(msg.Detail, &td); err != nil {
				t.Fatal(err)
			}
			toasts = append(toasts, td)
			continue
		}
		if msg.Type != EventState {
			continue
		}
		var st State
		if err := sonic.Unmarshal(msg.Detail, &st); err != nil {
			t.Fatal(err)
		}
		if st.Attempt != nil {
			final = st
			break
		}
	}

	if final.Attempt.Phase != "succeeded" {
		t.Errorf("attempt phase = %q, want succeeded", final.Attempt.Phase)
	}
	if !final.Fields.IsZero() {
		t.Errorf("fields not cleared: %+v", final.Fields)
	}
	wantToasts := []toastDetail{{Level: "success", Message: contact.DefaultSuccessMessage}}
	if diff := cmp.Diff(wantToasts, toasts); diff != "" {
		t.Errorf("toasts mismatch (-want +got):\n%s", diff)
	}
	wantSent := []contact.Payload{contact.PayloadFrom(validFields)}
	if diff := cmp.Diff(wantSent, tr.payloads()); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	if host.Sessions() != 1 {
		t.Errorf("Sessions() = %d, want 1", host.Sessions())
	}
}

func TestSessionSubmitFailure(t *testing.T) {
	tr := &recordingTransport{err: errors.New("boom")}
	_, srv := startHost(t, Config{Transport: tr})
	conn := connect(t, srv)

	fillForm(t, conn, validFields)
	sendEvent(t, conn, Event{Type: TypeSubmit})

	var final State
	for final.Attempt == nil {
		final = readState(t, conn)
	}
	if final.Attempt.Phase != "failed" {
		t.Errorf("attempt phase = %q, want failed", final.Attempt.Phase)
	}
	if !strings.Contains(final.Attempt.Error, "boom") {
		t.Errorf("attempt error = %q, want it to mention boom", final.Attempt.Error)
	}
	if diff := cmp.Diff(validFields, final.Fields); diff != "" {
		t.Errorf("fields should be kept on failure (-want +got):\n%s", diff)
	}
}

func TestSessionSubmitBlocked(t *testing.T) {
	tr := &recordingTransport{}
	_, srv := startHost(t, Config{Transport: tr})
	conn := connect(t, srv)

	sendEvent(t, conn, Event{Type: TypeSubmit})

	var final State
	for final.Attempt == nil {
		final = readState(t, conn)
	}
	if final.Attempt.Phase != "blocked" {
		t.Errorf("attempt phase = %q, want blocked", final.Attempt.Phase)
	}
	if !final.Validation.MissingRequired {
		t.Error("MissingRequired not set after blocked submit")
	}
	if n := len(tr.payloads()); n != 0 {
		t.Errorf("transport called %d times, want 0", n)
	}
}

func TestSessionErrors(t *testing.T) {
	_, srv := startHost(t, Config{Transport: &recordingTransport{}})
	conn := connect(t, srv)

	tests := []struct {
		name  string
		frame string
		want  string
	}{
		{"malformed", "{not json", "invalid event"},
		{"unknown type", `{"type":"reset"}`, `unknown event "reset"`},
		{"unknown field", `{"type":"blur","field":"age"}`, "age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.frame)); err != nil {
				t.Fatal(err)
			}
			msg := readMessage(t, conn)
			if msg.Type != EventError {
				t.Fatalf("type = %q, want %q", msg.Type, EventError)
			}
			var detail struct {
				Message string `json:"message"`
			}
			if err := sonic.Unmarshal(msg.Detail, &detail); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(detail.Message, tt.want) {
				t.Errorf("message = %q, want it to contain %q", detail.Message, tt.want)
			}
		})
	}
}

func TestCheckOrigin(t *testing.T) {
	_, srv := startHost(t, Config{AllowedOrigins: []string{"https://example.com"}})
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	header := http.Header{"Origin": []string{"https://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		t.Fatal("dial from disallowed origin succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}

	conn := dial(t, srv, http.Header{"Origin": []string{"https://example.com"}})
	if msg := readMessage(t, conn); msg.Type != EventReady {
		t.Errorf("first message = %q, want %q", msg.Type, EventReady)
	}
}

func TestSessionsTracked(t *testing.T) {
	host, srv := startHost(t, Config{Transport: &recordingTransport{}})
	conn := dial(t, srv, nil)
	msg := readMessage(t, conn)

	var ready struct {
		SessionID string `json:"sessionId"`
	}
	if err := sonic.Unmarshal(msg.Detail, &ready); err != nil {
		t.Fatal(err)
	}
	s, ok := host.Session(ready.SessionID)
	if !ok {
		t.Fatalf("session %q not registered", ready.SessionID)
	}
	if s.Controller() == nil {
		t.Error("session has no controller")
	}

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for host.Sessions() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session not removed after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
