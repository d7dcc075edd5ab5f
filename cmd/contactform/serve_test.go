package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vango-dev/contactform/internal/config"
)

func TestServeHandler(t *testing.T) {
	_, url := startReceiver(t, http.StatusOK)
	cfg := config.New()
	cfg.Endpoint = url

	registry := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler, host, err := newServeHandler(cfg, logger, registry)
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	// A submit with an empty form is blocked and counted.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"submit"}`)); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		n, err := testutil.GatherAndCount(registry, "contactform_blocked_total")
		if err != nil {
			t.Fatal(err)
		}
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("blocked submit not observed")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if host.Sessions() != 1 {
		t.Errorf("Sessions() = %d, want 1", host.Sessions())
	}

	resp, err = http.Get(srv.URL + cfg.Serve.MetricsPath)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `contactform_attempts_total{outcome="blocked"} 1`) {
		t.Errorf("metrics missing blocked attempt:\n%s", body)
	}
}

func TestServeHandlerMetricsDisabled(t *testing.T) {
	cfg := config.New()
	cfg.Endpoint = "http://127.0.0.1:1/contact"
	cfg.Serve.MetricsPath = "-"

	handler, _, err := newServeHandler(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
