package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	cerrors "github.com/vango-dev/contactform/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Serve.Address != DefaultAddress {
		t.Errorf("Serve.Address = %q, want %q", cfg.Serve.Address, DefaultAddress)
	}
	if cfg.Serve.MetricsPath != DefaultMetricsPath {
		t.Errorf("Serve.MetricsPath = %q, want %q", cfg.Serve.MetricsPath, DefaultMetricsPath)
	}
	if cfg.Messages.Success != "Message sent successfully!" {
		t.Errorf("Messages.Success = %q", cfg.Messages.Success)
	}
	if cfg.Messages.Fallback != "An error occurred" {
		t.Errorf("Messages.Fallback = %q", cfg.Messages.Fallback)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	var ce *cerrors.ContactError
	if !stderrors.As(err, &ce) || ce.Code != "C121" {
		t.Fatalf("expected C121 for missing config, got %v", err)
	}

	configJSON := `{
  "endpoint": "https://example.com/contact",
  "timeout": "15s",
  "stripHTML": true,
  "serve": {
    "address": "0.0.0.0:9000",
    "allowedOrigins": ["https://example.com"]
  },
  "messages": {
    "success": "Thanks!"
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := &Config{
		Endpoint:  "https://example.com/contact",
		Timeout:   "15s",
		StripHTML: true,
		Serve: ServeConfig{
			Address:        "0.0.0.0:9000",
			MetricsPath:    DefaultMetricsPath,
			AllowedOrigins: []string{"https://example.com"},
		},
		Messages: MessagesConfig{
			Success:  "Thanks!",
			Fallback: "An error occurred",
		},
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) || cfg.Dir() != tmpDir {
		t.Errorf("unexpected path %q dir %q", cfg.Path(), cfg.Dir())
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `endpoint: https://example.com/form
liveEmailGate: true
serve:
  metricsPath: "-"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "contact.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Endpoint != "https://example.com/form" || !cfg.LiveEmailGate {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.MetricsEnabled() {
		t.Error("expected metrics disabled")
	}
	if cfg.Serve.Address != DefaultAddress {
		t.Errorf("expected default address, got %q", cfg.Serve.Address)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	var ce *cerrors.ContactError
	if !stderrors.As(err, &ce) || ce.Code != "C120" {
		t.Fatalf("expected C120, got %v", err)
	}
	if !strings.Contains(ce.Suggestion, "valid JSON") {
		t.Errorf("unexpected suggestion %q", ce.Suggestion)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg := New()
			cfg.Endpoint = "https://example.com/contact"
			cfg.Timeout = "5s"

			path := filepath.Join(tmpDir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("expected path %q, got %q", path, cfg.Path())
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(Config{})); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CONTACT_ENDPOINT", "https://env.example.com/submit")
	t.Setenv("CONTACT_TIMEOUT", "3s")
	t.Setenv("CONTACT_STRIP_HTML", "true")
	t.Setenv("CONTACT_ADDRESS", ":7000")

	cfg := New()
	cfg.Endpoint = "https://file.example.com"
	cfg.Messages.Success = "From file"

	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Endpoint != "https://env.example.com/submit" {
		t.Errorf("expected env endpoint, got %q", cfg.Endpoint)
	}
	if d, _ := cfg.TimeoutDuration(); d != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", d)
	}
	if !cfg.StripHTML || cfg.Serve.Address != ":7000" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Messages.Success != "From file" {
		t.Errorf("unset env must keep file value, got %q", cfg.Messages.Success)
	}
}

func TestApplyEnvNothingSet(t *testing.T) {
	for _, key := range []string{
		"CONTACT_ENDPOINT", "CONTACT_TIMEOUT", "CONTACT_STRIP_HTML", "CONTACT_LIVE_EMAIL_GATE",
		"CONTACT_ADDRESS", "CONTACT_METRICS_PATH", "CONTACT_ALLOWED_ORIGINS",
		"CONTACT_SUCCESS_MESSAGE", "CONTACT_FALLBACK_MESSAGE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := New()
	if err := cfg.ApplyEnv(); err != nil {
		t.Errorf("expected no error without env, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing endpoint", func(c *Config) { c.Endpoint = "" }, true},
		{"relative endpoint", func(c *Config) { c.Endpoint = "/contact" }, true},
		{"ftp endpoint", func(c *Config) { c.Endpoint = "ftp://example.com" }, true},
		{"bad timeout", func(c *Config) { c.Timeout = "soon" }, true},
		{"negative timeout", func(c *Config) { c.Timeout = "-1s" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = "0s" }, false},
		{"bad metrics path", func(c *Config) { c.Serve.MetricsPath = "metrics" }, true},
		{"metrics disabled", func(c *Config) { c.Serve.MetricsPath = "-" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.Endpoint = "https://example.com/contact"
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindConfigDir(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "contact.yml"), []byte("endpoint: https://x.io\n"), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err := FindConfigDir(nested)
	if err != nil {
		t.Fatalf("FindConfigDir failed: %v", err)
	}
	resolved, _ := filepath.Abs(root)
	if dir != resolved {
		t.Errorf("expected %q, got %q", resolved, dir)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists mismatch")
	}
}

func TestLoadFromWorkingDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`{"endpoint":"https://wd.example.com"}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONTACT_TIMEOUT", "2s")

	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadFromWorkingDir()
	if err != nil {
		t.Fatalf("LoadFromWorkingDir failed: %v", err)
	}
	if cfg.Endpoint != "https://wd.example.com" || cfg.Timeout != "2s" {
		t.Errorf("unexpected config %+v", cfg)
	}
}
