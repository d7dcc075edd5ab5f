package config

import (
	"encoding/json"
	stderrors "errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/vango-dev/contactform/internal/errors"
	"github.com/vango-dev/contactform/pkg/contact"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the default configuration file.
	ConfigFileName = "contact.json"

	// DefaultAddress is the default listen address of the live form host.
	DefaultAddress = "localhost:8080"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"
)

// configFileNames are tried in order when loading from a directory.
var configFileNames = []string{ConfigFileName, "contact.yaml", "contact.yml"}

// Config represents the complete contact form configuration.
type Config struct {
	// Endpoint is the URL the form is posted to.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" env:"CONTACT_ENDPOINT"`

	// Timeout bounds each submission (e.g., "15s"). Empty means none.
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"CONTACT_TIMEOUT"`

	// StripHTML removes HTML markup from field values before sending.
	StripHTML bool `json:"stripHTML,omitempty" yaml:"stripHTML,omitempty" env:"CONTACT_STRIP_HTML"`

	// LiveEmailGate re-checks the email at submit time.
	LiveEmailGate bool `json:"liveEmailGate,omitempty" yaml:"liveEmailGate,omitempty" env:"CONTACT_LIVE_EMAIL_GATE"`

	// Serve configures the live form host.
	Serve ServeConfig `json:"serve" yaml:"serve"`

	// Messages overrides notification texts.
	Messages MessagesConfig `json:"messages" yaml:"messages"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServeConfig contains live form host settings.
type ServeConfig struct {
	// Address is the listen address.
	Address string `json:"address,omitempty" yaml:"address,omitempty" env:"CONTACT_ADDRESS"`

	// MetricsPath is the Prometheus endpoint path. "-" disables it.
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty" env:"CONTACT_METRICS_PATH"`

	// AllowedOrigins lists origins allowed to open a form session.
	// Empty allows same-origin requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty" env:"CONTACT_ALLOWED_ORIGINS"`
}

// MessagesConfig contains notification texts.
type MessagesConfig struct {
	// Success is shown after the endpoint accepts the form.
	Success string `json:"success,omitempty" yaml:"success,omitempty" env:"CONTACT_SUCCESS_MESSAGE"`

	// Fallback is shown when a failure carries no message.
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty" env:"CONTACT_FALLBACK_MESSAGE"`
}

// New returns a configuration with default values.
func New() *Config {
	return &Config{
		Serve: ServeConfig{
			Address:     DefaultAddress,
			MetricsPath: DefaultMetricsPath,
		},
		Messages: MessagesConfig{
			Success:  contact.DefaultSuccessMessage,
			Fallback: contact.DefaultFallbackMessage,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for contact.json, contact.yaml, and contact.yml in that order.
func Load(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("C121").
		WithDetail("No contact.json or contact.yaml found in " + dir)
}

// LoadFile reads configuration from a specific file path. The format is
// chosen from the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C121").
				WithDetail("No configuration found at " + path)
		}
		return nil, errors.New("C120").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("C120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// ApplyEnv overrides values from CONTACT_* environment variables.
func (c *Config) ApplyEnv() error {
	err := envdecode.Decode(c)
	if err != nil && !stderrors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return errors.New("C122").
			WithDetail("Failed to read environment: " + err.Error())
	}
	c.applyDefaults()
	return nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("C120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Serve.Address == "" {
		c.Serve.Address = DefaultAddress
	}
	if c.Serve.MetricsPath == "" {
		c.Serve.MetricsPath = DefaultMetricsPath
	}
	if c.Messages.Success == "" {
		c.Messages.Success = contact.DefaultSuccessMessage
	}
	if c.Messages.Fallback == "" {
		c.Messages.Fallback = contact.DefaultFallbackMessage
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("C122").
			WithDetail("endpoint is required").
			WithSuggestion("Set \"endpoint\" in contact.json, CONTACT_ENDPOINT, or --endpoint")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("C122").
			WithDetail("endpoint must be an absolute http or https URL, got " + c.Endpoint)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.Serve.MetricsPath != "-" && !strings.HasPrefix(c.Serve.MetricsPath, "/") {
		return errors.New("C122").
			WithDetail("serve.metricsPath must start with \"/\" or be \"-\"")
	}
	return nil
}

// TimeoutDuration parses Timeout. An empty value means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0, errors.New("C122").
			WithDetail("timeout must be a non-negative duration such as \"15s\", got " + c.Timeout)
	}
	return d, nil
}

// MetricsEnabled reports whether the metrics endpoint is served.
func (c *Config) MetricsEnabled() bool {
	return c.Serve.MetricsPath != "-"
}

// Exists reports whether a configuration file exists in dir.
func Exists(dir string) bool {
	for _, name := range configFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindConfigDir walks up directories to find a configuration file.
func FindConfigDir(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("C121").
				WithDetail("No contact.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the working directory or its
// parents. A missing file yields the defaults. Environment overrides are
// applied in both cases.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg := New()
	if dir, err := FindConfigDir(wd); err == nil {
		cfg, err = Load(dir)
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}
