package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vango-dev/contactform/internal/config"
	"github.com/vango-dev/contactform/pkg/contact"
	"github.com/vango-dev/contactform/pkg/transport"
)

// endpointFlags are the per-command overrides of the configuration file.
type endpointFlags struct {
	endpoint      string
	timeout       string
	stripHTML     bool
	liveEmailGate bool
}

func (f *endpointFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.endpoint, "endpoint", "e", "", "URL the form is posted to (default from contact.json)")
	cmd.Flags().StringVar(&f.timeout, "timeout", "", "Per-submission timeout such as 15s (default: none)")
	cmd.Flags().BoolVar(&f.stripHTML, "strip-html", false, "Remove HTML markup from values before sending")
	cmd.Flags().BoolVar(&f.liveEmailGate, "live-email-gate", false, "Re-check the email when submitting")
}

// loadConfig reads the configuration and applies flags the user set.
func loadConfig(cmd *cobra.Command, g *globalOptions, f *endpointFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
		if err == nil {
			err = cfg.ApplyEnv()
		}
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = f.endpoint
	}
	if flags.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if flags.Changed("strip-html") {
		cfg.StripHTML = f.stripHTML
	}
	if flags.Changed("live-email-gate") {
		cfg.LiveEmailGate = f.liveEmailGate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newTransport builds the HTTP transport described by cfg.
func newTransport(cfg *config.Config, logger *slog.Logger) (*transport.Client, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := []transport.Option{
		transport.WithLogger(logger),
		transport.WithUserAgent("contactform/" + version),
	}
	if timeout > 0 {
		opts = append(opts, transport.WithTimeout(timeout))
	}
	if cfg.StripHTML {
		opts = append(opts, transport.WithSanitizer(transport.StripHTML()))
	}
	return transport.New(cfg.Endpoint, opts...), nil
}

// controllerOptions returns the controller options described by cfg.
func controllerOptions(cfg *config.Config, logger *slog.Logger) []contact.Option {
	return []contact.Option{
		contact.WithLogger(logger),
		contact.WithLiveEmailGate(cfg.LiveEmailGate),
		contact.WithMessages(cfg.Messages.Success, cfg.Messages.Fallback),
	}
}
